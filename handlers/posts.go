package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postboard/postboard/internal/identity"
	"github.com/postboard/postboard/internal/post/service"
)

type postRequest struct {
	Title    string `json:"title" binding:"required"`
	Text     string `json:"text" binding:"required"`
	ImageID  string `json:"imgid"`
	ImageURL string `json:"imgurl"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

var (
	createMessages  = map[string]string{"title": "Post must exist", "text": "Post must exist"}
	updateMessages  = map[string]string{"title": "Post title is required", "text": "Post content is required"}
	commentMessages = map[string]string{"text": "Comment content is required"}
)

// PostHandler exposes the post service over HTTP.
type PostHandler struct {
	svc service.Service
}

func NewPostHandler(svc service.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// Register mounts the post routes under rg. gate guards every mutating route.
func (h *PostHandler) Register(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	p := rg.Group("/posts")
	p.GET("", h.List)
	p.GET("/:seo", h.GetBySeo)
	p.POST("", gate, h.Create)
	p.PUT("/:post_id", gate, h.Update)
	p.DELETE("/:post_id", gate, h.Delete)
	p.PUT("/like/:post_id", gate, h.Like)
	p.PUT("/unlike/:post_id", gate, h.Unlike)
	p.POST("/comments/:post_id", gate, h.AddComment)
	p.DELETE("/comments/:post_id/:comment_id", gate, h.RemoveComment)
}

func caller(c *gin.Context) identity.Identity {
	return identity.MustFromContext(c.Request.Context())
}

func (h *PostHandler) List(c *gin.Context) {
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PostHandler) GetBySeo(c *gin.Context) {
	p, err := h.svc.GetBySeo(c.Request.Context(), c.Param("seo"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err, createMessages)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), caller(c), service.CreateInput{
		Title:    req.Title,
		Text:     req.Text,
		ImageID:  req.ImageID,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

func (h *PostHandler) Update(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err, updateMessages)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("post_id"), caller(c), req.Title, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("post_id"), caller(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

func (h *PostHandler) Like(c *gin.Context) {
	likes, err := h.svc.Like(c.Request.Context(), c.Param("post_id"), caller(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	likes, err := h.svc.Unlike(c.Request.Context(), c.Param("post_id"), caller(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err, commentMessages)
		return
	}
	comments, err := h.svc.AddComment(c.Request.Context(), c.Param("post_id"), caller(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *PostHandler) RemoveComment(c *gin.Context) {
	comments, err := h.svc.RemoveComment(c.Request.Context(), c.Param("post_id"), c.Param("comment_id"), caller(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
