package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postboard/postboard/internal/identity"
	"github.com/postboard/postboard/internal/tokens"
	"github.com/postboard/postboard/internal/users"
	"github.com/postboard/postboard/pkg/logger"
)

// RegisterRequest is the body of POST /api/users
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=72"`
}

// LoginRequest is the body of POST /api/auth
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

var credentialMessages = map[string]string{
	"name":         "Name is required!",
	"email":        "Email is not Valid email",
	"password":     "Password must have min length of 4",
	"password.max": "Password must have max length of 72",
}

// AuthHandler holds dependencies
type AuthHandler struct {
	codec    *tokens.Codec
	usersSvc *users.Service
	ttl      time.Duration
}

func NewAuthHandler(codec *tokens.Codec, u *users.Service, ttl time.Duration) *AuthHandler {
	return &AuthHandler{codec: codec, usersSvc: u, ttl: ttl}
}

// Register routes for registration and login. gate protects the current-user lookup.
func (h *AuthHandler) Register(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	rg.POST("/users", h.SignUp)
	rg.POST("/auth", h.Login)
	rg.GET("/auth", gate, h.Me)
}

// SignUp creates an account and returns a credential for it
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err, credentialMessages)
		return
	}
	u, err := h.usersSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithToken(c, u.ID)
}

// Login checks email/password and returns a credential
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err, credentialMessages)
		return
	}
	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithToken(c, u.ID)
}

// Me returns the authenticated user without the password hash
func (h *AuthHandler) Me(c *gin.Context) {
	id := identity.MustFromContext(c.Request.Context())
	u, err := h.usersSvc.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"kind": "not_found", "msg": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, userID string) {
	tok, err := h.codec.Sign(userID, h.ttl)
	if err != nil {
		logger.Errorf("failed to sign token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"kind": "store_failure", "msg": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}
