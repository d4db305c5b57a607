package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>postboard API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// swaggerJSON documents the public API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "postboard", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "token": { "type": "apiKey", "in": "header", "name": "x-auth-token" } }
  },
  "paths": {
    "/api/users": {
      "post": { "summary": "Register a user", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "token" }, "400": { "description": "validation failed or user exists" } } }
    },
    "/api/auth": {
      "post": { "summary": "Log in", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "token" }, "400": { "description": "invalid credentials" } } },
      "get": { "summary": "Current user", "security": [{"token": []}], "responses": { "200": { "description": "user" }, "401": { "description": "no or invalid token" } } }
    },
    "/api/posts": {
      "get": { "summary": "List posts, newest first", "responses": { "200": { "description": "posts" } } },
      "post": { "summary": "Create a post", "security": [{"token": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"},"text":{"type":"string"},"imgid":{"type":"string"},"imgurl":{"type":"string"}}}}}}, "responses": { "201": { "description": "created post" } } }
    },
    "/api/posts/{seo}": {
      "get": { "summary": "Get a post by seo", "responses": { "200": { "description": "post" }, "404": { "description": "not found" } } }
    },
    "/api/posts/{post_id}": {
      "put": { "summary": "Edit own post", "security": [{"token": []}], "responses": { "200": { "description": "updated post" }, "401": { "description": "not owner" } } },
      "delete": { "summary": "Delete own post", "security": [{"token": []}], "responses": { "200": { "description": "removed" }, "401": { "description": "not owner" } } }
    },
    "/api/posts/like/{post_id}": {
      "put": { "summary": "Like a post", "security": [{"token": []}], "responses": { "200": { "description": "likes" }, "400": { "description": "already liked" } } }
    },
    "/api/posts/unlike/{post_id}": {
      "put": { "summary": "Unlike a post", "security": [{"token": []}], "responses": { "200": { "description": "likes" }, "400": { "description": "not liked" } } }
    },
    "/api/posts/comments/{post_id}": {
      "post": { "summary": "Comment on a post", "security": [{"token": []}], "responses": { "200": { "description": "comments" } } }
    },
    "/api/posts/comments/{post_id}/{comment_id}": {
      "delete": { "summary": "Delete own comment", "security": [{"token": []}], "responses": { "200": { "description": "comments" }, "401": { "description": "not owner" }, "404": { "description": "no such comment" } } }
    },
    "/api/images": {
      "post": { "summary": "Upload a post image", "security": [{"token": []}], "responses": { "201": { "description": "image id and url" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
