package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>bookstore-api - Swagger</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "bookstore-api", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Book": { "type": "object", "properties": {
        "id": {"type":"string"}, "title": {"type":"string"}, "author": {"type":"string"},
        "price": {"type":"number"}, "stock": {"type":"integer"}, "image": {"type":"string"},
        "discount_price": {"type":"number"}, "description": {"type":"string"} } },
      "Tokens": { "type": "object", "properties": {
        "access_token": {"type":"string"}, "refresh_token": {"type":"string"},
        "token_type": {"type":"string"}, "expires_in": {"type":"integer"} } }
    }
  },
  "paths": {
    "/login": {
      "post": {
        "summary": "Exchange email and password for tokens",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Tokens"}}}}, "401": { "description": "incorrect email or password" } }
      }
    },
    "/register": {
      "post": {
        "summary": "Create a regular user",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"first_name":{"type":"string"},"last_name":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "public user view" }, "400": { "description": "email taken or invalid input" } }
      }
    },
    "/refresh": {
      "post": { "summary": "Rotate a refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new tokens" }, "401": { "description": "invalid refresh token" } } }
    },
    "/logout": {
      "post": { "summary": "Revoke the bearer token and optionally the refresh token", "security": [{"bearer": []}], "responses": { "200": { "description": "logged out" }, "401": { "description": "unauthorized" } } }
    },
    "/me": {
      "get": { "summary": "Current user profile", "security": [{"bearer": []}], "responses": { "200": { "description": "profile" }, "401": { "description": "unauthorized" } } }
    },
    "/books": {
      "get": { "summary": "List books (max 100)", "security": [{"bearer": []}], "responses": { "200": { "description": "books" } } },
      "post": { "summary": "Create a book (admin)", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Book"}}}}, "responses": { "201": { "description": "created" }, "403": { "description": "forbidden" } } }
    },
    "/books/{id}": {
      "get": { "summary": "Get a book", "security": [{"bearer": []}], "responses": { "200": { "description": "book" }, "404": { "description": "not found" } } },
      "put": { "summary": "Replace a book (admin)", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" }, "403": { "description": "forbidden" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a book (admin)", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" }, "403": { "description": "forbidden" }, "404": { "description": "not found" } } }
    },
    "/books/{id}/cover": {
      "put": { "summary": "Upload a cover image (admin, multipart field 'file')", "security": [{"bearer": []}], "responses": { "200": { "description": "stored" }, "503": { "description": "storage not configured" } } },
      "get": { "summary": "Redirect to a presigned cover URL", "security": [{"bearer": []}], "responses": { "302": { "description": "redirect" }, "404": { "description": "no cover" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
