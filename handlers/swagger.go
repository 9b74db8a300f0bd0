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
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>joke-of-the-day — Swagger</title>
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
  "info": { "title": "joke-of-the-day", "version": "v0.1.0" },
  "paths": {
    "/api/v1/joke": {
      "get": {
        "summary": "Deterministic joke of the day for the given filters",
        "parameters": [
          { "name": "ratings", "in": "query", "schema": { "type": "string" }, "description": "comma-separated, default G,PG" },
          { "name": "categories", "in": "query", "schema": { "type": "string" } },
          { "name": "maxChars", "in": "query", "schema": { "type": "integer" } }
        ],
        "responses": { "200": { "description": "the joke" }, "404": { "description": "no jokes match" } }
      }
    },
    "/api/v1/joke/random": {
      "get": { "summary": "Random joke from the filtered pool", "responses": { "200": { "description": "the joke" }, "404": { "description": "no jokes match" } } }
    },
    "/api/v1/jokes": {
      "get": { "summary": "Admin: full collection plus version token", "responses": { "200": { "description": "jokes + version" }, "401": { "description": "unauthorized" } } },
      "post": {
        "summary": "Admin: submit a joke (runs the duplicate guard)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"text":{"type":"string"},"rating":{"type":"string"},"category":{"type":"string"}}}}}},
        "responses": { "201": { "description": "added" }, "400": { "description": "invalid submission" }, "409": { "description": "duplicate, too similar, or version conflict" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
