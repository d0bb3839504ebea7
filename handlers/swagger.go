package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the teacher service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
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
    <title>teacherdesk - Swagger</title>
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
  "info": { "title": "teacherdesk", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Teacher": {
        "type": "object",
        "properties": {
          "_id": {"type":"string"},
          "name": {"type":"string"},
          "joiningDate": {"type":"string"},
          "birthDate": {"type":"string"},
          "streams": {"type":"array","items":{"type":"string"}},
          "subjects": {"type":"array","items":{"type":"string"}},
          "registerNumber": {"type":"string"},
          "mcaTeacher": {"type":"boolean"}
        }
      },
      "Message": { "type": "object", "properties": { "message": {"type":"string"} } }
    },
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/api/register-teacher": {
      "post": {
        "summary": "Register a teacher and derive its register number",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","joiningDate","password","birthDate"],"properties":{"name":{"type":"string"},"joiningDate":{"type":"string"},"password":{"type":"string"},"birthDate":{"type":"string"},"streams":{"type":"array","items":{"type":"string"}},"subjects":{"type":"array","items":{"type":"string"}},"mcaTeacher":{"type":"boolean"}}}}}},
        "responses": { "201": { "description": "registered; body carries registerNumber" }, "400": { "description": "missing or invalid field" }, "500": { "description": "Error registering teacher" } }
      }
    },
    "/api/signin-teacher": {
      "post": {
        "summary": "Check teacher credentials",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"registerNumber":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "Sign-in successful!" }, "400": { "description": "Invalid registration number or password." }, "429": { "description": "rate limited" }, "500": { "description": "Server error" } }
      }
    },
    "/api/teacher/{registerNumber}": {
      "parameters": [ { "name": "registerNumber", "in": "path", "required": true, "schema": {"type":"string"} } ],
      "get": { "summary": "Fetch a teacher", "responses": { "200": { "description": "teacher", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Teacher"} } } }, "404": { "description": "Teacher not found" } } },
      "put": { "summary": "Update allow-listed fields; registerNumber never changes", "responses": { "200": { "description": "Teacher updated successfully" }, "400": { "description": "invalid field" }, "404": { "description": "Teacher not found" } } },
      "delete": { "summary": "Delete a teacher", "responses": { "200": { "description": "Teacher deleted successfully" }, "404": { "description": "Teacher not found" } } }
    },
    "/api/teachers": {
      "get": { "summary": "List all teachers", "responses": { "200": { "description": "{teachers: [...]}" } } }
    },
    "/api/admin-auth": {
      "post": {
        "summary": "Authenticate an admin; returns tokens and (optionally) the teacher list",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"adminId":{"type":"string"},"adminPassword":{"type":"string"}}}}}},
        "responses": { "200": { "description": "success" }, "400": { "description": "Invalid admin ID or password." } }
      }
    },
    "/api/admin/teachers": {
      "get": { "summary": "List all teachers (admin bearer token)", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "{teachers: [...]}" }, "401": { "description": "missing or invalid token" }, "403": { "description": "not an admin" } } }
    },
    "/api/admin/refresh": {
      "post": { "summary": "Refresh admin access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/admin/logout": {
      "post": { "summary": "Invalidate refresh token and revoke the bearer token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
