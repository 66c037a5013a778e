// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/sync": {
            "post": {
                "description": "Fetches every configured document, parses its task list and replaces the in-memory corpus.",
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Sync documents",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "502": {"description": "Every document failed to load", "schema": {"$ref": "#/definitions/response.Resp"}}
                }
            }
        },
        "/api/v1/summary": {
            "get": {
                "description": "Returns task counts for the last successful sync.",
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Corpus summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "409": {"description": "Not synced yet", "schema": {"$ref": "#/definitions/response.Resp"}}
                }
            }
        },
        "/api/v1/tasks": {
            "get": {
                "description": "Lists the synced tasks in document order.",
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "List tasks",
                "parameters": [
                    {"type": "boolean", "description": "Only incomplete tasks", "name": "incomplete", "in": "query"},
                    {"type": "string", "description": "Project id or name", "name": "project", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "409": {"description": "Not synced yet", "schema": {"$ref": "#/definitions/response.Resp"}}
                }
            }
        },
        "/api/v1/tasks/{id}": {
            "get": {
                "description": "Returns a task with its project and where it lands in today's timeline.",
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Explain a task",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "409": {"description": "Not synced yet", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "422": {"description": "Conflicting blocked periods", "schema": {"$ref": "#/definitions/response.Resp"}}
                }
            }
        },
        "/api/v1/today": {
            "get": {
                "description": "Schedules the incomplete tasks into one day around blocked periods.",
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Day timeline",
                "parameters": [
                    {"type": "string", "description": "Day expression: today, tomorrow, next monday, 2026-01-19", "name": "day", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "409": {"description": "Not synced yet", "schema": {"$ref": "#/definitions/response.Resp"}},
                    "422": {"description": "Conflicting blocked periods", "schema": {"$ref": "#/definitions/response.Resp"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check if the API is healthy",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {"200": {"description": "API is healthy", "schema": {"type": "object"}}}
            }
        },
        "/ready": {
            "get": {
                "description": "Check if the API is ready to serve traffic",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check",
                "responses": {"200": {"description": "API is ready", "schema": {"type": "object"}}}
            }
        },
        "/live": {
            "get": {
                "description": "Check if the API is alive",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness Check",
                "responses": {"200": {"description": "API is alive", "schema": {"type": "object"}}}
            }
        }
    },
    "definitions": {
        "response.Resp": {
            "type": "object",
            "properties": {
                "data": {},
                "error_code": {"type": "integer"},
                "errors": {},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1",
	Host:             "localhost:8080",
	BasePath:         "",
	Schemes:          []string{"http"},
	Title:            "chronix API",
	Description:      "Google Docs checklists turned into a one-day timeline.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
