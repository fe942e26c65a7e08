// Package docs holds the generated swagger spec. Regenerate with
// `swag init -g cmd/stylizerd/main.go -o docs` after changing handler
// annotations.
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
        "/models": {
            "get": {
                "produces": ["application/json"],
                "summary": "List model bundles",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.ModelsResponse"}
                    }
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Manager status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.StatusResponse"}
                    }
                }
            }
        },
        "/stylize": {
            "post": {
                "consumes": ["image/png", "image/jpeg"],
                "produces": ["image/png"],
                "summary": "Stylize the most prominent face in an image",
                "parameters": [
                    {"type": "string", "name": "model", "in": "query"},
                    {"type": "string", "name": "orientation", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Stylized face as PNG"},
                    "204": {"description": "No face detected"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 404},
                "error": {"type": "string", "example": "model not found: cartoon-256"}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "cartoon-256"},
                "name": {"type": "string", "example": "Cartoon (256px)"},
                "output_size": {"type": "integer", "example": 256},
                "path": {"type": "string"},
                "version": {"type": "string", "example": "1.2.0"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.InstanceStatus": {
            "type": "object",
            "properties": {
                "model_id": {"type": "string", "example": "cartoon-256"},
                "state": {"type": "string", "example": "ready"},
                "last_used_unix": {"type": "integer", "example": 1700000000},
                "requests": {"type": "integer", "example": 42},
                "stylized": {"type": "integer", "example": 37},
                "output_size": {"type": "integer", "example": 256}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "instances": {"type": "array", "items": {"$ref": "#/definitions/types.InstanceStatus"}},
                "default_model": {"type": "string", "example": "cartoon-256"},
                "registry_size": {"type": "integer", "example": 3},
                "requests_total": {"type": "integer", "example": 120},
                "loads_total": {"type": "integer", "example": 2},
                "last_error": {"type": "string"},
                "uptime_seconds": {"type": "integer", "example": 3600},
                "server_time_unix": {"type": "integer", "example": 1700000000}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "stylizerd API",
	Description:      "HTTP API for face stylization over local model bundles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
