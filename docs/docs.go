// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/admin/audit-logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lock, unlock and review deletion entries, newest first",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List audit logs",
                "parameters": [
                    {"type": "integer", "default": 50, "description": "Items per page", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Entries to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.AuditLog"}}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden - admin only", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/answer-sets/{reviewId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "In edit mode returns the caller's sets; in view mode on a team review returns every author's sets",
                "produces": ["application/json"],
                "tags": ["Answer Sets"],
                "summary": "List answer sets",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "reviewId", "in": "path", "required": true},
                    {"type": "string", "default": "edit", "description": "edit or view", "name": "mode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListAnswerSetsResponse"}},
                    "400": {"description": "Invalid mode or review ID", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Not a team member", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Review not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores a new answer set with the caller's next set number",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Answer Sets"],
                "summary": "Create answer set",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "reviewId", "in": "path", "required": true},
                    {"description": "Answers keyed by question number", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AnswersRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CreateAnswerSetResult"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "No access to review", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Review not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/answer-sets/{reviewId}/{setNumber}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Upserts the given answers; questions not in the payload keep their answers",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Answer Sets"],
                "summary": "Update answer set",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "reviewId", "in": "path", "required": true},
                    {"type": "integer", "description": "Set number", "name": "setNumber", "in": "path", "required": true},
                    {"description": "Answers keyed by question number", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AnswersRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SuccessResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Answer set is locked", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Answer set not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Answer Sets"],
                "summary": "Delete answer set",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "reviewId", "in": "path", "required": true},
                    {"type": "integer", "description": "Set number", "name": "setNumber", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SuccessResponse"}},
                    "403": {"description": "Answer set is locked", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Answer set not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/answer-sets/{reviewId}/{setNumber}/lock": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Review owner only",
                "produces": ["application/json"],
                "tags": ["Answer Sets"],
                "summary": "Lock answer set batch",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "reviewId", "in": "path", "required": true},
                    {"type": "integer", "description": "Set number", "name": "setNumber", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LockResult"}},
                    "400": {"description": "Already locked", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Not the review owner", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Review or answer set not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/answer-sets/{reviewId}/{setNumber}/unlock": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Review owner only",
                "produces": ["application/json"],
                "tags": ["Answer Sets"],
                "summary": "Unlock answer set batch",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "reviewId", "in": "path", "required": true},
                    {"type": "integer", "description": "Set number", "name": "setNumber", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LockResult"}},
                    "400": {"description": "Not locked", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Not the review owner", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Review or answer set not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/reviews/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the review with creator and team names",
                "produces": ["application/json"],
                "tags": ["Reviews"],
                "summary": "Get review",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ReviewDetail"}},
                    "403": {"description": "No access", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Review not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Review owner or a team owner/admin",
                "produces": ["application/json"],
                "tags": ["Reviews"],
                "summary": "Delete review",
                "parameters": [
                    {"type": "integer", "description": "Review ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SuccessResponse"}},
                    "403": {"description": "Not allowed", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Review not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handlers.AnswersRequest": {
            "type": "object",
            "properties": {
                "answers": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/answerFields"}
                }
            }
        },
        "answerFields": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "datetime_value": {"type": "string"},
                "datetime_title": {"type": "string"},
                "datetime_answer": {"type": "string"}
            }
        },
        "handlers.ListAnswerSetsResponse": {
            "type": "object",
            "properties": {
                "sets": {"type": "array", "items": {"$ref": "#/definitions/models.AnswerSet"}}
            }
        },
        "handlers.SuccessResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "models.Answer": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "answer_set_id": {"type": "integer"},
                "question_number": {"type": "integer"},
                "answer": {"type": "string"},
                "datetime_value": {"type": "string"},
                "datetime_title": {"type": "string"},
                "datetime_answer": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.AnswerSet": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "review_id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "username": {"type": "string"},
                "set_number": {"type": "integer"},
                "is_locked": {"type": "string", "enum": ["yes", "no"]},
                "locked_at": {"type": "string"},
                "locked_by": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/models.Answer"}}
            }
        },
        "models.AuditLog": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "user_email": {"type": "string"},
                "action": {"type": "string"},
                "resource": {"type": "string"},
                "details": {"type": "string"},
                "ip_address": {"type": "string"},
                "user_agent": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.CreateAnswerSetResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "set_number": {"type": "integer"},
                "set_id": {"type": "integer"}
            }
        },
        "models.LockResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "is_locked": {"type": "string", "enum": ["yes", "no"]},
                "affected": {"type": "integer"}
            }
        },
        "models.ReviewDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "user_id": {"type": "integer"},
                "team_id": {"type": "integer"},
                "template_id": {"type": "integer"},
                "creator_name": {"type": "string"},
                "team_name": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Review System Answer Set API",
	Description:      "Versioned answer sets and batch locks for reviews.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
