// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "User registered and token generated", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
                "responses": {
                    "200": {"description": "User authenticated and token generated", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "423": {"description": "Account locked", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Get user profile",
                "responses": {
                    "200": {"description": "User profile", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/projects": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["projects"],
                "summary": "List projects",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "Paginated projects"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["projects"],
                "summary": "Create a project",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateProjectRequest"}}],
                "responses": {
                    "201": {"description": "Project created"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/projects/{projectID}/overview": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["overview"],
                "summary": "Project overview",
                "parameters": [
                    {"type": "string", "name": "projectID", "in": "path", "required": true},
                    {"type": "integer", "name": "months", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Overview table", "schema": {"$ref": "#/definitions/handlers.OverviewResponse"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Project not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/projects/{projectID}/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "List categories",
                "parameters": [{"type": "string", "name": "projectID", "in": "path", "required": true}],
                "responses": {"200": {"description": "Categories"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"type": "string", "name": "projectID", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateCategoryRequest"}}
                ],
                "responses": {"201": {"description": "Category created"}}
            }
        },
        "/projects/{projectID}/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "List expenses",
                "parameters": [
                    {"type": "string", "name": "projectID", "in": "path", "required": true},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "show_children", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "name": "group", "in": "query"},
                    {"type": "integer", "name": "months", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "Paginated expenses"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Create an expense",
                "parameters": [
                    {"type": "string", "name": "projectID", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateExpenseRequest"}}
                ],
                "responses": {"201": {"description": "Expense created"}}
            }
        }
    },
    "definitions": {
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handlers.ErrorDetail"}}
        },
        "handlers.RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "handlers.AuthResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/handlers.UserResponse"}
            }
        },
        "handlers.CreateProjectRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "order": {"type": "integer"},
                "template": {"type": "string", "enum": ["empty", "default"]}
            }
        },
        "handlers.CreateCategoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string", "example": "#FF0000"},
                "order": {"type": "integer"},
                "parent_id": {"type": "string"}
            }
        },
        "handlers.CreateExpenseRequest": {
            "type": "object",
            "required": ["amount", "category_id", "spent_at"],
            "properties": {
                "category_id": {"type": "string"},
                "amount": {"type": "string", "example": "12.30"},
                "source": {"type": "string"},
                "notes": {"type": "string"},
                "spent_at": {"type": "string", "example": "2022-04-01"}
            }
        },
        "handlers.HeaderCellResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "colspan": {"type": "integer"},
                "rowspan": {"type": "integer"},
                "color": {"type": "string"},
                "is_total": {"type": "boolean"},
                "is_other": {"type": "boolean"},
                "category_id": {"type": "string"},
                "href": {"type": "string"}
            }
        },
        "handlers.ValueCellResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "12.30"},
                "display": {"type": "string", "example": "12.30€"},
                "is_subtotal": {"type": "boolean"},
                "category_id": {"type": "string"},
                "href": {"type": "string"}
            }
        },
        "handlers.ValueRowResponse": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "Apr22"},
                "from": {"type": "string", "example": "2022-04-01"},
                "to": {"type": "string", "example": "2022-04-30"},
                "href": {"type": "string"},
                "values": {"type": "array", "items": {"$ref": "#/definitions/handlers.ValueCellResponse"}}
            }
        },
        "handlers.OverviewResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "integer"},
                "header_rows": {"type": "array", "items": {"type": "array", "items": {"$ref": "#/definitions/handlers.HeaderCellResponse"}}},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/handlers.ValueRowResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Spendtable API",
	Description:      "Expense tracking per project with a monthly overview pivoted over the category tree.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
