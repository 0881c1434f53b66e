// Package docs registers the swagger specification for the API.
//
// Regenerate with: swag init -g cmd/roomie_backend/main.go -o cmd/docs
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
        "/households/{householdID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["households"],
                "summary": "Get a household and its members",
                "parameters": [
                    {"type": "string", "description": "Household ID", "name": "householdID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HouseholdResponse"}},
                    "404": {"description": "Household not found"},
                    "503": {"description": "Store unavailable"}
                }
            }
        },
        "/households/{householdID}/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List household expenses",
                "parameters": [
                    {"type": "string", "description": "Household ID", "name": "householdID", "in": "path", "required": true},
                    {"type": "integer", "description": "Page size (1-100, default 20)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Token from the previous page", "name": "nextToken", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListExpensesResponse"}},
                    "400": {"description": "Invalid query"},
                    "503": {"description": "Store unavailable"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Record a shared expense",
                "parameters": [
                    {"type": "string", "description": "Household ID", "name": "householdID", "in": "path", "required": true},
                    {"description": "Expense", "name": "expense", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreateExpenseResponse"}},
                    "400": {"description": "Invalid request or failed field check"},
                    "404": {"description": "Household not found"},
                    "409": {"description": "Write rejected by store"},
                    "503": {"description": "Store unavailable"}
                }
            }
        },
        "/households/{householdID}/expenses/{expenseID}/payments/{debtorID}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["expenses"],
                "summary": "Mark a debtor's share as paid or unpaid",
                "parameters": [
                    {"type": "string", "description": "Household ID", "name": "householdID", "in": "path", "required": true},
                    {"type": "string", "description": "Expense ID", "name": "expenseID", "in": "path", "required": true},
                    {"type": "string", "description": "Debtor member ID", "name": "debtorID", "in": "path", "required": true},
                    {"description": "Payment status", "name": "status", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetPaymentStatusRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "403": {"description": "Caller is not the payer"},
                    "404": {"description": "Expense not found"},
                    "409": {"description": "Debtor is not a participant"},
                    "503": {"description": "Store unavailable"}
                }
            }
        },
        "/households/{householdID}/ledger": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "Get the household ledger",
                "parameters": [
                    {"type": "string", "description": "Household ID", "name": "householdID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LedgerResponse"}},
                    "503": {"description": "Balances unavailable"}
                }
            }
        },
        "/households/{householdID}/ledger/stream": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Stream the household ledger",
                "parameters": [
                    {"type": "string", "description": "Household ID", "name": "householdID", "in": "path", "required": true},
                    {"type": "string", "description": "Bearer token for clients that cannot set headers", "name": "access_token", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "One frame per change", "schema": {"$ref": "#/definitions/dto.LedgerResponse"}},
                    "503": {"description": "Store unavailable"}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateExpenseRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "30.00"},
                "description": {"type": "string"},
                "occurredAt": {"type": "string"},
                "participantIds": {"type": "array", "items": {"type": "string"}},
                "payerId": {"type": "string"},
                "title": {"type": "string", "example": "Groceries"}
            }
        },
        "dto.CreateExpenseResponse": {
            "type": "object",
            "properties": {"expenseId": {"type": "string"}}
        },
        "dto.SetPaymentStatusRequest": {
            "type": "object",
            "required": ["paid"],
            "properties": {"paid": {"type": "boolean"}}
        },
        "dto.ListExpensesResponse": {
            "type": "object",
            "properties": {
                "expenses": {"type": "array", "items": {"type": "object"}},
                "nextToken": {"type": "string"}
            }
        },
        "dto.LedgerResponse": {
            "type": "object",
            "properties": {
                "householdId": {"type": "string"},
                "viewerId": {"type": "string"},
                "state": {"type": "string"},
                "error": {"type": "string"},
                "version": {"type": "integer"},
                "summary": {"type": "object"},
                "balances": {"type": "array", "items": {"type": "object"}},
                "expenses": {"type": "array", "items": {"type": "object"}},
                "members": {"type": "array", "items": {"type": "object"}},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.HouseholdResponse": {
            "type": "object",
            "properties": {
                "householdId": {"type": "string"},
                "name": {"type": "string"},
                "address": {"type": "string"},
                "members": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Roomie Ledger API",
	Description:      "Shared household expenses and settlement balances.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
