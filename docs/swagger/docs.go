// Package swagger registers the OpenAPI document served at /swagger/*.
// It is maintained by hand alongside the cart handlers.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "YourSneaker Engineering"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/cart": {
            "get": {
                "description": "Returns the authenticated customer's cart",
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Get cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}}
                }
            }
        },
        "/cart/items": {
            "post": {
                "description": "Adds units of a catalog product to the customer's cart",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add item",
                "parameters": [
                    {
                        "description": "Product and quantity",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AddItemRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}}
                }
            }
        },
        "/cart/items/{productID}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Update item quantity",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Product ID", "name": "productID", "in": "path", "required": true},
                    {
                        "description": "New quantity",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateItemRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Remove item",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Product ID", "name": "productID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}}
                }
            }
        },
        "/cart/validate": {
            "post": {
                "description": "Runs the cart rules; a 422 lists every violation",
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Validate cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errhttp.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "AddItemRequest": {
            "type": "object",
            "required": ["product_id"],
            "properties": {
                "product_id": {"type": "string", "example": "7d9f3c1e-2b4a-4c6d-8e0f-1a2b3c4d5e6f"},
                "quantity": {"type": "integer", "example": 1}
            }
        },
        "CartItemResponse": {
            "type": "object",
            "properties": {
                "image": {"type": "string", "example": "air-runner.png"},
                "name": {"type": "string", "example": "Air Runner"},
                "product_id": {"type": "string", "example": "7d9f3c1e-2b4a-4c6d-8e0f-1a2b3c4d5e6f"},
                "quantity": {"type": "integer", "example": 2},
                "subtotal": {"type": "string", "example": "259.80"},
                "unit_value": {"type": "string", "example": "129.90"}
            }
        },
        "CartResponse": {
            "type": "object",
            "properties": {
                "customer_id": {"type": "string", "example": "550e8400-e29b-41d4-a716-446655440000"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/CartItemResponse"}},
                "total_value": {"type": "string", "example": "259.80"}
            }
        },
        "UpdateItemRequest": {
            "type": "object",
            "properties": {
                "quantity": {"type": "integer", "example": 3}
            }
        },
        "errhttp.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid product selection"},
                "violations": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "YourSneaker Storefront API",
	Description:      "Shopping cart of the YourSneaker storefront.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
