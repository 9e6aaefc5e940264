// Package docs holds the OpenAPI description served at /swagger.
// Regenerate it with `go generate ./cmd/server` after changing handler annotations.
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
        "/cart": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Get the session cart",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session id, defaults to the session cookie",
                        "name": "X-Session-ID",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.CartResponse"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/cart/items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add a catalog product to the session cart",
                "parameters": [
                    {
                        "description": "Product to add",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.AddItemRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/cart.Entry"}}}
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"error": {"$ref": "#/definitions/dto.ErrorInfo"}}}
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"error": {"$ref": "#/definitions/dto.ErrorInfo"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/cart/items/{cart_id}": {
            "delete": {
                "description": "Removing an unknown entry is not an error",
                "tags": ["cart"],
                "summary": "Remove one entry from the session cart",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Cart entry id",
                        "name": "cart_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/catalog/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List menu categories",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.CategoriesResponse"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/catalog/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List products, optionally filtered by category",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Category tag, case-insensitive",
                        "name": "categoria",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/catalog.Product"}}}}
                            ]
                        }
                    }
                }
            }
        },
        "/catalog/reload": {
            "post": {
                "description": "Failures are logged and leave the current catalog in place",
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Fetch the catalog again from its source",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.HealthResponse"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/checkout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Compose the order message and link",
                "parameters": [
                    {
                        "description": "Delivery address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CheckoutRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/checkout.Order"}}}
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"error": {"$ref": "#/definitions/dto.ErrorInfo"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Always 200; a catalog that failed to load is reported, not fatal",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness and catalog status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.HealthResponse"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/system/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get system information",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.SystemInfoResponse"}}}
                            ]
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "cart.Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "nome": {"type": "string"},
                "descricao": {"type": "string"},
                "preco": {"type": "number"},
                "categoria": {"type": "string"},
                "imagem": {"type": "string"},
                "idCarrinho": {"type": "string"}
            }
        },
        "catalog.Product": {
            "type": "object",
            "required": ["categoria", "nome"],
            "properties": {
                "id": {"type": "integer"},
                "nome": {"type": "string"},
                "descricao": {"type": "string"},
                "preco": {"type": "number"},
                "categoria": {"type": "string", "enum": ["Burguers", "Acompanhamentos", "Bebidas"]},
                "imagem": {"type": "string"}
            }
        },
        "checkout.Order": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "dto.AddItemRequest": {
            "type": "object",
            "required": ["product_id"],
            "properties": {
                "product_id": {"type": "integer"}
            }
        },
        "dto.CartResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/cart.Entry"}},
                "count": {"type": "integer"},
                "total": {"type": "number"}
            }
        },
        "dto.CategoriesResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"type": "string"}},
                "default": {"type": "string"}
            }
        },
        "dto.CheckoutRequest": {
            "type": "object",
            "properties": {
                "endereco": {"type": "string", "maxLength": 500}
            }
        },
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/dto.ValidationDetail"}}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "catalog_loaded": {"type": "boolean"},
                "product_count": {"type": "integer"},
                "catalog_error": {"type": "string"}
            }
        },
        "dto.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorInfo"}
            }
        },
        "dto.ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.SystemInfoResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "go_version": {"type": "string"},
                "uptime": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tech Bites Storefront API",
	Description:      "Catalog, cart and checkout endpoints behind the storefront page",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
