package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Agri Governance API",
        "description": "Admin governance engine for the agricultural marketplace",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Administrator sessions"},
        {"name": "Admins", "description": "Administrator accounts"},
        {"name": "Sellers", "description": "Seller application review"},
        {"name": "Procurements", "description": "Procurement submissions"},
        {"name": "PriceCases", "description": "Price compliance enforcement"},
        {"name": "Inventory", "description": "FIFO stock lots"},
        {"name": "Escalations", "description": "SLA-bounded escalations"},
        {"name": "Audit", "description": "Append-only action ledger"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current administrator claims",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admins": {
            "get": {
                "tags": ["Admins"],
                "summary": "List administrators",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admins"],
                "summary": "Onboard administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAdminRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admins/{id}": {
            "get": {
                "tags": ["Admins"],
                "summary": "Get administrator",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admins/{id}/deactivate": {
            "patch": {
                "tags": ["Admins"],
                "summary": "Deactivate administrator",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sellers": {
            "get": {
                "tags": ["Sellers"],
                "summary": "List seller applications",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "region", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sellers"],
                "summary": "Register seller application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSellerApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sellers/{id}/approve": {
            "post": {
                "tags": ["Sellers"],
                "summary": "Approve seller application",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Permission denied"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/sellers/{id}/reject": {
            "post": {
                "tags": ["Sellers"],
                "summary": "Reject seller application",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReasonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sellers/{id}/suspend": {
            "post": {
                "tags": ["Sellers"],
                "summary": "Suspend approved seller",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SuspendSellerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sellers/{id}/reactivate": {
            "post": {
                "tags": ["Sellers"],
                "summary": "Reactivate suspended seller",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procurements": {
            "get": {
                "tags": ["Procurements"],
                "summary": "List procurement submissions",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "seller_id", "in": "query", "type": "string"},
                    {"name": "product_code", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Procurements"],
                "summary": "Submit procurement offer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProcurementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procurements/{id}/approve": {
            "post": {
                "tags": ["Procurements"],
                "summary": "Approve submission and book stock",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveProcurementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid quantity"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/procurements/{id}/reject": {
            "post": {
                "tags": ["Procurements"],
                "summary": "Reject submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReasonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/price-cases": {
            "get": {
                "tags": ["PriceCases"],
                "summary": "List price compliance cases",
                "parameters": [
                    {"name": "seller_id", "in": "query", "type": "string"},
                    {"name": "product_code", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["PriceCases"],
                "summary": "Open price compliance case",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenPriceCaseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/price-cases/{id}/warn": {
            "post": {
                "tags": ["PriceCases"],
                "summary": "Record warning",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/price-cases/{id}/force-adjust": {
            "post": {
                "tags": ["PriceCases"],
                "summary": "Force price adjustment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/price-cases/{id}/suspend-seller": {
            "post": {
                "tags": ["PriceCases"],
                "summary": "Suspend seller behind the case",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inventory/receive": {
            "post": {
                "tags": ["Inventory"],
                "summary": "Receive stock into a new lot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReceiveStockRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inventory/consume": {
            "post": {
                "tags": ["Inventory"],
                "summary": "Consume stock FIFO across lots",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConsumeStockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Insufficient stock"}
                }
            }
        },
        "/inventory/stock/{product_code}": {
            "get": {
                "tags": ["Inventory"],
                "summary": "Product stock summary",
                "parameters": [
                    {"name": "product_code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inventory/lots": {
            "get": {
                "tags": ["Inventory"],
                "summary": "List lots in FIFO order",
                "parameters": [
                    {"name": "product_code", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inventory/transactions": {
            "get": {
                "tags": ["Inventory"],
                "summary": "List stock movements",
                "parameters": [
                    {"name": "product_code", "in": "query", "type": "string"},
                    {"name": "direction", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/escalations": {
            "get": {
                "tags": ["Escalations"],
                "summary": "List escalations",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "string"},
                    {"name": "assignee_id", "in": "query", "type": "string"},
                    {"name": "creator_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Escalations"],
                "summary": "Raise escalation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEscalationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/escalations/{id}/assign": {
            "post": {
                "tags": ["Escalations"],
                "summary": "Assign escalation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignEscalationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/escalations/{id}/escalate": {
            "post": {
                "tags": ["Escalations"],
                "summary": "Escalate one level further",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/escalations/{id}/resolve": {
            "post": {
                "tags": ["Escalations"],
                "summary": "Resolve escalation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/escalations/{id}/reject": {
            "post": {
                "tags": ["Escalations"],
                "summary": "Reject escalation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audit/{entity_type}/{entity_id}": {
            "get": {
                "tags": ["Audit"],
                "summary": "Audit trail for one entity",
                "parameters": [
                    {"name": "entity_type", "in": "path", "required": true, "type": "string"},
                    {"name": "entity_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audit/{entity_type}/{entity_id}/export": {
            "get": {
                "tags": ["Audit"],
                "summary": "Export an entity's audit trail",
                "parameters": [
                    {"name": "entity_type", "in": "path", "required": true, "type": "string"},
                    {"name": "entity_id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/audit/actors/{actor_id}": {
            "get": {
                "tags": ["Audit"],
                "summary": "Actions performed by one administrator",
                "parameters": [
                    {"name": "actor_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateAdminRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string"}
            },
            "required": ["email", "password", "full_name", "role"]
        },
        "CreateSellerApplicationRequest": {
            "type": "object",
            "properties": {
                "business_name": {"type": "string"},
                "owner_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "region": {"type": "string"}
            },
            "required": ["business_name", "owner_name", "email", "phone", "region"]
        },
        "SuspendSellerRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"},
                "duration_hours": {"type": "integer"}
            },
            "required": ["reason", "duration_hours"]
        },
        "ReasonRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            },
            "required": ["reason"]
        },
        "CreateProcurementRequest": {
            "type": "object",
            "properties": {
                "seller_id": {"type": "string"},
                "product_code": {"type": "string"},
                "offered_quantity": {"type": "integer"},
                "offered_price": {"type": "integer"}
            },
            "required": ["seller_id", "product_code", "offered_quantity", "offered_price"]
        },
        "ApproveProcurementRequest": {
            "type": "object",
            "properties": {
                "quantity": {"type": "integer"},
                "price": {"type": "integer"}
            },
            "required": ["quantity", "price"]
        },
        "OpenPriceCaseRequest": {
            "type": "object",
            "properties": {
                "seller_id": {"type": "string"},
                "product_code": {"type": "string"},
                "listed_price": {"type": "integer"},
                "ceiling_price": {"type": "integer"}
            },
            "required": ["seller_id", "product_code", "listed_price", "ceiling_price"]
        },
        "ReceiveStockRequest": {
            "type": "object",
            "properties": {
                "product_code": {"type": "string"},
                "quantity": {"type": "integer"},
                "at": {"type": "string"},
                "source_ref": {"type": "string"}
            },
            "required": ["product_code", "quantity"]
        },
        "ConsumeStockRequest": {
            "type": "object",
            "properties": {
                "product_code": {"type": "string"},
                "quantity": {"type": "integer"},
                "at": {"type": "string"}
            },
            "required": ["product_code", "quantity"]
        },
        "CreateEscalationRequest": {
            "type": "object",
            "properties": {
                "priority": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "entity_type": {"type": "string"},
                "entity_id": {"type": "string"}
            },
            "required": ["priority", "title", "description"]
        },
        "AssignEscalationRequest": {
            "type": "object",
            "properties": {
                "assignee_id": {"type": "string"}
            },
            "required": ["assignee_id"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
