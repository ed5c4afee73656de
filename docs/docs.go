// Package docs registers the OpenAPI description served under /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/process-route": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["RouteProcessing"],
                "summary": "Optimize a route",
                "parameters": [
                    {"description": "Route to optimize", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/request_models.ProcessRouteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/process-route/async": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["RouteProcessing"],
                "summary": "Optimize a route in the background",
                "parameters": [
                    {"description": "Route to optimize", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/request_models.ProcessRouteRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/process-route/runs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["RouteProcessing"],
                "summary": "List processing runs of a route",
                "parameters": [
                    {"type": "string", "description": "Route ID", "name": "routeId", "in": "query", "required": true},
                    {"type": "integer", "default": 20, "maximum": 100, "minimum": 1, "description": "Max runs", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/process-route/runs/{runId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["RouteProcessing"],
                "summary": "Get a processing run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "runId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "request_models.Location": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "request_models.RoutePOI": {
            "type": "object",
            "required": ["poi_id"],
            "properties": {
                "poi_id": {"type": "integer"},
                "name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "category": {"type": "string"},
                "subcategory": {"type": "string"},
                "visit_duration": {"type": "integer"},
                "cost": {"type": "number"},
                "rating": {"type": "number"},
                "description": {"type": "string"},
                "accessibility": {"type": "boolean"},
                "provider_id": {"type": "integer"},
                "provider_name": {"type": "string"}
            }
        },
        "request_models.RoutePreferences": {
            "type": "object",
            "properties": {
                "optimize_for": {"type": "string", "enum": ["distance", "time", "cost", "experience"]},
                "max_total_time": {"type": "integer"},
                "max_total_cost": {"type": "number"},
                "preferred_categories": {"type": "array", "items": {"type": "string"}},
                "avoid_categories": {"type": "array", "items": {"type": "string"}},
                "accessibility_required": {"type": "boolean"}
            }
        },
        "request_models.RouteConstraints": {
            "type": "object",
            "properties": {
                "start_location": {"$ref": "#/definitions/request_models.Location"},
                "end_location": {"$ref": "#/definitions/request_models.Location"},
                "start_time": {"type": "string"},
                "lunch_break_required": {"type": "boolean"},
                "lunch_break_duration": {"type": "integer"}
            }
        },
        "request_models.ProcessRouteRequest": {
            "type": "object",
            "required": ["pois", "route_id"],
            "properties": {
                "route_id": {"type": "string"},
                "user_id": {"type": "string"},
                "pois": {"type": "array", "items": {"$ref": "#/definitions/request_models.RoutePOI"}},
                "preferences": {"$ref": "#/definitions/request_models.RoutePreferences"},
                "constraints": {"$ref": "#/definitions/request_models.RouteConstraints"}
            }
        },
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "trace_id": {"type": "string"},
                "data": {}
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
	Title:            "Route Processing API",
	Description:      "Bridges route optimization requests to the optimization backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
