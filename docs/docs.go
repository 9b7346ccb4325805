// Package docs registers the gateway's OpenAPI description with swag.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/register/city-manager": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a city manager",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/register/service-provider-admin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a service provider admin",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/session": {
            "get": {"produces": ["application/json"], "tags": ["session"], "summary": "Current session", "responses": {"200": {"description": "OK"}}}
        },
        "/api/navigation": {
            "get": {"produces": ["application/json"], "tags": ["session"], "summary": "Navigation menu for the session", "responses": {"200": {"description": "OK"}}}
        },
        "/api/views/{view}/access": {
            "get": {"produces": ["application/json"], "tags": ["session"], "summary": "Check access to a view", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/dashboard/stats": {
            "get": {"produces": ["application/json"], "tags": ["dashboard"], "summary": "Dashboard statistics", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/dashboard/overview": {
            "get": {"produces": ["application/json"], "tags": ["dashboard"], "summary": "Dashboard overview", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/indicators/{mode}": {
            "get": {"produces": ["application/json"], "tags": ["indicators"], "summary": "Transport indicator", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/indicators/events": {
            "get": {"produces": ["application/json"], "tags": ["indicators"], "summary": "City events", "responses": {"200": {"description": "OK"}}}
        },
        "/api/indicators/construction": {
            "get": {"produces": ["application/json"], "tags": ["indicators"], "summary": "Construction projects", "responses": {"200": {"description": "OK"}}}
        },
        "/api/simulations": {
            "get": {"produces": ["application/json"], "tags": ["simulations"], "summary": "List simulations", "responses": {"200": {"description": "OK"}}}
        },
        "/api/simulations/run": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["simulations"], "summary": "Run a simulation", "responses": {"201": {"description": "Created"}}}
        },
        "/api/simulations/{id}": {
            "get": {"produces": ["application/json"], "tags": ["simulations"], "summary": "Get a simulation", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["simulations"], "summary": "Delete a simulation", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/notifications": {
            "get": {"produces": ["application/json"], "tags": ["notifications"], "summary": "List notifications", "responses": {"200": {"description": "OK"}}}
        },
        "/api/notifications/stats": {
            "get": {"produces": ["application/json"], "tags": ["notifications"], "summary": "Notification counters", "responses": {"200": {"description": "OK"}}}
        },
        "/api/notifications/{id}/read": {
            "put": {"tags": ["notifications"], "summary": "Mark a notification read", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/notifications/mark-all-read": {
            "put": {"tags": ["notifications"], "summary": "Mark every notification read", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/users": {
            "get": {"produces": ["application/json"], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/api/users/service-provider": {
            "get": {"produces": ["application/json"], "tags": ["users"], "summary": "List service provider users", "responses": {"200": {"description": "OK"}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["users"], "summary": "Create a service provider user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/users/{id}": {
            "get": {"produces": ["application/json"], "tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["users"], "summary": "Update a user", "responses": {"200": {"description": "OK"}}},
            "delete": {"produces": ["application/json"], "tags": ["users"], "summary": "Delete a user", "responses": {"200": {"description": "OK"}}}
        },
        "/api/system/status": {
            "get": {"produces": ["application/json"], "tags": ["system"], "summary": "System status", "responses": {"200": {"description": "OK"}}}
        },
        "/api/system/status/stream": {
            "get": {"produces": ["text/event-stream"], "tags": ["system"], "summary": "Stream system status", "responses": {"200": {"description": "OK"}}}
        },
        "/api/system/health": {
            "get": {"produces": ["application/json"], "tags": ["system"], "summary": "System health", "responses": {"200": {"description": "OK"}}}
        },
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Smart City Dashboard Gateway",
	Description:      "Session, navigation and cached read API in front of the smart city backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
