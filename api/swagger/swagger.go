package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Schedule API",
        "description": "University timetable lookup, search, and chatbot webhooks",
        "version": "1.0.0"
    },
    "basePath": "/v1",
    "schemes": [
        "http",
        "https"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/{type}/{name}/id": {
            "get": {
                "summary": "Resolve a group/person name to its upstream numeric id",
                "parameters": [
                    {"name": "type", "in": "path", "required": true, "type": "string", "enum": ["group", "person"]},
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Numeric id"},
                    "400": {"description": "Unknown or unmatched name"}
                }
            }
        },
        "/{type}/{name}/schedule/{offset}": {
            "get": {
                "summary": "Fetch one week of schedule at offset weeks from the current week",
                "parameters": [
                    {"name": "type", "in": "path", "required": true, "type": "string", "enum": ["group", "person"]},
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "offset", "in": "path", "required": true, "type": "integer"},
                    {"name": "X-App-Version", "in": "header", "required": false, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Schedule"},
                    "400": {"description": "Invalid offset or unknown name"},
                    "502": {"description": "Upstream provider unavailable"}
                }
            }
        },
        "/search": {
            "get": {
                "summary": "Search groups and people by name fragment",
                "parameters": [
                    {"name": "q", "in": "query", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "required": false, "type": "string", "enum": ["group", "person"]}
                ],
                "responses": {
                    "200": {"description": "Ranked search results"}
                }
            }
        },
        "/telegram_webhook_{secret}": {
            "post": {
                "summary": "Telegram bot webhook callback",
                "parameters": [
                    {"name": "secret", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Update processed"},
                    "400": {"description": "Secret mismatch or malformed update"}
                }
            }
        },
        "/vk_callback": {
            "post": {
                "summary": "VK Callback API webhook",
                "responses": {
                    "200": {"description": "Confirmation code or \"ok\""},
                    "400": {"description": "Secret mismatch"}
                }
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
