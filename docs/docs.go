// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/main.go
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
            "get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/auth/sign-up": {
            "post": {"tags": ["auth"], "summary": "Sign up", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "id"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/auth/sign-in": {
            "post": {"tags": ["auth"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "token"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/config/parse": {
            "get": {"tags": ["config"], "summary": "Parse configuration", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["wall", "ceiling"], "name": "mount", "in": "query"},
                    {"type": "string", "enum": ["usb", "poe", "ac", "pwr"], "name": "power", "in": "query"},
                    {"type": "string", "enum": ["none", "base", "pro"], "name": "airiq", "in": "query"},
                    {"type": "string", "enum": ["none", "base", "pro"], "name": "presence", "in": "query"},
                    {"type": "string", "enum": ["none", "base"], "name": "comfort", "in": "query"},
                    {"type": "string", "enum": ["none", "base", "pwm", "analog"], "name": "fan", "in": "query"},
                    {"type": "string", "description": "Hash parameters, overridden by the query", "name": "fragment", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/firmware/resolve": {
            "get": {"tags": ["firmware"], "summary": "Resolve firmware", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["stable", "beta", "dev"], "name": "channel", "in": "query"},
                    {"type": "string", "name": "preset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "503": {"description": "Manifest not loaded"}}}
        },
        "/api/v1/firmware/install-manifest": {
            "get": {"tags": ["firmware"], "summary": "Install manifest", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "422": {"description": "Unprocessable"}, "503": {"description": "Manifest not loaded"}}}
        },
        "/api/v1/firmware/legacy": {
            "get": {"tags": ["firmware"], "summary": "Legacy firmware", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "model", "in": "query", "required": true},
                    {"type": "string", "name": "variant", "in": "query"},
                    {"type": "string", "name": "sensor_addon", "in": "query"}
                ],
                "responses": {"200": {"description": "count, builds"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/firmware/availability": {
            "get": {"tags": ["firmware"], "summary": "Module availability", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "mount", "in": "query"}, {"type": "string", "name": "power", "in": "query"}],
                "responses": {"200": {"description": "count, bases"}}}
        },
        "/api/v1/firmware/changelog": {
            "get": {"tags": ["firmware"], "summary": "Changelog", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "config", "in": "query"}],
                "responses": {"200": {"description": "count, entries"}}}
        },
        "/api/v1/firmware/versions": {
            "get": {"tags": ["firmware"], "summary": "Versions for a configuration", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "config", "in": "query", "required": true}, {"type": "string", "name": "channel", "in": "query"}],
                "responses": {"200": {"description": "config, versions"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/firmware/updates": {
            "get": {"tags": ["firmware"], "summary": "Check for updates", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "version", "in": "query"}, {"type": "string", "name": "config", "in": "query"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/presets": {
            "get": {"tags": ["presets"], "summary": "List presets", "produces": ["application/json"],
                "responses": {"200": {"description": "count, presets"}}}
        },
        "/api/v1/presets/{name}": {
            "get": {"tags": ["presets"], "summary": "Get preset", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/manifest/reload": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["manifest"], "summary": "Reload manifest", "produces": ["application/json"],
                "responses": {"200": {"description": "source, version, builds, loaded_at"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/v1/flash": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["flash"], "summary": "Start flash", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.StartFlashRequest"}}],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "422": {"description": "Unprocessable"}}}
        },
        "/api/v1/flash/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["flash"], "summary": "Flash progress", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["flash"], "summary": "Cancel flash", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/history": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["history"], "summary": "Flash history", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "count, records"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["history"], "summary": "Clear flash history", "produces": ["application/json"],
                "responses": {"200": {"description": "deleted"}}}
        },
        "/api/v1/saved-presets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["saved-presets"], "summary": "List saved presets", "produces": ["application/json"],
                "responses": {"200": {"description": "count, presets"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["saved-presets"], "summary": "Save preset", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SavePresetRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/saved-presets/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["saved-presets"], "summary": "Delete saved preset",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/saved-presets/{id}/apply": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["saved-presets"], "summary": "Apply saved preset", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/logs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "List audit log", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "enum": ["MANIFEST_RELOAD", "FLASH_START", "FLASH_SUCCESS", "FLASH_ERROR", "PRESET_SAVED", "PRESET_DELETED"], "name": "type", "in": "query"},
                    {"type": "string", "description": "Flash session id", "name": "session", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}}}
        },
        "/ws/flash/{id}": {
            "get": {"tags": ["flash"], "summary": "Flash progress stream",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "interval", "in": "query"},
                    {"type": "integer", "name": "interval_ms", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}, "404": {"description": "Not Found"}}}
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.StartFlashRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "mount=wall&power=usb&airiq=base"},
                "config_string": {"type": "string", "example": "Wall-USB-AirIQBase"},
                "channel": {"type": "string", "example": "stable"}
            }
        },
        "handlers.SavePresetRequest": {
            "type": "object",
            "required": ["name", "state"],
            "properties": {
                "name": {"type": "string", "example": "Office"},
                "state": {"type": "object", "additionalProperties": {"type": "string"}}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "WebFlash API",
	Description:      "Resolves Sense360 hardware configurations to firmware builds and tracks flash sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
