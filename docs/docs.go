// Package docs holds the generated OpenAPI description of the cryptostego
// HTTP API, in the shape `swag init` emits, wired into main.go via
// gin-swagger the same way the teacher's main.go did.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "cryptostego API",
        "description": "Authenticated steganographic embed/extract/capacity/score over raster, JPEG, and WAV covers.",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/capacity": {
            "post": {
                "tags": ["Steganography"],
                "summary": "Calculate cover capacity",
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/embed": {
            "post": {
                "tags": ["Steganography"],
                "summary": "Embed a payload into a cover",
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/extract": {
            "post": {
                "tags": ["Steganography"],
                "summary": "Extract a payload from a stego file",
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/embed-deniable": {
            "post": {
                "tags": ["Steganography"],
                "summary": "Embed a real and a decoy payload under plausible deniability",
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/extract-deniable": {
            "post": {
                "tags": ["Steganography"],
                "summary": "Extract one half of a deniable stego",
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "cryptostego API",
	Description:      "Authenticated steganographic embed/extract/capacity/score over raster, JPEG, and WAV covers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
