package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Kilbil School API",
        "description": "School website backend: admissions pipeline and public content",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Admissions", "description": "Admission applications and document exports"},
        {"name": "Authentication", "description": "Admin login and password management"},
        {"name": "Content", "description": "Public website content"}
    ],
    "paths": {
        "/admissions": {
            "get": {
                "tags": ["Admissions"],
                "summary": "List admission records, most recent first",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "tags": ["Admissions"],
                "summary": "Submit an admission application",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "phone", "in": "formData", "type": "string", "required": true},
                    {"name": "className", "in": "formData", "type": "string", "required": true},
                    {"name": "lastSchool", "in": "formData", "type": "string"},
                    {"name": "birthCertificate", "in": "formData", "type": "file"},
                    {"name": "reportCard", "in": "formData", "type": "file"},
                    {"name": "transferCertificate", "in": "formData", "type": "file"},
                    {"name": "photograph", "in": "formData", "type": "file"},
                    {"name": "addressProof", "in": "formData", "type": "file"},
                    {"name": "parentIdProof", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/admissions/{id}": {
            "get": {
                "tags": ["Admissions"],
                "summary": "Get one admission record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            },
            "delete": {
                "tags": ["Admissions"],
                "summary": "Delete one admission record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/admissions/{id}/download": {
            "get": {
                "tags": ["Admissions"],
                "summary": "Download one applicant's summary PDF and documents as a ZIP",
                "security": [{"BearerAuth": []}],
                "produces": ["application/zip"],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "ZIP archive"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/admissions/download-all": {
            "get": {
                "tags": ["Admissions"],
                "summary": "Download every applicant's documents as one ZIP",
                "security": [{"BearerAuth": []}],
                "produces": ["application/zip"],
                "responses": {
                    "200": {"description": "ZIP archive, one folder per applicant"},
                    "404": {"description": "No admission records to export"}
                }
            }
        },
        "/admissions/export-csv": {
            "get": {
                "tags": ["Admissions"],
                "summary": "Export the admission roster as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV roster"}
                }
            }
        },
        "/admissions/clear-all": {
            "delete": {
                "tags": ["Admissions"],
                "summary": "Delete every admission record",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin by email and password",
                "consumes": ["application/json"],
                "responses": {
                    "200": {"description": "Access token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change the authenticated admin's password",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Password changed"}
                }
            }
        },
        "/announcements": {
            "get": {"tags": ["Content"], "summary": "List announcements", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Create announcement", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/faculty": {
            "get": {"tags": ["Content"], "summary": "List faculty members", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Create faculty member", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/timetables": {
            "get": {"tags": ["Content"], "summary": "List timetables", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Create timetable", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/gallery": {
            "get": {"tags": ["Content"], "summary": "List gallery images", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Create gallery image", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/facilities": {
            "get": {"tags": ["Content"], "summary": "List facilities", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Create facility", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/testimonials": {
            "get": {"tags": ["Content"], "summary": "List testimonials", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Create testimonial", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/careers": {
            "get": {"tags": ["Content"], "summary": "List job openings", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Create job opening", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        }
    },
    "responses": {
        "BadRequest": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorMessage"}},
        "NotFound": {"description": "Record not found", "schema": {"$ref": "#/definitions/ErrorMessage"}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "ErrorMessage": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
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
