package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Timetable generation, conflict auditing and lifecycle management.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Timetables", "description": "Proposal generation, audits and stored timetables"},
        {"name": "Timetable Lifecycle", "description": "Submit, approve, activate and close timetables"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check pinging the database and cache",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a timetable proposal",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/generate/async": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Queue a timetable generation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/proposals/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Fetch a cached proposal",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/audit": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Detect conflicts in a slot list",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AuditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List timetables",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "institutionId", "in": "query", "type": "string"},
                    {"name": "academicYearId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Save a draft timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a timetable with its slots",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "If-Match", "in": "header", "type": "string", "description": "Expected version"},
                    {"name": "version", "in": "query", "type": "integer", "description": "Expected version when If-Match is absent"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetables/{id}/conflicts": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Audit a stored timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/slots": {
            "put": {
                "tags": ["Timetables"],
                "summary": "Replace the slots of a draft",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/submit": {
            "post": {
                "tags": ["Timetable Lifecycle"],
                "summary": "Submit a draft for approval",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/approve": {
            "post": {
                "tags": ["Timetable Lifecycle"],
                "summary": "Approve a draft",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/reject": {
            "post": {
                "tags": ["Timetable Lifecycle"],
                "summary": "Reject a submitted draft",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/activate": {
            "post": {
                "tags": ["Timetable Lifecycle"],
                "summary": "Activate an approved timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/complete": {
            "post": {
                "tags": ["Timetable Lifecycle"],
                "summary": "Complete an active timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/cancel": {
            "post": {
                "tags": ["Timetable Lifecycle"],
                "summary": "Cancel an approved or active timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Slot": {
            "type": "object",
            "properties": {
                "teacherId": {"type": "string"},
                "classId": {"type": "string"},
                "subjectId": {"type": "string"},
                "day": {"type": "integer", "description": "0 = Sunday ... 6 = Saturday"},
                "period": {"type": "integer"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "room": {"type": "string"},
                "kind": {"type": "string", "enum": ["regular", "exam", "special"]}
            }
        },
        "Obligation": {
            "type": "object",
            "required": ["teacherId", "classId", "subjectId"],
            "properties": {
                "teacherId": {"type": "string"},
                "classId": {"type": "string"},
                "subjectId": {"type": "string"},
                "weeklyHours": {"type": "integer"},
                "roomHint": {"type": "string"}
            }
        },
        "Grid": {
            "type": "object",
            "required": ["workingDays", "periodsPerDay"],
            "properties": {
                "workingDays": {"type": "array", "items": {"type": "integer"}},
                "periodsPerDay": {"type": "integer"},
                "breakPeriods": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "Period": {
            "type": "object",
            "required": ["period", "startTime", "endTime"],
            "properties": {
                "period": {"type": "integer"},
                "startTime": {"type": "string", "example": "07:00"},
                "endTime": {"type": "string", "example": "07:45"}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["institutionId", "academicYearId"],
            "properties": {
                "institutionId": {"type": "string"},
                "academicYearId": {"type": "string"},
                "obligations": {"type": "array", "items": {"$ref": "#/definitions/Obligation"}},
                "grid": {"$ref": "#/definitions/Grid"},
                "periods": {"type": "array", "items": {"$ref": "#/definitions/Period"}},
                "kind": {"type": "string", "enum": ["regular", "exam", "special"]},
                "respectCommitted": {"type": "boolean"},
                "replacingId": {"type": "string"}
            }
        },
        "AuditRequest": {
            "type": "object",
            "required": ["slots"],
            "properties": {
                "slots": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}
            }
        },
        "CreateTimetableRequest": {
            "type": "object",
            "required": ["name", "effectiveFrom", "effectiveTo"],
            "properties": {
                "proposalId": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["weekly", "daily", "exam", "special"]},
                "institutionId": {"type": "string"},
                "academicYearId": {"type": "string"},
                "effectiveFrom": {"type": "string", "format": "date-time"},
                "effectiveTo": {"type": "string", "format": "date-time"},
                "notes": {"type": "string"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}
            }
        },
        "ReplaceSlotsRequest": {
            "type": "object",
            "required": ["version"],
            "properties": {
                "version": {"type": "integer"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}
            }
        },
        "TransitionRequest": {
            "type": "object",
            "required": ["version"],
            "properties": {
                "version": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
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
