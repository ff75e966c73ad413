package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Marks Analytics API",
        "description": "Student marks, attendance and analytics backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration and sessions"},
        {"name": "Analytics", "description": "Aggregated marks and attendance reports"},
        {"name": "Students", "description": "Student roster management"},
        {"name": "Marks", "description": "Exam marks"},
        {"name": "Attendance", "description": "Per-subject attendance"},
        {"name": "Users", "description": "Account administration"},
        {"name": "Profile", "description": "Student self-service"}
    ],
    "paths": {
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Register an account", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "409": {"description": "Email already registered"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Log in and receive a token cookie", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "summary": "Clear the token cookie", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"tags": ["Auth"], "summary": "Current account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Not authenticated"}}}},
        "/admin/analytics": {"get": {"tags": ["Analytics"], "summary": "List analytics endpoints", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/analytics/overview": {"get": {"tags": ["Analytics"], "summary": "Cohort overview", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/batch"}, {"$ref": "#/parameters/semester"}, {"$ref": "#/parameters/section"}, {"$ref": "#/parameters/examType"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/analytics/subjects": {"get": {"tags": ["Analytics"], "summary": "Per-subject averages", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/batch"}, {"$ref": "#/parameters/semester"}, {"$ref": "#/parameters/section"}, {"$ref": "#/parameters/examType"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/analytics/toppers": {"get": {"tags": ["Analytics"], "summary": "Ranked students", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/batch"}, {"$ref": "#/parameters/semester"}, {"$ref": "#/parameters/section"}, {"$ref": "#/parameters/examType"}, {"$ref": "#/parameters/subject"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid limit"}}}},
        "/admin/analytics/distribution": {"get": {"tags": ["Analytics"], "summary": "Score histogram", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/batch"}, {"$ref": "#/parameters/semester"}, {"$ref": "#/parameters/section"}, {"$ref": "#/parameters/examType"}, {"$ref": "#/parameters/subject"}, {"name": "bins", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid bins"}}}},
        "/admin/analytics/timeline": {"get": {"tags": ["Analytics"], "summary": "Averages per exam over time", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/batch"}, {"$ref": "#/parameters/semester"}, {"$ref": "#/parameters/section"}, {"$ref": "#/parameters/subject"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/analytics/system": {"get": {"tags": ["Analytics"], "summary": "Cache and request counters", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/analytics/export": {"get": {"tags": ["Analytics"], "summary": "Download a report as CSV or PDF", "security": [{"BearerAuth": []}], "parameters": [{"name": "report", "in": "query", "type": "string", "required": true}, {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}], "responses": {"200": {"description": "File"}}}},
        "/admin/students": {
            "get": {"tags": ["Students"], "summary": "List students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Students"], "summary": "Create a student", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/admin/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get a student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Students"], "summary": "Update a student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Students"], "summary": "Deactivate a student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/marks": {
            "get": {"tags": ["Marks"], "summary": "List marks", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Marks"], "summary": "Add marks", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/admin/marks/{id}": {
            "put": {"tags": ["Marks"], "summary": "Update marks", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Marks"], "summary": "Delete marks", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/attendance": {
            "get": {"tags": ["Attendance"], "summary": "List attendance", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Attendance"], "summary": "Create or update attendance", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Saved"}}}
        },
        "/attendance/summary": {"get": {"tags": ["Attendance"], "summary": "Average attendance", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/attendance/distribution": {"get": {"tags": ["Attendance"], "summary": "Attendance percentage per student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users": {"get": {"tags": ["Users"], "summary": "List accounts", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get an account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Users"], "summary": "Delete an account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Cannot delete your own account"}}}
        },
        "/admin/users/{id}/role": {"put": {"tags": ["Users"], "summary": "Change an account role", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/student/me": {"get": {"tags": ["Profile"], "summary": "Own student profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/student/update": {"put": {"tags": ["Profile"], "summary": "Create or update own profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/student/my-marks": {"get": {"tags": ["Profile"], "summary": "Own marks", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    },
    "parameters": {
        "batch": {"name": "batch", "in": "query", "type": "string"},
        "semester": {"name": "semester", "in": "query", "type": "string"},
        "section": {"name": "section", "in": "query", "type": "string"},
        "examType": {"name": "examType", "in": "query", "type": "string"},
        "subject": {"name": "subject", "in": "query", "type": "string"}
    },
    "definitions": {
        "Failure": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"}
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
