package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Results API",
        "description": "Term results, class rankings and report cards",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Courses",
            "description": "Course catalogue"
        },
        {
            "name": "Class Courses",
            "description": "Courses taught per class and term"
        },
        {
            "name": "Results",
            "description": "Term results management"
        },
        {
            "name": "Rankings",
            "description": "Class rankings and broadsheets"
        },
        {
            "name": "Student Portal",
            "description": "Published results for learners"
        },
        {
            "name": "Report Cards",
            "description": "Signed report card downloads"
        }
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
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is down"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "List courses",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Courses"
                ],
                "summary": "Create course",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateCourseRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/courses/{id}": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Get course",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "tags": [
                    "Courses"
                ],
                "summary": "Update course",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateCourseRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Courses"
                ],
                "summary": "Delete course",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/class-courses": {
            "get": {
                "tags": [
                    "Class Courses"
                ],
                "summary": "List class course assignments",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "is_active",
                        "in": "query",
                        "required": false,
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Class Courses"
                ],
                "summary": "Assign a course to a class",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateClassCourseRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/class-courses/by-class": {
            "get": {
                "tags": [
                    "Class Courses"
                ],
                "summary": "Courses of a class for a term",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/class-courses/bulk-assign": {
            "post": {
                "tags": [
                    "Class Courses"
                ],
                "summary": "Assign several courses at once",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BulkAssignRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/class-courses/{id}": {
            "put": {
                "tags": [
                    "Class Courses"
                ],
                "summary": "Update assignment",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateClassCourseRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Class Courses"
                ],
                "summary": "Remove assignment",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "List results",
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "sort_by",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "sort_order",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Results"
                ],
                "summary": "Create result",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateResultRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/{id}": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "Get result",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "patch": {
                "tags": [
                    "Results"
                ],
                "summary": "Update result",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateResultRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Results"
                ],
                "summary": "Delete result (principal)",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/{id}/change-log": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "Audit trail of a result",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/{id}/report-card": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "Signed report card link",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/student": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "Results of one student",
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/class": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "Results of students enrolled in a class",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/available-courses": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "Active courses of a class and term",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/students": {
            "get": {
                "tags": [
                    "Results"
                ],
                "summary": "Students enrolled in a class",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/recalculate-positions": {
            "post": {
                "tags": [
                    "Results"
                ],
                "summary": "Recalculate cohort positions",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CohortRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/results/bulk-status": {
            "post": {
                "tags": [
                    "Results"
                ],
                "summary": "Bulk status transition",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BulkStatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Cohort incomplete",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/rankings": {
            "get": {
                "tags": [
                    "Rankings"
                ],
                "summary": "Class ranking",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/rankings/export": {
            "get": {
                "tags": [
                    "Rankings"
                ],
                "summary": "Download broadsheet",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "CSV or PDF file",
                        "schema": {
                            "type": "file"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/api/v1/me/results": {
            "get": {
                "tags": [
                    "Student Portal"
                ],
                "summary": "My published results",
                "parameters": [
                    {
                        "name": "class_name",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/me/results/current-class": {
            "get": {
                "tags": [
                    "Student Portal"
                ],
                "summary": "My results for my current class",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/me/results/previous-classes": {
            "get": {
                "tags": [
                    "Student Portal"
                ],
                "summary": "My published results from earlier classes",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/me/results/{id}": {
            "get": {
                "tags": [
                    "Student Portal"
                ],
                "summary": "One of my published results",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/me/results/{id}/report-card": {
            "get": {
                "tags": [
                    "Student Portal"
                ],
                "summary": "Link to my report card",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/report-cards/{token}": {
            "get": {
                "tags": [
                    "Report Cards"
                ],
                "summary": "Download a report card",
                "produces": [
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "PDF",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "401": {
                        "description": "Invalid or expired link",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CourseResultInput": {
            "type": "object",
            "required": [
                "class_course_id"
            ],
            "properties": {
                "class_course_id": {
                    "type": "string"
                },
                "class_score": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 40
                },
                "exam_score": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 60
                },
                "remarks": {
                    "type": "string"
                }
            }
        },
        "CreateResultRequest": {
            "type": "object",
            "required": [
                "student_id",
                "class_name",
                "term",
                "academic_year"
            ],
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "class_name": {
                    "type": "string"
                },
                "term": {
                    "type": "string",
                    "enum": [
                        "first",
                        "second",
                        "third"
                    ]
                },
                "academic_year": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "DRAFT",
                        "SCHEDULED",
                        "PUBLISHED"
                    ]
                },
                "scheduled_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "days_present": {
                    "type": "integer"
                },
                "days_absent": {
                    "type": "integer"
                },
                "promoted_to": {
                    "type": "string"
                },
                "teacher_remarks": {
                    "type": "string"
                },
                "next_term_begins": {
                    "type": "string",
                    "format": "date-time"
                },
                "course_results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/CourseResultInput"
                    }
                }
            }
        },
        "UpdateResultRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "class_name": {
                    "type": "string"
                },
                "term": {
                    "type": "string",
                    "enum": [
                        "first",
                        "second",
                        "third"
                    ]
                },
                "academic_year": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "DRAFT",
                        "SCHEDULED",
                        "PUBLISHED"
                    ]
                },
                "scheduled_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "days_present": {
                    "type": "integer"
                },
                "days_absent": {
                    "type": "integer"
                },
                "promoted_to": {
                    "type": "string"
                },
                "teacher_remarks": {
                    "type": "string"
                },
                "next_term_begins": {
                    "type": "string",
                    "format": "date-time"
                },
                "course_results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/CourseResultInput"
                    }
                }
            }
        },
        "CohortRequest": {
            "type": "object",
            "required": [
                "class_name",
                "term",
                "academic_year"
            ],
            "properties": {
                "class_name": {
                    "type": "string"
                },
                "term": {
                    "type": "string",
                    "enum": [
                        "first",
                        "second",
                        "third"
                    ]
                },
                "academic_year": {
                    "type": "string"
                }
            }
        },
        "BulkStatusRequest": {
            "type": "object",
            "required": [
                "class_name",
                "term",
                "status"
            ],
            "properties": {
                "class_name": {
                    "type": "string"
                },
                "term": {
                    "type": "string",
                    "enum": [
                        "first",
                        "second",
                        "third"
                    ]
                },
                "academic_year": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "DRAFT",
                        "SCHEDULED",
                        "PUBLISHED"
                    ]
                },
                "scheduled_date": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": [
                "name",
                "code"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "UpdateCourseRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "CreateClassCourseRequest": {
            "type": "object",
            "required": [
                "course_id",
                "class_name",
                "term"
            ],
            "properties": {
                "course_id": {
                    "type": "string"
                },
                "class_name": {
                    "type": "string"
                },
                "term": {
                    "type": "string",
                    "enum": [
                        "first",
                        "second",
                        "third"
                    ]
                },
                "is_active": {
                    "type": "boolean"
                }
            }
        },
        "UpdateClassCourseRequest": {
            "type": "object",
            "properties": {
                "class_name": {
                    "type": "string"
                },
                "term": {
                    "type": "string",
                    "enum": [
                        "first",
                        "second",
                        "third"
                    ]
                },
                "is_active": {
                    "type": "boolean"
                }
            }
        },
        "BulkAssignRequest": {
            "type": "object",
            "required": [
                "course_ids",
                "class_name",
                "term"
            ],
            "properties": {
                "course_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "class_name": {
                    "type": "string"
                },
                "term": {
                    "type": "string",
                    "enum": [
                        "first",
                        "second",
                        "third"
                    ]
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
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
