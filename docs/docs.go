// Package docs registers the OpenAPI document served under /swagger. The
// paths are derived from the handler annotations; regenerate after changing them.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "{{.BasePath}}"
        }
    ],
    "tags": [
        {
            "name": "auth"
        },
        {
            "name": "fees"
        },
        {
            "name": "grading"
        },
        {
            "name": "invoices"
        },
        {
            "name": "payments"
        },
        {
            "name": "learners"
        },
        {
            "name": "attendance"
        },
        {
            "name": "reports"
        },
        {
            "name": "schools"
        },
        {
            "name": "system"
        },
        {
            "name": "users"
        }
    ],
    "paths": {
        "/attendance": {
            "post": {
                "operationId": "markAttendance",
                "summary": "Mark attendance",
                "description": "Save a day's register. Re-marking a learner on the same day replaces the earlier mark.",
                "tags": [
                    "attendance"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Register",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listAttendance",
                "summary": "List attendance records",
                "tags": [
                    "attendance"
                ],
                "parameters": [
                    {
                        "name": "learner_id",
                        "in": "query",
                        "required": false,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "required": false,
                        "description": "Grade",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Status",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "from_date",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "to_date",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/auth/login": {
            "post": {
                "operationId": "loginAuth",
                "summary": "User login",
                "description": "Authenticate a staff account within a school",
                "tags": [
                    "auth"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Login credentials",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "operationId": "logoutAuth",
                "summary": "User logout",
                "description": "Revoke the presented access token",
                "tags": [
                    "auth"
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "401": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/auth/me": {
            "get": {
                "operationId": "meAuth",
                "summary": "Get current user",
                "tags": [
                    "auth"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "401": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/auth/refresh": {
            "post": {
                "operationId": "refreshAuth",
                "summary": "Refresh access token",
                "description": "Rotate a refresh token into a new token pair",
                "tags": [
                    "auth"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Refresh token",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/fee-structures": {
            "post": {
                "operationId": "createFeeStructure",
                "summary": "Create a fee structure",
                "description": "A structure is a named set of fee items for a grade, term and academic year",
                "tags": [
                    "fees"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Fee structure",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listFeeStructures",
                "summary": "List fee structures",
                "tags": [
                    "fees"
                ],
                "parameters": [
                    {
                        "name": "grade",
                        "in": "query",
                        "required": false,
                        "description": "Grade",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "description": "Term",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "active",
                        "in": "query",
                        "required": false,
                        "description": "Only active structures",
                        "schema": {
                            "type": "boolean"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/fee-structures/{id}": {
            "get": {
                "operationId": "getFeeStructure",
                "summary": "Get a fee structure",
                "tags": [
                    "fees"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Fee structure ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "operationId": "deleteFeeStructure",
                "summary": "Delete a fee structure",
                "description": "Only structures no invoice references can be deleted",
                "tags": [
                    "fees"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Fee structure ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/fee-structures/{id}/archive": {
            "post": {
                "operationId": "archiveFeeStructure",
                "summary": "Archive a fee structure",
                "tags": [
                    "fees"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Fee structure ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/fee-structures/{id}/items": {
            "put": {
                "operationId": "replaceFeeStructureItems",
                "summary": "Replace fee structure items",
                "description": "Rejected once an invoice references the structure",
                "tags": [
                    "fees"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Items",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Fee structure ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/fee-types": {
            "post": {
                "operationId": "createFeeType",
                "summary": "Create a fee type",
                "tags": [
                    "fees"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Fee type",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listFeeTypes",
                "summary": "List fee types",
                "tags": [
                    "fees"
                ],
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Code or name",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/configs": {
            "post": {
                "operationId": "createAggregationConfig",
                "summary": "Create an aggregation rule",
                "description": "Omitted keys match any value. The most specific rule wins at resolution.",
                "tags": [
                    "grading"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Rule",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listAggregationConfigs",
                "summary": "List aggregation rules",
                "tags": [
                    "grading"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/configs/preview": {
            "post": {
                "operationId": "previewAggregation",
                "summary": "Aggregate ad-hoc scores",
                "tags": [
                    "grading"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Scores and rule",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "422": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/configs/resolve": {
            "get": {
                "operationId": "resolveAggregationConfig",
                "summary": "Resolve the rule for a key",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "assessment_type",
                        "in": "query",
                        "required": true,
                        "description": "Assessment type",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "required": false,
                        "description": "Grade",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "learning_area",
                        "in": "query",
                        "required": false,
                        "description": "Learning area",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/configs/{id}": {
            "delete": {
                "operationId": "deleteAggregationConfig",
                "summary": "Delete an aggregation rule",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rule ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/resolve": {
            "post": {
                "operationId": "resolveGrade",
                "summary": "Resolve a percentage to a grade",
                "tags": [
                    "grading"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Percentage",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "422": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/results": {
            "get": {
                "operationId": "getLearnerResult",
                "summary": "Aggregated result for one learning area",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "learner_id",
                        "in": "query",
                        "required": true,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "learning_area",
                        "in": "query",
                        "required": true,
                        "description": "Learning area",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "assessment_type",
                        "in": "query",
                        "required": true,
                        "description": "Assessment type",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "description": "Term",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": true,
                        "description": "Academic year",
                        "schema": {
                            "type": "integer"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "422": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/results/report-card": {
            "get": {
                "operationId": "getReportCard",
                "summary": "Term report card",
                "description": "Every learning area result of a learner for one term",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "learner_id",
                        "in": "query",
                        "required": true,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": true,
                        "description": "Term",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": true,
                        "description": "Academic year",
                        "schema": {
                            "type": "integer"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/scores": {
            "post": {
                "operationId": "recordScore",
                "summary": "Record an assessment score",
                "tags": [
                    "grading"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Score",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listScores",
                "summary": "List assessment scores",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "learner_id",
                        "in": "query",
                        "required": false,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "learning_area",
                        "in": "query",
                        "required": false,
                        "description": "Learning area",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "assessment_type",
                        "in": "query",
                        "required": false,
                        "description": "Assessment type",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "description": "Term",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "schema": {
                            "type": "integer"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/systems": {
            "post": {
                "operationId": "createGradingSystem",
                "summary": "Create a grading system",
                "description": "Ranges must not overlap. Creating a default demotes the previous default of the same type.",
                "tags": [
                    "grading"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Grading system",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listGradingSystems",
                "summary": "List grading systems",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "type",
                        "in": "query",
                        "required": false,
                        "description": "System type",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/systems/{id}": {
            "get": {
                "operationId": "getGradingSystem",
                "summary": "Get a grading system",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Grading system ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/systems/{id}/default": {
            "post": {
                "operationId": "setDefaultGradingSystem",
                "summary": "Make a grading system the default for its type",
                "tags": [
                    "grading"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Grading system ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grading/systems/{id}/ranges": {
            "put": {
                "operationId": "updateGradingRanges",
                "summary": "Replace grading ranges",
                "tags": [
                    "grading"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Ranges",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Grading system ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/invoices": {
            "post": {
                "operationId": "createInvoice",
                "summary": "Invoice a learner",
                "description": "Bill one learner from a fee structure. A learner has at most one invoice per structure, term and year.",
                "tags": [
                    "invoices"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Invoice",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listInvoices",
                "summary": "List invoices",
                "tags": [
                    "invoices"
                ],
                "parameters": [
                    {
                        "name": "learner_id",
                        "in": "query",
                        "required": false,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "fee_structure_id",
                        "in": "query",
                        "required": false,
                        "description": "Fee structure ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "PENDING, PARTIAL, PAID, OVERPAID or WAIVED",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "required": false,
                        "description": "Grade",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "required": false,
                        "description": "Term",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "academic_year",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "overdue",
                        "in": "query",
                        "required": false,
                        "description": "Only overdue invoices",
                        "schema": {
                            "type": "boolean"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/invoices/bulk": {
            "post": {
                "operationId": "bulkGenerateInvoices",
                "summary": "Invoice a whole grade",
                "description": "Bill every active learner of a grade. Learners already billed are skipped, so a rerun creates nothing.",
                "tags": [
                    "invoices"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Bulk run",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/invoices/{id}": {
            "get": {
                "operationId": "getInvoice",
                "summary": "Get an invoice with its payments",
                "tags": [
                    "invoices"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Invoice ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/invoices/{id}/payments": {
            "post": {
                "operationId": "recordInvoicePayment",
                "summary": "Record a payment",
                "description": "Apply a payment to an invoice and issue a receipt number. A repeated Idempotency-Key is rejected.",
                "tags": [
                    "invoices"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Payment",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Invoice ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "description": "Client key for safe retries",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/invoices/{id}/waive": {
            "post": {
                "operationId": "waiveInvoice",
                "summary": "Waive an invoice",
                "tags": [
                    "invoices"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Reason",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Invoice ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/learners": {
            "post": {
                "operationId": "createLearner",
                "summary": "Enrol a learner",
                "tags": [
                    "learners"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Learner",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listLearners",
                "summary": "List learners",
                "tags": [
                    "learners"
                ],
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Name or admission number",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "required": false,
                        "description": "Grade",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "stream",
                        "in": "query",
                        "required": false,
                        "description": "Stream",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Status",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/learners/import": {
            "post": {
                "operationId": "importLearners",
                "summary": "Enrol learners from a CSV file",
                "description": "Columns: admission_number, first_name, last_name, gender, grade, stream, guardian_phone. Nothing is saved unless every row is valid.",
                "tags": [
                    "learners"
                ],
                "requestBody": {
                    "required": true,
                    "description": "CSV file",
                    "content": {
                        "multipart/form-data": {
                            "schema": {
                                "type": "object",
                                "required": [
                                    "file"
                                ],
                                "properties": {
                                    "file": {
                                        "type": "string",
                                        "format": "binary"
                                    }
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "dry_run",
                        "in": "query",
                        "required": false,
                        "description": "Validate only",
                        "schema": {
                            "type": "boolean"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "413": {
                        "description": "Error"
                    },
                    "415": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/learners/{id}": {
            "get": {
                "operationId": "getLearner",
                "summary": "Get a learner",
                "tags": [
                    "learners"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "operationId": "updateLearner",
                "summary": "Update a learner",
                "tags": [
                    "learners"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Profile",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/learners/{id}/statement": {
            "get": {
                "operationId": "getLearnerStatement",
                "summary": "Learner fee statement",
                "description": "Every invoice of the learner with billed, paid, waived and outstanding totals",
                "tags": [
                    "learners"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/learners/{id}/status": {
            "patch": {
                "operationId": "changeLearnerStatus",
                "summary": "Change a learner's status",
                "tags": [
                    "learners"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Status",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/payments": {
            "get": {
                "operationId": "listPayments",
                "summary": "List payments",
                "tags": [
                    "payments"
                ],
                "parameters": [
                    {
                        "name": "invoice_id",
                        "in": "query",
                        "required": false,
                        "description": "Invoice ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "learner_id",
                        "in": "query",
                        "required": false,
                        "description": "Learner ID",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "method",
                        "in": "query",
                        "required": false,
                        "description": "Payment method",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "from_date",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "to_date",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/payments/{id}": {
            "get": {
                "operationId": "getPayment",
                "summary": "Get a payment",
                "tags": [
                    "payments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Payment ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/payments/{id}/receipt": {
            "get": {
                "operationId": "getPaymentReceipt",
                "summary": "Download a receipt",
                "description": "Returns a short-lived link to the receipt PDF, rendering it on first request",
                "tags": [
                    "payments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Payment ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "503": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/payments/{id}/receipt/html": {
            "get": {
                "operationId": "getPaymentReceiptHTML",
                "summary": "Printable receipt",
                "tags": [
                    "payments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Payment ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/attendance": {
            "get": {
                "operationId": "getAttendanceSummary",
                "summary": "Attendance summary",
                "tags": [
                    "reports"
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/finance": {
            "get": {
                "operationId": "getFinanceSummary",
                "summary": "Finance summary",
                "description": "Billed, collected, waived and outstanding amounts with a per-method breakdown",
                "tags": [
                    "reports"
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/finance/export": {
            "post": {
                "operationId": "exportFinanceSummary",
                "summary": "Export the finance summary as CSV",
                "description": "Stores the CSV and returns a short-lived download link",
                "tags": [
                    "reports"
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "503": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/learners": {
            "get": {
                "operationId": "getLearnerSummary",
                "summary": "Learner summary",
                "tags": [
                    "reports"
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/overview": {
            "get": {
                "operationId": "getDashboardOverview",
                "summary": "Dashboard overview",
                "description": "Learner, attendance and fee collection headline figures",
                "tags": [
                    "reports"
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "description": "From date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "description": "To date (YYYY-MM-DD)",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/roles": {
            "get": {
                "operationId": "listRoles",
                "summary": "List roles and their permissions",
                "tags": [
                    "schools"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schools/current": {
            "get": {
                "operationId": "getSchool",
                "summary": "Get the caller's school",
                "tags": [
                    "schools"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schools/current/branches": {
            "post": {
                "operationId": "addSchoolBranch",
                "summary": "Add a branch",
                "tags": [
                    "schools"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Branch",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listSchoolBranches",
                "summary": "List branches",
                "tags": [
                    "schools"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/schools/register": {
            "post": {
                "operationId": "registerSchool",
                "summary": "Register a school",
                "description": "Create a school with its administrator. Requires the bootstrap token.",
                "tags": [
                    "schools"
                ],
                "requestBody": {
                    "required": true,
                    "description": "School",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "X-Bootstrap-Token",
                        "in": "header",
                        "required": true,
                        "description": "Bootstrap token",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "401": {
                        "description": "Error"
                    },
                    "409": {
                        "description": "Error"
                    }
                }
            }
        },
        "/system/info": {
            "get": {
                "operationId": "getSystemInfo",
                "summary": "Get system information",
                "description": "Returns basic system information including version and uptime",
                "tags": [
                    "system"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            }
        },
        "/system/ping": {
            "get": {
                "operationId": "pingSystem",
                "summary": "Ping the API",
                "tags": [
                    "system"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            }
        },
        "/users": {
            "post": {
                "operationId": "createUser",
                "summary": "Create a staff account",
                "tags": [
                    "users"
                ],
                "requestBody": {
                    "required": true,
                    "description": "User",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "409": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "operationId": "listUsers",
                "summary": "List staff accounts",
                "tags": [
                    "users"
                ],
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "schema": {
                            "type": "integer"
                        }
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Username, name or email",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "role",
                        "in": "query",
                        "required": false,
                        "description": "Role",
                        "schema": {
                            "type": "string"
                        }
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Status",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users/me/password": {
            "put": {
                "operationId": "changeOwnPassword",
                "summary": "Change own password",
                "tags": [
                    "users"
                ],
                "requestBody": {
                    "required": true,
                    "description": "Passwords",
                    "content": {
                        "application/json": {
                            "schema": {
                                "type": "object"
                            }
                        }
                    }
                },
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "401": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users/{id}": {
            "get": {
                "operationId": "getUser",
                "summary": "Get a staff account",
                "tags": [
                    "users"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "User ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users/{id}/unlock": {
            "post": {
                "operationId": "unlockUser",
                "summary": "Unlock a staff account",
                "tags": [
                    "users"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "User ID",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "type": "apiKey",
                "in": "header",
                "name": "Authorization",
                "description": "Bearer token authentication. Format: \"Bearer {token}\""
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Title:            "School Management API",
	Description:      "Multi-tenant school administration: enrolment, attendance, fees, payments, CBC grading and reporting.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
