// Package docs регистрирует описание API для /swagger. Поддерживается вручную
// вместе с аннотациями в handlers.
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
                "summary": "Вход, выдаёт JWT и ставит httpOnly cookie",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/services.LoginInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Регистрация пользователя",
                "parameters": [
                    {
                        "description": "Name, email and password",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/services.RegisterInput"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Email уже занят", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/verify": {
            "get": {
                "description": "В отличие от /auth/me не требует middleware: при отсутствии или порче токена отвечает {\"logged_in\": false}.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Проверить сессию",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/matches": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Создаёт матч с результатом и обновляет таблицу обеих команд в одной транзакции. Ничьи запрещены.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Записать результат матча",
                "parameters": [
                    {
                        "description": "Teams, series, tournament and result",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/services.RecordMatchInput"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Ничья, отрицательный счёт, одинаковые команды", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Турнир закрыт", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/series/{seriesID}/fixture": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["series"],
                "summary": "Сгенерировать матчи группы (каждый с каждым)",
                "parameters": [
                    {"type": "integer", "description": "Series ID", "name": "seriesID", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Матчи уже созданы", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/advance": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Из групп в первый раунд плей-офф, из раунда в следующий, либо объявить чемпиона.",
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Перейти к следующей фазе турнира",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "integer", "description": "Restrict advancement to one category", "name": "category_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.AdvanceResult"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Фаза не завершена / турнир закрыт", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/finalize": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Закрыть турнир",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Не организатор турнира", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Турнир уже закрыт", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "services.ResultInput": {
            "type": "object",
            "required": ["points_a", "points_b"],
            "properties": {
                "points_a": {"type": "integer"},
                "points_b": {"type": "integer"}
            }
        },
        "services.AdvanceResult": {
            "type": "object",
            "properties": {
                "auto_qualified": {"type": "array", "items": {"type": "integer"}},
                "champion_found": {"type": "boolean"},
                "match_ids": {"type": "array", "items": {"type": "integer"}},
                "teams_advanced": {"type": "integer"},
                "tournament_id": {"type": "integer"}
            }
        },
        "services.LoginInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "services.RecordMatchInput": {
            "type": "object",
            "properties": {
                "end_time": {"type": "string"},
                "result": {"$ref": "#/definitions/services.ResultInput"},
                "series_id": {"type": "integer"},
                "start_time": {"type": "string"},
                "team_a_id": {"type": "integer"},
                "team_b_id": {"type": "integer"},
                "tournament_id": {"type": "integer"}
            }
        },
        "services.RegisterInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Bracket System API",
	Description:      "Amateur tournament brackets: groups, standings, elimination rounds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
