package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func registerSwaggerRoutes(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	r.Get("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	r.Get("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Banking Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Banking Ledger API",
    "version": "1.0.0",
    "description": "Account lifecycle, deposits, withdrawals and ledger export. All endpoints except /healthz, /metrics and /swagger use HTTP Basic authentication."
  },
  "components": {
    "securitySchemes": {
      "basicAuth": {"type": "http", "scheme": "basic"}
    },
    "schemas": {
      "Account": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "accountNumber": {"type": "string", "example": "0123456789"},
          "ownerId": {"type": "string"},
          "accountType": {"type": "string", "example": "savings"},
          "balance": {"type": "string", "example": "1500.00"},
          "status": {"type": "string", "enum": ["Pending", "Approved", "Closed"]},
          "createdAt": {"type": "string", "format": "date-time"},
          "updatedAt": {"type": "string", "format": "date-time"}
        }
      },
      "Transaction": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "accountId": {"type": "string", "format": "uuid"},
          "type": {"type": "string", "enum": ["deposit", "withdraw"]},
          "amount": {"type": "string", "example": "500.00"},
          "recordedAt": {"type": "string", "format": "date-time"}
        }
      },
      "CreateAccountRequest": {
        "type": "object",
        "required": ["accountType"],
        "properties": {
          "accountType": {"type": "string"},
          "initialBalance": {"type": "string", "example": "1000.00"}
        }
      },
      "AmountRequest": {
        "type": "object",
        "required": ["amount"],
        "properties": {
          "amount": {"type": "string", "example": "250.00"}
        }
      },
      "Envelope": {
        "type": "object",
        "properties": {
          "success": {"type": "boolean"},
          "message": {"type": "string"},
          "data": {},
          "errors": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  },
  "security": [{"basicAuth": []}],
  "paths": {
    "/accounts": {
      "post": {
        "summary": "Open an account for the calling customer",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CreateAccountRequest"}}}},
        "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}, "403": {"description": "Forbidden"}, "409": {"description": "Caller already has an account"}}
      },
      "get": {
        "summary": "List accounts (staff, manager)",
        "parameters": [
          {"name": "status", "in": "query", "schema": {"type": "string", "enum": ["Pending", "Approved", "Closed"]}},
          {"name": "search", "in": "query", "schema": {"type": "string"}, "description": "Case-insensitive account type match"}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown status"}, "403": {"description": "Forbidden"}}
      }
    },
    "/accounts/approved": {
      "get": {
        "summary": "Approved accounts, newest first",
        "parameters": [
          {"name": "page", "in": "query", "schema": {"type": "integer", "minimum": 1, "default": 1}},
          {"name": "pageSize", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 100, "default": 5}}
        ],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Page out of range"}}
      }
    },
    "/accounts/me": {
      "get": {"summary": "The caller's own account", "responses": {"200": {"description": "OK"}, "404": {"description": "No account"}}}
    },
    "/accounts/{id}": {
      "get": {
        "summary": "Get an account by id",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}}
      }
    },
    "/accounts/{id}/approve": {
      "patch": {
        "summary": "Approve a pending account (staff)",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}, "409": {"description": "Account is closed"}, "503": {"description": "Account busy, retry"}}
      }
    },
    "/accounts/{id}/close": {
      "patch": {
        "summary": "Close an account (staff, or the owning customer)",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}, "503": {"description": "Account busy, retry"}}
      }
    },
    "/accounts/{id}/transactions": {
      "get": {
        "summary": "Ledger entries for an account, newest first",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}}
      }
    },
    "/accounts/number/{accountNumber}/transactions.csv": {
      "get": {
        "summary": "Download the ledger of an approved account as CSV",
        "parameters": [{"name": "accountNumber", "in": "path", "required": true, "schema": {"type": "string", "pattern": "^[0-9]{10}$"}}],
        "responses": {
          "200": {"description": "CSV file", "content": {"text/csv": {}}},
          "403": {"description": "Forbidden"},
          "404": {"description": "Unknown account or no transactions"},
          "422": {"description": "Account not approved"}
        }
      }
    },
    "/transactions/deposit": {
      "post": {
        "summary": "Deposit into the caller's account",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AmountRequest"}}}},
        "responses": {"200": {"description": "New balance"}, "400": {"description": "Invalid amount"}, "422": {"description": "Account not approved"}, "503": {"description": "Account busy, retry"}}
      }
    },
    "/transactions/withdraw": {
      "post": {
        "summary": "Withdraw from the caller's account",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AmountRequest"}}}},
        "responses": {"200": {"description": "New balance"}, "400": {"description": "Invalid amount"}, "422": {"description": "Account not approved or insufficient funds"}, "503": {"description": "Account busy, retry"}}
      }
    },
    "/transactions/me": {
      "get": {"summary": "The caller's ledger entries, newest first", "responses": {"200": {"description": "OK"}, "404": {"description": "No account"}}}
    },
    "/healthz": {
      "get": {"summary": "Liveness", "security": [], "responses": {"200": {"description": "OK"}}}
    },
    "/metrics": {
      "get": {"summary": "Prometheus metrics", "security": [], "responses": {"200": {"description": "OK"}}}
    }
  }
}`
