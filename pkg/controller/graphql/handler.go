package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/m-mizutani/ctxlog"
)

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// NewHandler serves POST requests against the schema
func NewHandler(schema graphql.Schema) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var params request
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, r, map[string]interface{}{
				"errors": []map[string]interface{}{{"message": "Invalid request body"}},
			})
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			ctxlog.From(r.Context()).Warn("graphql query failed",
				"operation", params.OperationName,
				"errors", result.Errors,
			)
		}
		writeJSON(w, r, result)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode graphql response", "error", err)
	}
}
