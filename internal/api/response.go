package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Description string `json:"description"`
}

// RowsResponse is the body of a query reply.
type RowsResponse struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
	Rows   []any  `json:"rows"`
}

// CountResponse is the body of a count reply.
type CountResponse struct {
	Entity string `json:"entity"`
	Count  int64  `json:"count"`
}

func respondJSON(w http.ResponseWriter, code int, obj any) {
	body, err := json.Marshal(obj)
	if err != nil {
		code = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Description: "unable to marshal response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func respondError(w http.ResponseWriter, code int, err error) {
	respondJSON(w, code, ErrorResponse{Description: err.Error()})
}
