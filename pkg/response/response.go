// Package response writes the JSON envelope every endpoint answers with:
//
//	{"success": true, "status": 200, "message": "...", "data": ..., "errors": ..., "meta": ...}
package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes one page of a paginated list.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	LastPage int   `json:"last_page"`
}

// NewMeta derives LastPage from total and limit.
func NewMeta(total int64, page, limit int) Meta {
	last := 1
	if limit > 0 && total > 0 {
		last = int((total + int64(limit) - 1) / int64(limit))
	}
	return Meta{Total: total, Page: page, Limit: limit, LastPage: last}
}

func write(w http.ResponseWriter, status int, body envelope) {
	body.Status = status
	body.Success = status < http.StatusBadRequest
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Data: data})
}

// Message sends a 200 with a message and optional data.
func Message(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, envelope{Message: message, Data: data})
}

// Created sends a 201 with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Data: data})
}

// Error sends an error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Message: message})
}

// ErrorWithData sends an error envelope that also carries a payload, such as
// the per-line detail of a rejected order.
func ErrorWithData(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, envelope{Message: message, Data: data})
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Paginated sends a 200 with one page of items and its meta.
func Paginated(w http.ResponseWriter, data interface{}, meta Meta) {
	write(w, http.StatusOK, envelope{Data: data, Meta: &meta})
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
