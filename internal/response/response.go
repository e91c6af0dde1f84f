// File: internal/response/response.go
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"questhub/internal/middleware"
	"questhub/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds response builder configuration
type Config struct {
	IncludeRequestID bool   `json:"include_request_id"`
	IncludeTimestamp bool   `json:"include_timestamp"`
	IncludeVersion   bool   `json:"include_version"`
	APIVersion       string `json:"api_version"`
	PrettyPrint      bool   `json:"pretty_print"`
}

// DefaultConfig returns the default response configuration
func DefaultConfig() *Config {
	return &Config{
		IncludeRequestID: true,
		IncludeTimestamp: true,
		IncludeVersion:   true,
		APIVersion:       "v1",
		PrettyPrint:      false,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse is the standard envelope for all API responses
type APIResponse struct {
	Success   bool                   `json:"success"`
	Data      interface{}            `json:"data,omitempty"`
	Error     *ErrorDetail           `json:"error,omitempty"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp int64                  `json:"timestamp,omitempty"`
	Version   string                 `json:"version,omitempty"`
}

// ErrorDetail carries structured error information in the envelope
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder constructs and writes API responses
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{config: config, logger: logger}
}

// Success builds a success envelope for the given data
func (b *Builder) Success(r *http.Request, data interface{}) *APIResponse {
	resp := &APIResponse{
		Success: true,
		Data:    data,
	}
	b.decorate(r, resp)
	return resp
}

// Error builds an error envelope from any error
func (b *Builder) Error(r *http.Request, err error) (*APIResponse, int) {
	serviceErr := services.GetServiceError(err)

	resp := &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    serviceErr.Type,
			Message: serviceErr.Message,
			Code:    serviceErr.Code,
			Details: serviceErr.Details,
		},
	}
	b.decorate(r, resp)
	return resp, serviceErr.GetStatusCode()
}

// decorate fills in the envelope metadata from config and request context
func (b *Builder) decorate(r *http.Request, resp *APIResponse) {
	if b.config.IncludeRequestID && r != nil {
		resp.RequestID = middleware.GetRequestID(r.Context())
	}
	if b.config.IncludeTimestamp {
		resp.Timestamp = time.Now().Unix()
	}
	if b.config.IncludeVersion {
		resp.Version = b.config.APIVersion
	}
}

// WriteSuccess writes a success response with the given status code
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	b.WriteJSON(w, r, b.Success(r, data), statusCode)
}

// WriteError writes an error response, deriving the status code from the error
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	resp, statusCode := b.Error(r, err)

	if statusCode >= 500 && b.logger != nil {
		b.logger.Error("request failed",
			zap.String("request_id", resp.RequestID),
			zap.Error(err),
		)
	}

	b.WriteJSON(w, r, resp, statusCode)
}

// WriteJSON serializes the response and writes it with headers set
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, resp *APIResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if b.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(resp); err != nil && b.logger != nil {
		b.logger.Error("failed to encode response",
			zap.String("request_id", resp.RequestID),
			zap.Error(err),
		)
	}
}
