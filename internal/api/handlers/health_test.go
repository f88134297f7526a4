package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		method string
		code   int
	}{
		{name: "get ok", method: http.MethodGet, code: http.StatusOK},
		{name: "post rejected", method: http.MethodPost, code: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Health(rec, httptest.NewRequest(tt.method, "/health", nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestReadyWithoutIndex(t *testing.T) {
	h := &ReadyHandler{}

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"inventory not loaded"}`, rec.Body.String())
}
