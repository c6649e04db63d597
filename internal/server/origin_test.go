package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// TestOriginPolicy verifies origin normalisation and allow-list matching.
func TestOriginPolicy(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"exact match", []string{"http://localhost:8080"}, "http://localhost:8080", true},
		{"case insensitive", []string{"HTTP://LocalHost:8080"}, "http://localhost:8080", true},
		{"path ignored", []string{"https://chat.example.com/app"}, "https://chat.example.com", true},
		{"different port", []string{"http://localhost:8080"}, "http://localhost:9090", false},
		{"different scheme", []string{"http://localhost:8080"}, "https://localhost:8080", false},
		{"missing header", []string{"*"}, "", false},
		{"wildcard", []string{"*"}, "https://anything.test", true},
		{"invalid configured origin ignored", []string{"not-an-origin", "http://ok.test"}, "http://ok.test", true},
		{"empty allow list", nil, "http://localhost:8080", false},
		{"garbage header", []string{"*"}, "::::", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := newOriginPolicy(tt.allowed, zap.NewNop())
			req := httptest.NewRequest(http.MethodGet, "/ws", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := policy.checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
