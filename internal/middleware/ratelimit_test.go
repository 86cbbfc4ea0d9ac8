package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "forwarded chain uses first entry",
			remoteAddr: "10.0.0.1:4444",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "single forwarded entry",
			remoteAddr: "10.0.0.1:4444",
			headers:    map[string]string{"X-Forwarded-For": " 203.0.113.7 "},
			want:       "203.0.113.7",
		},
		{
			name:       "real ip when no forwarded header",
			remoteAddr: "10.0.0.1:4444",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "remote addr strips port",
			remoteAddr: "192.0.2.4:5555",
			want:       "192.0.2.4",
		},
		{
			name:       "remote addr without port passes through",
			remoteAddr: "192.0.2.4",
			want:       "192.0.2.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
