package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tendant/carbon-tracker/pkg/auth"
)

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(auth.TokenConfig{
		Secret:         []byte("0123456789abcdef0123456789abcdef"),
		Issuer:         "carbon-tracker",
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestAuth(t *testing.T) {
	tokens := newTokenService(t)
	valid, _, err := tokens.Issue("ops@example.com", "Ops")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var gotSubject string
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantError:  "access denied. no token provided",
		},
		{
			name:       "garbage token",
			headers:    map[string]string{TokenHeader: "not-a-jwt"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid token",
		},
		{
			name:       "x-auth-token header",
			headers:    map[string]string{TokenHeader: valid},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bearer header",
			headers:    map[string]string{"Authorization": "Bearer " + valid},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-bearer scheme",
			headers:    map[string]string{"Authorization": "Basic " + valid},
			wantStatus: http.StatusUnauthorized,
			wantError:  "access denied. no token provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = ""
			req := httptest.NewRequest("GET", "/api/organizations", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantError != "" {
				var body struct {
					Error string `json:"error"`
				}
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body.Error != tt.wantError {
					t.Errorf("error = %q, want %q", body.Error, tt.wantError)
				}
				return
			}
			if gotSubject != "ops@example.com" {
				t.Errorf("subject = %q, want %q", gotSubject, "ops@example.com")
			}
		})
	}
}
