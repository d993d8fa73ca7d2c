package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-sync/models"
)

var testSecret = []byte("test-secret")

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// echoUser responds with the user id seen by the handler.
func echoUser(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		w.Header().Set("X-User", strconv.Itoa(id))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	valid, err := IssueToken(testSecret, &models.User{ID: 7, Role: models.RoleOrganizer}, time.Now())
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, &models.User{ID: 7, Role: models.RoleOrganizer}, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	foreign, err := IssueToken([]byte("other"), &models.User{ID: 7, Role: models.RoleOrganizer}, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tournaments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Authenticate(testSecret, setupTestLogger())(echoUser(t)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "7", rec.Header().Get("X-User"))
			}
		})
	}
}

func TestAuthenticate_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1, "role": "admin"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	Authenticate(testSecret, setupTestLogger())(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	guard := RequireRole(models.RoleOrganizer, models.RoleAdmin)(ok)

	tests := []struct {
		name string
		ctx  context.Context
		want int
	}{
		{"organizer", WithClaims(context.Background(), 1, models.RoleOrganizer), http.StatusNoContent},
		{"admin", WithClaims(context.Background(), 1, models.RoleAdmin), http.StatusNoContent},
		{"unknown role", WithClaims(context.Background(), 1, models.UserRole("player")), http.StatusUnauthorized},
		{"anonymous", context.Background(), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	adminOnly := RequireRole(models.RoleAdmin)(ok)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithClaims(context.Background(), 1, models.RoleOrganizer))
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    int
		wantErr bool
	}{
		{"float", jwt.MapClaims{"user_id": float64(12)}, 12, false},
		{"string", jwt.MapClaims{"user_id": "12"}, 12, false},
		{"fraction", jwt.MapClaims{"user_id": 1.5}, 0, true},
		{"zero", jwt.MapClaims{"user_id": float64(0)}, 0, true},
		{"missing", jwt.MapClaims{}, 0, true},
		{"bool", jwt.MapClaims{"user_id": true}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.WithValue(context.Background(), userContextKey, tt.claims)
			got, err := GetUserIDFromContext(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := GetUserIDFromContext(context.Background())
	assert.ErrorIs(t, err, errNoClaims)
}
