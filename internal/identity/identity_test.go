package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ivancliff029/engaato-online/internal/config"
	"github.com/ivancliff029/engaato-online/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers struct {
	docs    map[string]string
	readErr error
}

func (f *fakeUsers) Read(_ context.Context, collection, id string, out any) error {
	if f.readErr != nil {
		return f.readErr
	}
	raw, ok := f.docs[collection+"/"+id]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeUsers) Write(context.Context, string, string, any) error { return nil }
func (f *fakeUsers) List(context.Context, string, any) error          { return nil }
func (f *fakeUsers) Close(context.Context) error                      { return nil }

var guestCfg = config.GuestConfig{Name: "Guest", Email: "guest@engaato.com", Phone: "256700000000"}

func TestDirectory_Guest(t *testing.T) {
	d := NewDirectory(&fakeUsers{}, guestCfg, zap.NewNop())

	c := d.Customer(context.Background(), nil)
	assert.Equal(t, "guest@engaato.com", c.Email)
	assert.Equal(t, "Guest", c.Name)
	assert.Equal(t, "256700000000", c.Phone)
}

func TestDirectory_UserWithProfile(t *testing.T) {
	users := &fakeUsers{docs: map[string]string{
		"users/u1": `{"phone":"256772123456","firstName":"Ivan","lastName":"Cliff"}`,
	}}
	d := NewDirectory(users, guestCfg, zap.NewNop())

	c := d.Customer(context.Background(), &User{UID: "u1", Email: "ivan@example.com"})
	assert.Equal(t, "ivan@example.com", c.Email)
	assert.Equal(t, "256772123456", c.Phone)
	assert.Equal(t, "Ivan Cliff", c.Name)
}

func TestDirectory_DisplayNameWins(t *testing.T) {
	users := &fakeUsers{docs: map[string]string{
		"users/u1": `{"phone":"256772123456","username":"ivan"}`,
	}}
	d := NewDirectory(users, guestCfg, zap.NewNop())

	c := d.Customer(context.Background(), &User{UID: "u1", Email: "ivan@example.com", DisplayName: "Ivan C"})
	assert.Equal(t, "Ivan C", c.Name)
}

func TestDirectory_ProfileMissingOrUnreadable(t *testing.T) {
	tests := []struct {
		name  string
		users *fakeUsers
	}{
		{"no profile", &fakeUsers{}},
		{"read error", &fakeUsers{readErr: errors.New("db down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirectory(tt.users, guestCfg, zap.NewNop())

			c := d.Customer(context.Background(), &User{UID: "u1", Email: "ivan@example.com"})
			assert.Equal(t, "ivan@example.com", c.Email)
			assert.Equal(t, "256700000000", c.Phone)
			assert.Equal(t, "Guest", c.Name)
		})
	}
}

func TestAuthenticator_IssueAndParse(t *testing.T) {
	a := NewAuthenticator("test-secret", zap.NewNop())

	token, err := a.Issue(User{UID: "u1", Email: "ivan@example.com", DisplayName: "Ivan"}, time.Hour)
	require.NoError(t, err)

	u, err := a.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, &User{UID: "u1", Email: "ivan@example.com", DisplayName: "Ivan"}, u)
}

func TestAuthenticator_Rejects(t *testing.T) {
	a := NewAuthenticator("test-secret", zap.NewNop())
	other := NewAuthenticator("other-secret", zap.NewNop())

	expired, err := a.Issue(User{UID: "u1"}, -time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue(User{UID: "u1"}, time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "x@y.z"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"wrong key":  foreign,
		"no subject": noSubject,
		"garbage":    "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := a.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	a := NewAuthenticator("test-secret", zap.NewNop())
	token, err := a.Issue(User{UID: "u1", Email: "ivan@example.com"}, time.Hour)
	require.NoError(t, err)

	var seen *User
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	tests := []struct {
		name    string
		prepare func(*http.Request)
		wantUID string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, "u1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: token}) }, "u1"},
		{"anonymous", func(*http.Request) {}, ""},
		{"invalid token is anonymous", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.wantUID == "" {
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, tt.wantUID, seen.UID)
		})
	}
}
