package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/mocks"
	"github.com/atinyakov/vh7/internal/storage"
)

func TestInjectUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, UserFrom(req.Context()))

	user := &storage.User{ID: 3}
	newReq := InjectUser(req, user)

	require.Equal(t, user, UserFrom(newReq.Context()))
}

func TestCredential(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		cookie string
		want   string
	}{
		{name: "none", want: ""},
		{name: "bearer", header: map[string]string{"Authorization": "Bearer abc"}, want: "abc"},
		{name: "lowercase scheme", header: map[string]string{"Authorization": "bearer abc"}, want: "abc"},
		{name: "basic is ignored", header: map[string]string{"Authorization": "Basic abc"}, want: ""},
		{name: "api key header", header: map[string]string{"X-API-Key": "key"}, want: "key"},
		{name: "cookie", cookie: "jwt", want: "jwt"},
		{name: "authorization wins", header: map[string]string{"Authorization": "Bearer a", "X-API-Key": "b"}, cookie: "c", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}

			assert.Equal(t, tt.want, Credential(req))
		})
	}
}

func TestWithAuth(t *testing.T) {
	t.Run("anonymous request passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUsers := mocks.NewMockUserServiceIface(ctrl)

		called := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Nil(t, UserFrom(r.Context()))
		})

		rec := httptest.NewRecorder()
		WithAuth(mockUsers, zap.NewNop())(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid credential injects the user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUsers := mocks.NewMockUserServiceIface(ctrl)
		user := &storage.User{ID: 7}

		mockUsers.EXPECT().
			Authenticate(gomock.Any(), "valid-token").
			Return(user, nil)

		var got *storage.User
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = UserFrom(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		WithAuth(mockUsers, zap.NewNop())(handler).ServeHTTP(rec, req)

		assert.Equal(t, user, got)
	})

	t.Run("invalid credential is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUsers := mocks.NewMockUserServiceIface(ctrl)

		mockUsers.EXPECT().
			Authenticate(gomock.Any(), "bad").
			Return(nil, &service.Error{Kind: service.ErrUnauthorized, Messages: []string{"Could not validate credentials"}})

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called on error")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "bad")
		rec := httptest.NewRecorder()
		WithAuth(mockUsers, zap.NewNop())(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"errors":["Could not validate credentials"]}`, rec.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockUsers := mocks.NewMockUserServiceIface(ctrl)

		mockUsers.EXPECT().
			Authenticate(gomock.Any(), "tok").
			Return(nil, errors.New("db down"))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called on error")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok"})
		rec := httptest.NewRecorder()
		WithAuth(mockUsers, zap.NewNop())(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"errors":["Authentication is required"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, InjectUser(httptest.NewRequest(http.MethodGet, "/users/me", nil), &storage.User{ID: 1}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
