package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"users-api/internal/errs"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid request",
			err:        errs.InvalidRequest("page must not be negative"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"page must not be negative"}`,
		},
		{
			name:       "not found",
			err:        errs.NotFound("liked user was not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"liked user was not found"}`,
		},
		{
			name:       "storage failure is hidden",
			err:        errs.Storage("insert user", errors.New("password authentication failed for user postgres")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"something went wrong"}`,
		},
		{
			name:       "unhandled failure is hidden",
			err:        errors.New("nil pointer somewhere"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"something went wrong"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleError(w, httptest.NewRequest(http.MethodGet, "/users/x", nil), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    *int
		wantErr string
	}{
		{name: "absent", query: ""},
		{name: "zero", query: "?page=0", want: intPtr(0)},
		{name: "negative", query: "?page=-4", want: intPtr(-4)},
		{name: "explicit plus sign", query: "?page=%2B7", want: intPtr(7)},
		{name: "unescaped plus decodes to space", query: "?page=+7", wantErr: "page must be numerical"},
		{name: "not a number", query: "?page=two", wantErr: "page must be numerical"},
		{name: "decimal", query: "?page=1.5", wantErr: "page must be numerical"},
		{name: "empty value", query: "?page=", wantErr: "page must be numerical"},
		{name: "beyond 32 bits", query: "?page=2147483648", wantErr: "page must be numerical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/users/a/likes"+tt.query, nil)
			got, err := queryInt(r, "page")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, errs.KindInvalidRequest, errs.KindOf(err))
				assert.Equal(t, tt.wantErr, errs.Message(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"first_name":"Michael","last_name":"Black"}`},
		{name: "unknown fields ignored", body: `{"first_name":"Michael","last_name":"Black","id":"mine","age":3}`},
		{name: "missing field", body: `{"first_name":"Michael"}`, wantErr: true},
		{name: "empty field", body: `{"first_name":"","last_name":"Black"}`, wantErr: true},
		{name: "wrong type", body: `{"first_name":1,"last_name":"Black"}`, wantErr: true},
		{name: "malformed", body: `{"first_name":`, wantErr: true},
		{name: "trailing garbage", body: `{"first_name":"a","last_name":"b"} trailing`, wantErr: true},
		{name: "second value", body: `{"first_name":"a","last_name":"b"}{}`, wantErr: true},
		{name: "trailing whitespace", body: "{\"first_name\":\"a\",\"last_name\":\"b\"}\n  "},
		{name: "empty body", body: ``, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			var req CreateUserRequest
			err := decodeBody(r, &req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "invalid or missing request body", errs.Message(err))
		})
	}
}

func TestUserIDFromPathMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users/", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, chi.NewRouteContext()))

	_, err := userIDFromPath(r)
	require.Error(t, err)
	assert.Equal(t, "missing user id param", errs.Message(err))
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func intPtr(v int) *int { return &v }
