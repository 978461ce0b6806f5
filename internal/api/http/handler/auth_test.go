package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/auth-service/internal/api/authctx"
	"github.com/dtroode/auth-service/internal/api/http/render"
	"github.com/dtroode/auth-service/internal/mocks"
	"github.com/dtroode/auth-service/internal/model"
	"github.com/dtroode/auth-service/internal/testutil"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newHandler(t *testing.T) (*Auth, *mocks.AuthService) {
	t.Helper()

	svc := mocks.NewAuthService(t)
	h := NewAuth(svc, authctx.NewManager(), testutil.MakeNoopLogger())
	h.now = func() time.Time { return fixedNow }
	return h, svc
}

func testUser() model.User {
	return model.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "$2a$10$secret-hash",
		IsActive:     true,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
}

func withUser(r *http.Request, user model.User) *http.Request {
	return r.WithContext(authctx.NewManager().SetUserToContext(r.Context(), user))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) render.ErrorResponse {
	t.Helper()

	var body render.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuth_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		callSvc    bool
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"email":"alice@example.com","password":"Str0ngPass!","full_name":"Alice"}`,
			callSvc:    true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate",
			body:       `{"email":"alice@example.com","password":"Str0ngPass!","full_name":"Alice"}`,
			svcErr:     model.ErrDuplicateEmail,
			callSvc:    true,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "validation",
			body:       `{"email":"alice@example.com","password":"Str0ngPass!","full_name":"Alice"}`,
			svcErr:     model.NewValidationError("password", "too short"),
			callSvc:    true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, svc := newHandler(t)
			user := testUser()
			if tt.callSvc {
				svc.On("Register", mock.Anything, model.RegisterParams{
					Email:    "alice@example.com",
					Password: "Str0ngPass!",
					FullName: "Alice",
				}).Return(user, tt.svcErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusCreated {
				assert.NotEmpty(t, decodeError(t, rec).Detail)
				return
			}

			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, user.ID.String(), body["id"])
			assert.Equal(t, "alice@example.com", body["email"])
			assert.NotContains(t, body, "password_hash")
			assert.NotContains(t, body, "PasswordHash")
		})
	}
}

func TestAuth_Register_Username(t *testing.T) {
	h, svc := newHandler(t)
	user := testUser()
	user.Username = "alice"

	svc.On("Register", mock.Anything, model.RegisterParams{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Str0ngPass!",
		FullName: "Alice",
	}).Return(user, nil).Once()

	body := `{"email":"alice@example.com","username":"alice","password":"Str0ngPass!","full_name":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alice", resp["username"])
}

func TestAuth_Register_UsernameTaken(t *testing.T) {
	h, svc := newHandler(t)

	svc.On("Register", mock.Anything, mock.AnythingOfType("model.RegisterParams")).
		Return(model.User{}, model.ErrDuplicateUsername).Once()

	body := `{"email":"bob@example.com","username":"alice","password":"Str0ngPass!","full_name":"Bob"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already taken", decodeError(t, rec).Detail)
}

func TestAuth_Login(t *testing.T) {
	h, svc := newHandler(t)
	user := testUser()
	session := model.Session{
		Access:  model.IssuedToken{Value: "access-token", ExpiresAt: fixedNow.Add(30 * time.Minute)},
		Refresh: model.IssuedToken{Value: "refresh-token", ExpiresAt: fixedNow.Add(7 * 24 * time.Hour)},
		User:    user,
	}
	svc.On("Login", mock.Anything, "alice@example.com", "Str0ngPass!").Return(session, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"Str0ngPass!"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "access-token", body.AccessToken)
	assert.Equal(t, "refresh-token", body.RefreshToken)
	assert.Equal(t, "bearer", body.TokenType)
	assert.Equal(t, int64(1800), body.ExpiresIn)
	assert.Equal(t, user.ID, body.User.ID)
}

func TestAuth_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantDetail string
	}{
		{name: "invalid credentials", svcErr: model.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantDetail: "incorrect email or password"},
		{name: "disabled", svcErr: model.ErrAccountDisabled, wantStatus: http.StatusForbidden},
		{name: "storage failure", svcErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantDetail: "internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, svc := newHandler(t)
			svc.On("Login", mock.Anything, "alice@example.com", "pw").Return(model.Session{}, tt.svcErr).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
				strings.NewReader(`{"email":"alice@example.com","password":"pw"}`))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, http.StatusText(tt.wantStatus), body.Error)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body.Detail)
			}
		})
	}
}

func TestAuth_Refresh(t *testing.T) {
	t.Run("without rotation", func(t *testing.T) {
		h, svc := newHandler(t)
		pair := model.TokenPair{Access: model.IssuedToken{Value: "new-access", ExpiresAt: fixedNow.Add(30 * time.Minute)}}
		svc.On("Refresh", mock.Anything, "refresh-token").Return(pair, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"refresh-token"}`))
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "new-access", body["access_token"])
		assert.Equal(t, "bearer", body["token_type"])
		assert.NotContains(t, body, "refresh_token")
	})

	t.Run("with rotation", func(t *testing.T) {
		h, svc := newHandler(t)
		pair := model.TokenPair{
			Access:  model.IssuedToken{Value: "new-access", ExpiresAt: fixedNow.Add(30 * time.Minute)},
			Refresh: model.IssuedToken{Value: "new-refresh", ExpiresAt: fixedNow.Add(time.Hour)},
		}
		svc.On("Refresh", mock.Anything, "refresh-token").Return(pair, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"refresh-token"}`))
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body RefreshResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "new-refresh", body.RefreshToken)
	})

	t.Run("invalid", func(t *testing.T) {
		h, svc := newHandler(t)
		svc.On("Refresh", mock.Anything, "bad").Return(model.TokenPair{}, model.ErrInvalidRefreshToken).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"bad"}`))
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid refresh token", decodeError(t, rec).Detail)
	})
}

func TestAuth_Me(t *testing.T) {
	h, _ := newHandler(t)
	user := testUser()

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), user)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.PublicUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, user.ID, body.ID)
	assert.Equal(t, user.Email, body.Email)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
}

func TestAuth_Me_NoUser(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "changed", wantStatus: http.StatusOK},
		{name: "wrong old password", svcErr: model.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "weak new password", svcErr: model.NewValidationError("new_password", "too short"), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, svc := newHandler(t)
			user := testUser()
			svc.On("ChangePassword", mock.Anything, user.ID, "old", "N3wPassword!").Return(tt.svcErr).Once()

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/auth/change-password",
				strings.NewReader(`{"old_password":"old","new_password":"N3wPassword!"}`)), user)
			rec := httptest.NewRecorder()
			h.ChangePassword(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuth_UpdateProfile(t *testing.T) {
	h, svc := newHandler(t)
	user := testUser()
	city := "Berlin"

	updated := user
	updated.Profile.City = &city
	svc.On("UpdateProfile", mock.Anything, user.ID, mock.MatchedBy(func(u model.ProfileUpdate) bool {
		return u.City != nil && *u.City == city && u.Phone == nil && u.FullName == nil
	})).Return(updated, nil).Once()

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile",
		strings.NewReader(`{"city":"Berlin"}`)), user)
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.PublicUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.City)
	assert.Equal(t, city, *body.City)
}

func TestAuth_Logout(t *testing.T) {
	h, _ := newHandler(t)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), testUser())
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body.Message)
}

func TestAuth_BodyTooLarge(t *testing.T) {
	h, _ := newHandler(t)

	large := `{"email":"` + strings.Repeat("a", maxBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(large))
	rec := httptest.NewRecorder()
	h.Login(rec, req.WithContext(context.Background()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
