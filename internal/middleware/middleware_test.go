package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodtruck/internal/authz"
	"foodtruck/internal/domain/model"
	auth "foodtruck/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockValidator struct{ mock.Mock }

func (m *MockValidator) Validate(ctx context.Context, token string) (model.SessionWithUser, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(model.SessionWithUser)
	return s, args.Error(1)
}

func okHandler(c echo.Context) error {
	p, _ := PrincipalFrom(c)
	return c.JSON(http.StatusOK, map[string]interface{}{"userId": p.UserID, "role": p.Role})
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func withCookie(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return req
}

func TestSessionAuth_NoCookie(t *testing.T) {
	e := echo.New()
	v := new(MockValidator)
	e.GET("/x", okHandler, SessionAuth(v, quietLog()))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: No token provided", errorBody(t, rec))
	v.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	e := echo.New()
	v := new(MockValidator)
	v.On("Validate", mock.Anything, "stale").Return(model.SessionWithUser{}, auth.ErrSessionNotFound)
	e.GET("/x", okHandler, SessionAuth(v, quietLog()))

	rec := serve(e, withCookie("stale"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: Invalid or expired session", errorBody(t, rec))
}

func TestSessionAuth_StoreFailureIs500(t *testing.T) {
	e := echo.New()
	v := new(MockValidator)
	v.On("Validate", mock.Anything, "tok").Return(model.SessionWithUser{}, errors.New("db down"))

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	e.GET("/x", okHandler, SessionAuth(v, log))

	rec := serve(e, withCookie("tok"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", errorBody(t, rec))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session lookup failed", entry["msg"])
	assert.Equal(t, "db down", entry["error"])
	assert.Equal(t, "error", entry["level"])
}

func TestSessionAuth_SetsPrincipal(t *testing.T) {
	e := echo.New()
	v := new(MockValidator)
	v.On("Validate", mock.Anything, "good").Return(model.SessionWithUser{
		Session: model.Session{Token: "good", UserID: 7},
		User:    model.User{ID: 7, Role: model.RoleCustomer, Status: model.UserStatusActive},
	}, nil)
	e.GET("/x", func(c echo.Context) error {
		assert.Equal(t, "good", SessionTokenFrom(c))
		return okHandler(c)
	}, SessionAuth(v, quietLog()))

	rec := serve(e, withCookie("good"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":7,"role":"customer"}`, rec.Body.String())
}

// principalを直接入れる
func withPrincipal(p authz.Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxUserIDKey, p.UserID)
			c.Set(CtxUserRoleKey, p.Role)
			c.Set(CtxUserStatusKey, p.Status)
			return next(c)
		}
	}
}

func TestRequireCapability(t *testing.T) {
	cases := []struct {
		name string
		p    *authz.Principal
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer", &authz.Principal{UserID: 1, Role: model.RoleCustomer}, http.StatusForbidden},
		{"truckowner", &authz.Principal{UserID: 2, Role: model.RoleTruckOwner}, http.StatusForbidden},
		{"admin", &authz.Principal{UserID: 3, Role: model.RoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			mws := []echo.MiddlewareFunc{}
			if tc.p != nil {
				mws = append(mws, withPrincipal(*tc.p))
			}
			mws = append(mws, RequireCapability(authz.CapAdmin, "Access denied. Admin only."))
			e.GET("/x", okHandler, mws...)

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusForbidden {
				assert.Equal(t, "Access denied. Admin only.", errorBody(t, rec))
			}
		})
	}
}

func TestActiveAccountGuard(t *testing.T) {
	cases := []struct {
		name string
		p    authz.Principal
		want int
	}{
		{"active", authz.Principal{UserID: 1, Role: model.RoleCustomer, Status: model.UserStatusActive}, http.StatusOK},
		{"inactive customer", authz.Principal{UserID: 1, Role: model.RoleCustomer, Status: model.UserStatusInactive}, http.StatusForbidden},
		{"pending owner", authz.Principal{UserID: 1, Role: model.RoleTruckOwner, Status: model.UserStatusPending}, http.StatusForbidden},
		{"inactive admin", authz.Principal{UserID: 1, Role: model.RoleAdmin, Status: model.UserStatusInactive}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/x", okHandler, withPrincipal(tc.p), ActiveAccountGuard())

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(NewIPRateLimiter(1, 2)))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(e, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	//別IPは別バケット
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(e, req).Code)
}

func TestIPRateLimiter_EvictIdle(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.2"))
	require.Equal(t, 2, l.Tracked())

	//まだidleTTL内
	assert.Equal(t, 0, l.EvictIdle(time.Now()))
	assert.Equal(t, 2, l.Tracked())

	assert.Equal(t, 2, l.EvictIdle(time.Now().Add(11*time.Minute)))
	assert.Equal(t, 0, l.Tracked())

	//捨てた後は新しいバケットになる
	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestRequestLogger_WritesStatusAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusTeapot) },
		withPrincipal(authz.Principal{UserID: 42, Role: model.RoleCustomer}))

	serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, float64(42), line["user_id"])
	assert.Equal(t, "/x", line["path"])
}
