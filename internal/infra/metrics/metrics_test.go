package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/trucks/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/trucks/:id", "200"))

	req := httptest.NewRequest(http.MethodGet, "/trucks/42", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/trucks/:id", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordSweep(t *testing.T) {
	okBefore := testutil.ToFloat64(sessionsSwept.WithLabelValues("true"))
	failBefore := testutil.ToFloat64(sessionsSwept.WithLabelValues("false"))
	delBefore := testutil.ToFloat64(sessionsDeleted)

	RecordSweep(3, nil)
	RecordSweep(0, errors.New("db down"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(sessionsSwept.WithLabelValues("true")))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(sessionsSwept.WithLabelValues("false")))
	assert.Equal(t, delBefore+3, testutil.ToFloat64(sessionsDeleted))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordOrderPlaced()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "foodtruck_orders_placed_total"))
}
