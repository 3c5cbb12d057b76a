package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	xhttp "HodlCalc/pkg/http"
	applogger "HodlCalc/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthHandler struct{}

func (healthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestApp_RunContext(t *testing.T) {
	srv := xhttp.NewServer(healthHandler{},
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetrics(false, "", 0),
	)
	app := New(applogger.Nop(), srv, nil)

	var order []string
	app.OnClose("first", closerFunc(func() error { order = append(order, "first"); return nil }))
	app.OnClose("second", closerFunc(func() error { order = append(order, "second"); return nil }))
	app.OnClose("nil", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	require.Eventually(t, func() bool {
		if srv.Addr() == "" {
			return false
		}
		resp, err := http.Get("http://" + srv.Addr() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, []string{"second", "first"}, order)
}
