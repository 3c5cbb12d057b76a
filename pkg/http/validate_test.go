package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Kind   string  `json:"kind" default:"btc" validate:"oneof=btc usd"`
	Amount float64 `json:"amount" validate:"required_if=Kind usd,gte=0"`
	Month  int     `json:"month" default:"1" validate:"gte=1,lte=12"`
}

func bindJSON(t *testing.T, body string) ([]ValidationError, *sampleRequest) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	out := &sampleRequest{}
	return BindAndValidate(c, out), out
}

func TestBindAndValidate_AppliesDefaults(t *testing.T) {
	errs, req := bindJSON(t, `{}`)
	require.Nil(t, errs)
	assert.Equal(t, "btc", req.Kind)
	assert.Equal(t, 1, req.Month)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	errs, _ := bindJSON(t, `{"kind":"usd","month":13}`)
	require.Len(t, errs, 2)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "ERR_REQUIRED_IF", byField["Amount"].Code)
	assert.Equal(t, "Amount is required when Kind is usd", byField["Amount"].Message)
	assert.Equal(t, "ERR_LTE", byField["Month"].Code)
	assert.Equal(t, "Month must be at most 12", byField["Month"].Message)
	assert.Equal(t, "12", byField["Month"].Params["max"])
}

func TestBindAndValidate_OneOf(t *testing.T) {
	errs, _ := bindJSON(t, `{"kind":"eth"}`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Kind must be one of: btc, usd", errs[0].Message)
	assert.Equal(t, []string{"btc", "usd"}, errs[0].Params["options"])
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	errs, _ := bindJSON(t, `{"month":`)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_BIND", errs[0].Code)
}
