package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"HodlCalc/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestProjectCommand(t *testing.T) {
	out, err := run(t, "project",
		"--config", filepath.Join("..", "..", "config", "config.yaml"),
		"--price", "60000", "--from-year", "2024", "--years", "2030,2060",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "2030: $800,000.00")
	assert.Contains(t, out, "2030-01")
	assert.Contains(t, out, "(anchor)")
	// 2060 extrapolates the 2040-2050 slope: 6M * 2.4
	assert.Contains(t, out, "$14,400,000.00")
}

func TestProjectCommand_DefaultsWithoutConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := run(t, "project", "--price", "100000", "--from-year", "2025", "--years", "2040")
	require.NoError(t, err)
	assert.Contains(t, out, "$2,500,000.00")
}

func TestProjectCommand_ExplicitMissingConfig(t *testing.T) {
	_, err := run(t, "project", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestProjectCommand_InvalidPrice(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := run(t, "project", "--price", "-5")
	assert.Error(t, err)
}

func TestValueFlags_Request(t *testing.T) {
	req, err := (&valueFlags{usd: 1000, purchase: "2021-04", future: "2035/07"}).request()
	require.NoError(t, err)
	assert.Equal(t, models.InputUSD, req.InputType)
	assert.Equal(t, 2021, req.PurchaseYear)
	assert.Equal(t, 4, req.PurchaseMonth)
	assert.Equal(t, models.CompareFuture, req.ComparisonType)
	assert.Equal(t, 2035, req.FutureYear)
	assert.Equal(t, 7, req.FutureMonth)

	req, err = (&valueFlags{btc: 0.25, purchase: "2020-01"}).request()
	require.NoError(t, err)
	assert.Equal(t, models.InputBTC, req.InputType)
	assert.Equal(t, models.CompareToday, req.ComparisonType)

	_, err = (&valueFlags{purchase: "2020-01"}).request()
	assert.Error(t, err)

	_, err = (&valueFlags{btc: 1, purchase: "2020-13"}).request()
	assert.Error(t, err)
}
