package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "equity version dev\n", out)
}

func TestSettleCmd(t *testing.T) {
	out, err := run(t, "settle", "--finance", "hp", "--loan", "25000", "--apr", "4.5", "--term", "60", "--json")
	require.NoError(t, err)

	var result calculations.SettlementResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 25187.5, result.TotalSettlement)

	out, err = run(t, "settle", "--finance", "hp", "--loan", "25000", "--apr", "4.5", "--term", "60", "--elapsed", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Total settlement")
	assert.Contains(t, out, "Months remaining:    30")

	_, err = run(t, "settle", "--finance", "lease")
	assert.Error(t, err)
}

func TestProjectCmd(t *testing.T) {
	args := []string{"project",
		"--category", "premium", "--price", "48000", "--mileage", "9000", "--annual-mileage", "9000",
		"--finance", "pcp", "--loan", "43000", "--apr", "6.9", "--term", "48", "--payment", "590",
		"--elapsed", "12", "--balloon", "18000",
	}

	out, err := run(t, append(args, "--json")...)
	require.NoError(t, err)
	var advice calculations.Advice
	require.NoError(t, json.Unmarshal([]byte(out), &advice))
	assert.Equal(t, 12, advice.CurrentMonth)
	assert.Len(t, advice.Projection, 55)

	out, err = run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Equity projection")
	assert.Contains(t, out, "balloon due")
	assert.Contains(t, out, "Swap window")
}

func TestResidualCmd(t *testing.T) {
	out, err := run(t, "residual", "--price", "30000", "--term", "36", "--json")
	require.NoError(t, err)

	var estimate calculations.BalloonEstimate
	require.NoError(t, json.Unmarshal([]byte(out), &estimate))
	assert.Equal(t, 14100.0, estimate.Estimated)
	assert.Equal(t, 1.0, estimate.MarketTrendFactor)

	out, err = run(t, "residual", "--price", "30000", "--term", "36", "--condition", "poor")
	require.NoError(t, err)
	assert.Contains(t, out, "11985.00")
}

func TestQuoteAndCompareCmd(t *testing.T) {
	out, err := run(t, "quote", "--type", "pcp", "--principal", "43000", "--apr", "6.9", "--term", "48",
		"--balloon", "18000", "--schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "PCP quote")
	assert.Contains(t, out, "18000.00")

	out, err = run(t, "compare", "--principal", "30000", "--apr", "7", "--term", "48", "--balloon", "12000", "--json")
	require.NoError(t, err)
	var result calculations.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, calculations.FinanceHP, result.CheaperType)
}

func TestVehiclesCmd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "garage.db")
	storageArgs := []string{"--storage", "sqlite", "--db", db}

	out, err := run(t, append([]string{"vehicles", "add", "--name", "daily",
		"--category", "economy", "--price", "28000",
		"--finance", "hp", "--loan", "25000", "--apr", "4.5", "--term", "60"}, storageArgs...)...)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	id := fields[1]

	out, err = run(t, append([]string{"vehicles", "list"}, storageArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "daily")

	out, err = run(t, append([]string{"vehicles", "pay", id, "--mileage", "900"}, storageArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Month 1 of 60")

	out, err = run(t, append([]string{"project", "--vehicle", id, "--json"}, storageArgs...)...)
	require.NoError(t, err)
	var advice calculations.Advice
	require.NoError(t, json.Unmarshal([]byte(out), &advice))
	assert.Equal(t, 1, advice.CurrentMonth)

	_, err = run(t, append([]string{"vehicles", "remove", id}, storageArgs...)...)
	require.NoError(t, err)

	_, err = run(t, append([]string{"vehicles", "show", id}, storageArgs...)...)
	assert.Error(t, err)
}

func TestVehiclesCmdRefusesMemoryStorage(t *testing.T) {
	_, err := run(t, "vehicles", "add", "--category", "economy", "--price", "28000", "--storage", "memory")
	assert.ErrorIs(t, err, errEphemeralGarage)

	_, err = run(t, "vehicles", "list", "--storage", "memory")
	assert.ErrorIs(t, err, errEphemeralGarage)
}
