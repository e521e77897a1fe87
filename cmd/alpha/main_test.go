package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aristath/alpha/internal/reports"
)

// run executes alpha with args in an isolated directory and returns the
// exit status and everything written to stdout
func run(t *testing.T, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()

	var out bytes.Buffer
	previous := stdout
	stdout = &out
	t.Cleanup(func() { stdout = previous })

	f := flag.NewFlagSet("alpha", flag.ContinueOnError)
	f.SetOutput(io.Discard)
	commander := subcommands.NewCommander(f, "alpha")
	commander.Error = io.Discard
	commander.Output = io.Discard
	register(commander)

	require.NoError(t, f.Parse(args))
	return commander.Execute(context.Background()), out.String()
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("UI_THEME", "notty")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("# Loan\n\n| Metric | Value |\n| --- | --- |\n| Payments | 12 |\n", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Loan")
	assert.Contains(t, out, "Payments")

	_, err = renderMarkdown("plain text", "no-such-theme")
	assert.NoError(t, err, "unknown themes fall back to auto detection")
}

func TestSimulateLoan(t *testing.T) {
	isolate(t)

	status, out := run(t, "simulate", "loan", "-amount", "12000", "-rate", "0", "-years", "1")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "$12,000.00")
}

func TestSimulateRetirement(t *testing.T) {
	isolate(t)

	status, out := run(t, "simulate", "retirement", "-age", "30", "-retire", "40",
		"-savings", "10000", "-monthly", "500", "-return", "0.08", "-withdrawal", "0.04")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "50+")
}

func TestSimulate_InvalidInput(t *testing.T) {
	isolate(t)

	status, _ := run(t, "simulate", "loan", "-amount", "0")
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, _ = run(t, "simulate", "retirement", "-age", "65", "-retire", "60")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestStats(t *testing.T) {
	isolate(t)

	status, out := run(t, "stats")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "expenses")
	assert.Contains(t, out, "positions")
}

func TestBackup(t *testing.T) {
	dir := isolate(t)
	dest := filepath.Join(dir, "copy.db")

	status, out := run(t, "backup", "-o", dest)
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, dest)
	assert.FileExists(t, dest)

	status, _ = run(t, "backup", "-remote")
	assert.Equal(t, subcommands.ExitUsageError, status, "S3 is not configured")
}

func TestExport(t *testing.T) {
	dir := isolate(t)
	dest := filepath.Join(dir, "export.xlsx")

	status, _ := run(t, "export")
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, out := run(t, "export", "-o", dest)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Exported to")

	file, err := os.Open(dest)
	require.NoError(t, err)
	defer file.Close()

	book, err := excelize.OpenReader(file)
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{reports.SheetExpenses, reports.SheetSavings, reports.SheetTrades, reports.SheetPositions}, book.GetSheetList())
}
