package commands_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profinance-crm/profinance/internal/commands"
	"github.com/profinance-crm/profinance/internal/config"
	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/id"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/synclog"
)

const (
	expensesCSV = "Fecha,Producto,Categoría,Precio-Gs,Forma de Pago\n" +
		"2024-12-19,Pizza,Alimentos,47.500,Efectivo\n" +
		"2024-12-18,Uber,Transporte,25.000,Débito\n"
	incomeCSV = "Fecha,Entidad,Monto\n2024-12-01,Empresa Principal,8.500.000\n"
	debtsCSV  = "Fecha,Entidad,Monto,Saldo Actual,Interés,Vencimiento\n2024-01-10,Banco,10.000.000,4.000.000,18,10/01/2027\n"
)

func runProfinance(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// sheetServer serves bodies by dataset id and 404s the rest.
func sheetServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a profinance.yaml pointing at srv and returns its path.
func writeConfig(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Sheets = config.SheetsConfig{Expenses: "exp", Income: "inc", Debts: "debt"}
	cfg.Fetch.URLTemplates = []string{srv.URL + "/{id}"}
	cfg.Fetch.Timeout = 5 * time.Second
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.Log.Level = "error"

	path := filepath.Join(dir, config.FileName)
	require.NoError(t, config.Save(path, cfg))
	return path
}

func syncLog(t *testing.T, configPath string) []synclog.Entry {
	t.Helper()
	entries, err := synclog.Read(filepath.Join(filepath.Dir(configPath), "logs", "sync-log.csv"))
	require.NoError(t, err)
	return entries
}

func TestVersion(t *testing.T) {
	out, err := runProfinance(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestInit_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := runProfinance(t, "init", dir, "--capital", "cap-123")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Sheets.Expenses, cfg.Sheets.Expenses)
	assert.Equal(t, "cap-123", cfg.Sheets.Capital)

	info, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runProfinance(t, "init", dir)
	require.NoError(t, err)

	_, err = runProfinance(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runProfinance(t, "init", dir, "--force", "--expenses", "new-id")
	require.NoError(t, err)
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "new-id", cfg.Sheets.Expenses)
}

func TestLoad_RemoteSheet(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	out, err := runProfinance(t, "--config", cfgPath, "load", "gastos")
	require.NoError(t, err)
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "Pizza")
	assert.Contains(t, out, "Uber")
	assert.Contains(t, out, "2 categorías")

	entries := syncLog(t, cfgPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "expenses", entries[0].Kind)
	assert.Equal(t, "connected", entries[0].State)
	assert.Equal(t, "remote", entries[0].Source)
	assert.Equal(t, 2, entries[0].Records)
}

func TestLoad_SearchFilters(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	out, err := runProfinance(t, "--config", cfgPath, "load", "expenses", "--search", "uber")
	require.NoError(t, err)
	assert.Contains(t, out, "Uber")
	assert.NotContains(t, out, "Pizza")
}

func TestLoad_OfflineShowsSample(t *testing.T) {
	srv := sheetServer(t, nil)
	cfgPath := writeConfig(t, srv)

	out, err := runProfinance(t, "--config", cfgPath, "load", "debts", "--limit", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "offline")
	assert.Contains(t, out, "sample")
	assert.Contains(t, out, "3 of 15")

	entries := syncLog(t, cfgPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "offline", entries[0].State)
	assert.NotEmpty(t, entries[0].Error)
}

func TestLoad_LocalFile(t *testing.T) {
	srv := sheetServer(t, nil)
	cfgPath := writeConfig(t, srv)
	file := filepath.Join(t.TempDir(), "ingresos.csv")
	require.NoError(t, os.WriteFile(file, []byte(incomeCSV), 0o644))

	out, err := runProfinance(t, "--config", cfgPath, "load", "income", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Empresa Principal")
	assert.Contains(t, out, "connected")
}

func TestLoad_UnknownKind(t *testing.T) {
	srv := sheetServer(t, nil)
	cfgPath := writeConfig(t, srv)

	_, err := runProfinance(t, "--config", cfgPath, "load", "budgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dataset kind")
}

func TestDashboard(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV, "inc": incomeCSV, "debt": debtsCSV})
	cfgPath := writeConfig(t, srv)

	out, err := runProfinance(t, "--config", cfgPath, "dashboard")
	require.NoError(t, err)
	for _, want := range []string{"Gastos", "Ingresos", "Deudas", "Capital total", "Dinero líquido", "Empresa Principal"} {
		assert.Contains(t, out, want)
	}
	assert.Len(t, syncLog(t, cfgPath), len(model.Kinds))
}

func TestExport_WritesNamedFile(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)
	outDir := t.TempDir()

	_, err := runProfinance(t, "--config", cfgPath, "export", "expenses", "--out", outDir)
	require.NoError(t, err)

	name := id.ExportName(model.KindExpenses, dates.Today(time.Now())) + ".csv"
	data, err := os.ReadFile(filepath.Join(outDir, name))
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Fecha","Hora","Producto","Categoría","Precio","Forma de Pago","Notas"`, lines[0])
	assert.Contains(t, lines[1], `"Pizza"`)
	assert.Contains(t, lines[1], `"47500"`)
}

func TestExport_XLSXAndUnknownFormat(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	_, err := runProfinance(t, "--config", cfgPath, "export", "expenses", "--format", "xlsx", "--out", t.TempDir())
	require.NoError(t, err)

	_, err = runProfinance(t, "--config", cfgPath, "export", "expenses", "--format", "pdf")
	require.Error(t, err)
}

func TestCache_StatusAndClear(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	out, err := runProfinance(t, "--config", cfgPath, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")

	_, err = runProfinance(t, "--config", cfgPath, "load", "expenses")
	require.NoError(t, err)

	out, err = runProfinance(t, "--config", cfgPath, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "fresh")

	out, err = runProfinance(t, "--config", cfgPath, "load", "expenses")
	require.NoError(t, err)
	assert.Contains(t, out, "from cache")

	_, err = runProfinance(t, "--config", cfgPath, "cache", "clear")
	require.NoError(t, err)
	out, err = runProfinance(t, "--config", cfgPath, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")
}

func TestHistory(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	out, err := runProfinance(t, "--config", cfgPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No loads recorded yet.")

	_, err = runProfinance(t, "--config", cfgPath, "load", "expenses")
	require.NoError(t, err)
	_, err = runProfinance(t, "--config", cfgPath, "load", "capital")
	require.NoError(t, err)

	out, err = runProfinance(t, "--config", cfgPath, "history", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "capital")
	assert.NotContains(t, out, "expenses")
}

func TestWatch_StopsOnQuit(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "watch", "--interval", "1h"})

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	cmd.SetIn(pr)

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	require.Eventually(t, func() bool {
		entries, err := synclog.Read(filepath.Join(filepath.Dir(cfgPath), "logs", "sync-log.csv"))
		return err == nil && len(entries) == len(model.Kinds)
	}, 5*time.Second, 20*time.Millisecond)

	_, err = pw.Write([]byte("quit\n"))
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestExport_AppliesSearchAndCategory(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	out, err := runProfinance(t, "--config", cfgPath, "export", "expenses", "--out", "-", "--search", "uber")
	require.NoError(t, err)
	assert.Contains(t, out, `"Uber"`)
	assert.NotContains(t, out, `"Pizza"`)

	out, err = runProfinance(t, "--config", cfgPath, "export", "expenses", "--out", "-", "--category", "alimentos")
	require.NoError(t, err)
	assert.Contains(t, out, `"Pizza"`)
	assert.NotContains(t, out, `"Uber"`)
}

func TestWatch_EditsSessionRecords(t *testing.T) {
	srv := sheetServer(t, map[string]string{"exp": expensesCSV})
	cfgPath := writeConfig(t, srv)

	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "watch", "--interval", "1h"})

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	cmd.SetIn(pr)

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	require.Eventually(t, func() bool {
		entries, err := synclog.Read(filepath.Join(filepath.Dir(cfgPath), "logs", "sync-log.csv"))
		return err == nil && len(entries) == len(model.Kinds)
	}, 5*time.Second, 20*time.Millisecond)

	input := strings.Join([]string{
		"add gastos producto=Café con leche categoria=Bebidas precio=12.000 pago=Efectivo",
		"add gastos producto=Nada",
		"delete ingresos " + id.FormatSampleID(model.KindIncome, 1),
		"list gastos uber",
		"quit",
	}, "\n") + "\n"
	_, err = pw.Write([]byte(input))
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}

	got := out.String()
	assert.Contains(t, got, "Agregado")
	assert.Contains(t, got, "Café con leche")
	assert.Contains(t, got, "El precio debe ser mayor a 0")
	assert.Contains(t, got, "cannot be edited")
	assert.Contains(t, got, "Uber")
}
