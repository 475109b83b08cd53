package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggaran-dev/anggaran/internal/importlog"
	"github.com/anggaran-dev/anggaran/internal/model"
)

func exportPath(t *testing.T) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "..", "testdata", "coa_export.csv"))
	require.NoError(t, err)
	return p
}

func initProject(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	args := append([]string{"init", dir, "--entity", "pt-maju"}, extra...)
	out, err := runAnggaran(t, args...)
	require.NoError(t, err, out)
	return dir
}

func byCode(accts []model.Account) map[string]model.Account {
	m := make(map[string]model.Account, len(accts))
	for _, a := range accts {
		m[a.Code] = a
	}
	return m
}

func TestImport_File(t *testing.T) {
	dir := initProject(t)

	out, err := runAnggaran(t, "-C", dir, "import", exportPath(t))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 5 accounts for pt-maju: 5 inserted, 0 updated, 1 rows skipped")
	assert.Contains(t, out, "1-1100")

	accts := byCode(readLedger(t, dir))
	require.Len(t, accts, 5)
	assert.True(t, decimal.NewFromInt(5000000).Equal(accts["1-1100"].Balance))
	assert.True(t, decimal.NewFromInt(-1250000).Equal(accts["2-1100"].Balance))
	assert.Equal(t, model.AccountTypeLiability, accts["2-1100"].Type)
	assert.Equal(t, model.AccountTypeRevenue, accts["4-1000"].Type)
	assert.Equal(t, model.AccountTypeExpense, accts["5-1000"].Type)

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, importlog.StatusImported, entries[0].Status)
	assert.Equal(t, 5, entries[0].Inserted)
	assert.Equal(t, "coa_export.csv", entries[0].File)

	assert.Contains(t, git(t, dir, "log", "--format=%s", "-1"), "import: pt-maju")
	committed := git(t, dir, "show", "--name-only", "--format=", "HEAD")
	assert.Contains(t, committed, "accounts/chart-of-accounts.csv")
	assert.Contains(t, committed, "logs/import-log.csv")
	assert.Empty(t, strings.TrimSpace(git(t, dir, "status", "--porcelain", "--", "accounts", "logs")),
		"the import commit must include its own log row")
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestImport_ReimportUpdatesInPlace(t *testing.T) {
	dir := initProject(t)

	_, err := runAnggaran(t, "-C", dir, "import", exportPath(t))
	require.NoError(t, err)
	before := byCode(readLedger(t, dir))

	out, err := runAnggaran(t, "-C", dir, "import", exportPath(t))
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 inserted, 5 updated")

	after := byCode(readLedger(t, dir))
	require.Len(t, after, 5)
	for code, a := range before {
		assert.Equal(t, a.ExternalID, after[code].ExternalID, "external ID of %s must survive re-import", code)
		assert.Equal(t, a.ID, after[code].ID)
	}
}

func TestImport_DryRun(t *testing.T) {
	dir := initProject(t)

	out, err := runAnggaran(t, "-C", dir, "import", "--dry-run", exportPath(t))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Would import 5 accounts")
	assert.Empty(t, readLedger(t, dir))

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, importlog.StatusDryRun, entries[0].Status)
}

func TestImport_EntityFlag(t *testing.T) {
	dir := initProject(t)

	_, err := runAnggaran(t, "-C", dir, "import", "--entity", "cv-abadi", exportPath(t))
	require.NoError(t, err)

	for _, a := range readLedger(t, dir) {
		assert.Equal(t, "cv-abadi", a.EntityID)
	}
}

func TestImport_UnrecognizedFormat(t *testing.T) {
	dir := initProject(t)
	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Tanggal,Keterangan,Jumlah\n2025-01-01,Setoran,100\n"), 0o644))

	out, err := runAnggaran(t, "-C", dir, "import", bad)
	require.Error(t, err)
	assert.Contains(t, out, "not recognized")
	assert.Empty(t, readLedger(t, dir))

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, importlog.StatusFailed, entries[0].Status)
	assert.NotEmpty(t, entries[0].Error)
}

func TestImport_UnsupportedFile(t *testing.T) {
	dir := initProject(t)
	pdf := filepath.Join(t.TempDir(), "coa.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))

	out, err := runAnggaran(t, "-C", dir, "import", pdf)
	require.Error(t, err)
	assert.Contains(t, out, "unsupported file type")
}

func TestImport_NoProject(t *testing.T) {
	out, err := runAnggaran(t, "-C", t.TempDir(), "import", exportPath(t))
	require.Error(t, err)
	assert.Contains(t, out, "reading config")
}

func TestImport_MemoryDriverRejected(t *testing.T) {
	dir := initProject(t)
	cfgPath := filepath.Join(dir, "anggaran.yaml")
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Replace(string(data), "driver: file", "driver: memory", 1)), 0o644))

	for _, args := range [][]string{
		{"import", exportPath(t)},
		{"preview", exportPath(t)},
		{"accounts"},
		{"watch", "--once"},
	} {
		out, err := runAnggaran(t, append([]string{"-C", dir}, args...)...)
		assert.Error(t, err, args[0])
		assert.Contains(t, out, "only works with serve and watch", args[0])
	}
	assert.Empty(t, readLedger(t, dir))
}

func TestPreview(t *testing.T) {
	dir := initProject(t)

	out, err := runAnggaran(t, "-C", dir, "preview", exportPath(t))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Header row: 4")
	assert.Contains(t, out, "5 valid, 1 skipped")
	assert.Contains(t, out, "Kas & Bank")
	assert.Empty(t, readLedger(t, dir))
}

func TestAccounts(t *testing.T) {
	dir := initProject(t, "--starter")

	out, err := runAnggaran(t, "-C", dir, "accounts", "--type", "liability")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2-1100")
	assert.NotContains(t, out, "1-1100")

	assert.NotContains(t, out, "Last import:", "init does not log an import")

	out, err = runAnggaran(t, "-C", dir, "accounts", "--entity", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts for nobody")

	_, err = runAnggaran(t, "-C", dir, "accounts", "--type", "bogus")
	assert.Error(t, err)
}

func TestAccounts_LastImport(t *testing.T) {
	dir := initProject(t)
	_, err := runAnggaran(t, "-C", dir, "import", exportPath(t))
	require.NoError(t, err)

	out, err := runAnggaran(t, "-C", dir, "accounts")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Last import:")
	assert.Contains(t, out, "coa_export.csv (imported, 5 inserted, 0 updated)")

	out, err = runAnggaran(t, "-C", dir, "preview", exportPath(t))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Last import:")
}

func TestWatch_Once(t *testing.T) {
	dir := initProject(t)
	data, err := os.ReadFile(exportPath(t))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "coa.csv"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "broken.csv"), []byte("a,b\n1,2\n"), 0o644))

	out, err := runAnggaran(t, "-C", dir, "watch", "--once")
	require.NoError(t, err, out)
	assert.True(t, strings.Contains(out, "coa.csv: 5 inserted, 0 updated"), out)

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "coa.csv"))
	assert.NoError(t, err, "imported file moves to processed")
	_, err = os.Stat(filepath.Join(dir, "import", "broken.csv"))
	assert.NoError(t, err, "failed file stays in the inbox")

	assert.Len(t, readLedger(t, dir), 5)
}
