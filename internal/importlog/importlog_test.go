package importlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Entity:    "pt-maju",
		File:      "coa_export.csv",
		Status:    StatusImported,
		Inserted:  4,
		Updated:   1,
		Total:     5,
		Rejected:  1,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pt-maju", entries[0].Entity)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "import-log.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), Header+"\n")
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Entity = "cv-abadi"
	e2.Status = StatusFailed
	e2.Error = "sheet format not recognized, missing account code"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pt-maju", entries[0].Entity)
	assert.Equal(t, "cv-abadi", entries[1].Entity)
	assert.Equal(t, e2.Error, entries[1].Error)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "import-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)

	row := MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)

	row = MarshalEntry(testEntry())
	row[colInserted] = "four"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)
}

func TestLast(t *testing.T) {
	dir := t.TempDir()
	first := testEntry()
	second := testEntry()
	second.Timestamp = testTime.Add(time.Hour)
	second.Updated = 5
	other := testEntry()
	other.Entity = "cv-abadi"
	require.NoError(t, Append(dir, []Entry{first, second, other}))

	e, ok, err := Last(dir, "pt-maju")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, e.Updated)

	_, ok, err = Last(dir, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
