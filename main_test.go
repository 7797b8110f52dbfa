package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"hiring-assistant/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) (exportDir, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	exportDir = filepath.Join(dir, "exports")
	dbPath = filepath.Join(dir, "screenings.db")

	t.Setenv("ASSISTANT_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("EXPORT_DIR", exportDir)
	t.Setenv("DATABASE_PATH", dbPath)
	return exportDir, dbPath
}

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(in))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func seedScreening(t *testing.T, dbPath, id string) {
	t.Helper()
	repo, err := storage.OpenRepository(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	export := &storage.Export{
		CandidateInfo:    storage.CandidateInfo{FullName: "Jane Doe", Email: "jane@doe.com", TechStack: "Go"},
		TechnicalQA:      []storage.QA{{Question: "Q1", Answer: "A1", Timestamp: "2026-10-18 09:05:00"}},
		SessionCompleted: true,
		ExportTimestamp:  "2026-10-18 09:10:00",
	}
	require.NoError(t, repo.SaveScreening(context.Background(), id, export))
}

func TestExportsShow(t *testing.T) {
	_, dbPath := setupEnv(t)
	seedScreening(t, dbPath, "session-1")

	out, err := execute(t, "", "exports", "show", "session-1")

	require.NoError(t, err)
	assert.Contains(t, out, `"full_name": "Jane Doe"`)
	assert.Contains(t, out, `"session_completed": true`)
}

func TestExportsShow_NotFound(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "", "exports", "show", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найдено")
}

func TestExportsList(t *testing.T) {
	_, dbPath := setupEnv(t)
	seedScreening(t, dbPath, "session-1")

	out, err := execute(t, "", "exports", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Выгрузки")
	assert.Contains(t, out, "session-1")
	assert.Contains(t, out, "Jane Doe <jane@doe.com>")
}

func TestConsoleCommand(t *testing.T) {
	exportDir, _ := setupEnv(t)
	input := strings.Join([]string{
		"Jane Doe", "jane@doe.com", "+15551234567", "3 years", "Backend Engineer", "Remote", "COBOL",
		"a1", "a2", "a3", "a4", "a5",
	}, "\n") + "\n"

	out, err := execute(t, input, "console")

	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to TalentScout's AI Hiring Assistant")
	assert.Contains(t, out, "Can you explain your experience with cobol?")
	assert.Contains(t, out, "Congratulations, Jane Doe!")

	files, err := storage.ListExports(exportDir)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	listOut, err := execute(t, "", "exports", "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, "ответов: 5")
}
