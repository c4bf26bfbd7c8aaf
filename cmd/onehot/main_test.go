package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/onehot/pkg/onehot/config"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

// Latin-1 encoded records: 0xF4 is "ô".
const latin1Records = "ResponseId,Employment,Country\n" +
	"1,\"Employed, full-time;Student, part-time\",Canada\n" +
	"2,,C\xf4te d'Ivoire\n" +
	"3,\"Not employed, and not looking for work\",Peru\n"

const vocabularyCSV = "Unique_Employment_Phrases\n" +
	"employed\nfull-time\nstudent\npart-time\nnot employed\nand not looking for work\n"

type cliFiles struct {
	dir        string
	records    string
	vocabulary string
}

func setupCLIFiles(t *testing.T) cliFiles {
	t.Helper()
	t.Setenv(config.EnvRecords, "")
	t.Setenv(config.EnvVocabulary, "")
	t.Setenv(config.EnvOutput, "")

	dir := t.TempDir()
	files := cliFiles{
		dir:        dir,
		records:    filepath.Join(dir, "group_employment.csv"),
		vocabulary: filepath.Join(dir, "phrases.csv"),
	}
	require.NoError(t, os.WriteFile(files.records, []byte(latin1Records), 0o644))
	require.NoError(t, os.WriteFile(files.vocabulary, []byte(vocabularyCSV), 0o644))
	return files
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestEncodeWritesCSV(t *testing.T) {
	files := setupCLIFiles(t)
	output := filepath.Join(files.dir, "out", "encoded.csv")

	out, _, err := runCLI(t, "encode",
		"--records", files.records,
		"--vocabulary", files.vocabulary,
		"--output", output,
		"--preview", "2",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "One-hot encoded data saved to "+output)
	assert.Contains(t, out, "Records: 3")
	assert.Contains(t, out, "Canada")

	got, err := table.ReadCSV(output, table.ReadOptions{Encoding: "utf-8"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ResponseId", "Country",
		"employed", "full-time", "student", "part-time", "not employed", "and not looking for work",
	}, got.Columns)
	assert.Equal(t, [][]string{
		{"1", "Canada", "1", "1", "1", "1", "0", "0"},
		{"2", "Côte d'Ivoire", "0", "0", "0", "0", "0", "0"},
		{"3", "Peru", "0", "0", "0", "0", "1", "1"},
	}, got.Rows)
}

func TestEncodeWritesSQLite(t *testing.T) {
	files := setupCLIFiles(t)
	output := filepath.Join(files.dir, "encoded.db")

	_, _, err := runCLI(t, "encode",
		"--records", files.records,
		"--vocabulary", files.vocabulary,
		"--output", output,
		"--table", "survey",
		"--prefix", "Employment_",
	)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", output)
	require.NoError(t, err)
	defer db.Close()

	var students int
	require.NoError(t, db.QueryRow(`SELECT SUM("Employment_student") FROM survey`).Scan(&students))
	assert.Equal(t, 1, students)
}

func TestEncodeCountMode(t *testing.T) {
	files := setupCLIFiles(t)
	records := filepath.Join(files.dir, "repeat.csv")
	require.NoError(t, os.WriteFile(records, []byte("Employment\n\"Student; student, Student\"\n"), 0o644))
	output := filepath.Join(files.dir, "counts.csv")

	_, _, err := runCLI(t, "encode",
		"--records", records,
		"--vocabulary", files.vocabulary,
		"--output", output,
		"--mode", "count",
	)
	require.NoError(t, err)

	got, err := table.ReadCSV(output, table.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "3", got.Value(0, got.ColumnIndex("student")))
}

func TestEncodeMissingRecords(t *testing.T) {
	files := setupCLIFiles(t)

	_, _, err := runCLI(t, "encode",
		"--records", filepath.Join(files.dir, "nope.csv"),
		"--vocabulary", files.vocabulary,
		"--output", filepath.Join(files.dir, "out.csv"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestEncodeUndecodableRecords(t *testing.T) {
	files := setupCLIFiles(t)

	_, _, err := runCLI(t, "encode",
		"--records", files.records,
		"--encoding", "utf-8",
		"--vocabulary", files.vocabulary,
		"--output", filepath.Join(files.dir, "out.csv"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be decoded")
}

func TestEncodeMissingColumnWritesNothing(t *testing.T) {
	files := setupCLIFiles(t)
	output := filepath.Join(files.dir, "out.db")

	_, _, err := runCLI(t, "encode",
		"--records", files.records,
		"--column", "Job",
		"--vocabulary", files.vocabulary,
		"--output", output,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "output should not exist")
}

func TestNormalizeCommand(t *testing.T) {
	t.Setenv(config.EnvRecords, "")

	out, _, err := runCLI(t, "normalize", "Independent contractor, not looking for work")
	require.NoError(t, err)
	assert.Equal(t, "independent contractor; not; looking for work\n", out)

	out, _, err = runCLI(t, "normalize", "--json", "Employed, full-time;Student", "")
	require.NoError(t, err)
	assert.Equal(t, "[\"employed\",\"full-time\",\"student\"]\n[]\n", out)
}

func TestNormalizeCommandStdin(t *testing.T) {
	out, _, err := runCLIWithInput(t, "I prefer not to say!\nRetired\n", "normalize")
	require.NoError(t, err)
	assert.Equal(t, "i prefer not to say\nretired\n", out)
}

func TestVocabCommand(t *testing.T) {
	files := setupCLIFiles(t)
	records := filepath.Join(files.dir, "answers.csv")
	require.NoError(t, os.WriteFile(records, []byte(
		"Employment\n\"Student, part time\"\n\"Student, part time\"\n\"Student, part time\"\nRetired\n",
	), 0o644))

	out, _, err := runCLI(t, "vocab", "--records", records)
	require.NoError(t, err)
	assert.Equal(t, "student\npart\ntime\nretired\n", out)

	output := filepath.Join(files.dir, "vocab.csv")
	out, _, err = runCLI(t, "vocab", "--records", records, "--output", output, "--min-records", "2", "--suggest", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 phrases from 4 records")
	assert.Contains(t, out, "part time")

	got, err := table.ReadCSV(output, table.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Unique_Employment_Phrases"}, got.Columns)
	assert.Equal(t, [][]string{{"student"}, {"part"}, {"time"}}, got.Rows)

	_, _, err = runCLI(t, "vocab", "--records", records, "--order", "random")
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	files := setupCLIFiles(t)
	target := filepath.Join(files.dir, "conf", "onehot.toml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")

	_, _, err = runCLI(t, "config", "init", "--path", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "group_employment.csv")
}

func TestInvalidConfigFails(t *testing.T) {
	files := setupCLIFiles(t)
	path := filepath.Join(files.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  mode: tfidf\n"), 0o644))

	_, _, err := runCLI(t, "--config", path, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestEnvOverridesPaths(t *testing.T) {
	files := setupCLIFiles(t)
	output := filepath.Join(files.dir, "from-env.csv")
	t.Setenv(config.EnvRecords, files.records)
	t.Setenv(config.EnvVocabulary, files.vocabulary)
	t.Setenv(config.EnvOutput, output)

	_, _, err := runCLI(t, "encode")
	require.NoError(t, err)
	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestEncodeFixtures(t *testing.T) {
	files := setupCLIFiles(t)
	output := filepath.Join(files.dir, "fixtures.csv")

	_, _, err := runCLI(t, "encode",
		"--records", filepath.Join("..", "..", "testdata", "group_employment.csv"),
		"--vocabulary", filepath.Join("..", "..", "testdata", "unique_employment_phrases.csv"),
		"--output", output,
		"--preview", "0",
	)
	require.NoError(t, err)

	got, err := table.ReadCSV(output, table.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 8, got.Len())
	assert.Equal(t, 3-1+12, got.Width())
	assert.Equal(t, "Côte d'Ivoire", got.Value(5, got.ColumnIndex("Country")))
	assert.Equal(t, "1", got.Value(1, got.ColumnIndex("freelancer")))
	assert.Equal(t, "1", got.Value(7, got.ColumnIndex("i prefer not to say")))
}
