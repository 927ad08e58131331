package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestImport_TSVByExtension(t *testing.T) {
	db := filepath.Join(t.TempDir(), "w.db")

	var b strings.Builder
	b.WriteString("Name\tNotes\n")
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("S%02d", i)
		if i == 30 {
			name = "S10"
		}
		fmt.Fprintf(&b, "%s\tnote %d\n", name, i)
	}
	path := writeFile(t, "strains.tsv", b.String())

	out, err := execute(t, "", "import", "strains", path, "--db", db, "--bind-limit", "40", "--format", "json")
	require.NoError(t, err, out)

	var resp struct {
		Status string       `json:"status"`
		Data   ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "strain", resp.Data.Entity)
	assert.Equal(t, 50, resp.Data.Rows)
	assert.Equal(t, int64(49), resp.Data.Inserted)
	assert.Equal(t, int64(1), resp.Data.Ignored)
	assert.Equal(t, 3, resp.Data.Chunks)
	assert.NotEmpty(t, resp.Data.Batch)
}

func TestImport_TextFromStdin(t *testing.T) {
	db := filepath.Join(t.TempDir(), "w.db")

	out, err := execute(t, "sys_name;chromosome\nT14B4.7;II\nF27D9.1;X\n",
		"import", "genes", "-", "--db", db, "--delimiter", ";")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Imported 2 of 2 rows into genes (0 ignored, 1 statement, batch "), out)

	out, err = execute(t, "", "count", "genes", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestImport_RejectedRows(t *testing.T) {
	db := filepath.Join(t.TempDir(), "w.db")
	path := writeFile(t, "tasks.csv", "action,strain1,due_date\nCross,N2,2024-03-01\nDance,N2,\nFreeze,,03/01/2024\n")

	out, err := execute(t, "", "import", "tasks", path, "--db", db, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details []struct {
				Index   int    `json:"index"`
				Message string `json:"message"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ErrCodeRowsRejected, resp.Error.Code)
	assert.Equal(t, "2 rows rejected, nothing imported", resp.Error.Message)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, 1, resp.Error.Details[0].Index)
	assert.Equal(t, 2, resp.Error.Details[1].Index)
}

func TestImport_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "w.db")

	out, err := execute(t, "", "import", "genes", filepath.Join(t.TempDir(), "none.csv"), "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
	_, statErr := os.Stat(db)
	assert.True(t, os.IsNotExist(statErr), "no database is created for a missing input file")

	out, err = execute(t, "", "import", "genes", writeFile(t, "g.csv", "sys_name\nX\n"), "--db", db, "--delimiter", "ab")
	require.Error(t, err)
	assert.Contains(t, out, "invalid delimiter")

	out, err = execute(t, "", "import", "phenotypes", writeFile(t, "p.csv", "name,short_name\nGFP,gfp\n"),
		"--db", db, "--bind-limit", "10")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		flag, path string
		want       rune
		wantErr    bool
	}{
		{"", "genes.csv", ',', false},
		{"", "genes.TSV", '\t', false},
		{"", "genes.tab", '\t', false},
		{"", "-", ',', false},
		{"tab", "genes.csv", '\t', false},
		{`\t`, "genes.csv", '\t', false},
		{"comma", "genes.tsv", ',', false},
		{"|", "genes.tsv", '|', false},
		{"ab", "genes.csv", 0, true},
		{`"`, "genes.csv", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDelimiter(tt.flag, tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.flag)
			continue
		}
		require.NoError(t, err, tt.flag)
		assert.Equal(t, tt.want, got, "%q %q", tt.flag, tt.path)
	}
}
