package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/worm-world/worm-world-sub000/internal/bulk"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Delimiter string
}

// ImportResult is the JSON payload of a successful import.
type ImportResult struct {
	Entity string `json:"entity"`
	bulk.Report
	Ignored int64 `json:"ignored"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <entity> <file>",
		Short: "Bulk import a CSV or TSV file",
		Long: `Import a delimited file into an entity in one transaction.

The first line is the header; column names may use any casing
("SysGeneName", "sys_gene_name"). Every row is validated before anything
is written: if any row is rejected nothing is inserted. Rows whose key
already exists are skipped. Files ending in .tsv or .tab are read as
tab-separated unless --delimiter is given.

Examples:
  wormdb import genes genes.csv
  wormdb import alleles - < alleles.tsv --delimiter tab`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", "", `field delimiter: a single character, "tab" or "comma"`)

	return cmd
}

func runImport(opts *ImportOptions, name, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	delim, err := parseDelimiter(opts.Delimiter, path)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	var src io.Reader = cmd.InOrStdin()
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return f.fail(ExitCommandError, ErrCodeNotFound, "file not found: "+path, nil)
			}
			return f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		defer file.Close()
		src = file
	}

	// Opening the store creates the database file.
	s, err := opts.open(f)
	if err != nil {
		return err
	}
	defer s.Close()

	entity, err := s.entity(f, name)
	if err != nil {
		return err
	}

	f.VerboseLog("Importing %s into %s (delimiter %q)", path, entity.Table, delim)
	report, err := entity.Import(cmd.Context(), src, bulk.Options{Delimiter: delim})
	if err != nil {
		return importFailed(f, err)
	}

	result := ImportResult{Entity: entity.Name, Report: report, Ignored: int64(report.Rows) - report.Inserted}
	if f.Format == "json" {
		return f.Success(result)
	}
	return f.Success(fmt.Sprintf("Imported %s of %s %s into %s (%s ignored, %d %s, batch %s)",
		humanize.Comma(report.Inserted),
		humanize.Comma(int64(report.Rows)),
		plural(report.Rows, "row", "rows"),
		entity.Table,
		humanize.Comma(result.Ignored),
		report.Chunks,
		plural(report.Chunks, "statement", "statements"),
		report.Batch,
	))
}

func importFailed(f *OutputFormatter, err error) error {
	var (
		verr *bulk.ValidationError
		ierr *bulk.InsertError
	)
	switch {
	case errors.As(err, &verr):
		return f.fail(ExitFailure, ErrCodeRowsRejected,
			fmt.Sprintf("%d %s rejected, nothing imported", verr.Count, plural(verr.Count, "row", "rows")),
			verr.Errors)
	case errors.As(err, &ierr):
		return f.fail(ExitFailure, ErrCodeImport, err.Error(),
			map[string]int{"chunk": ierr.Chunk, "offset": ierr.Offset})
	case errors.Is(err, bulk.ErrBindLimit):
		return f.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	case errors.Is(err, bulk.ErrNoHeader):
		return f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	return f.fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
}

// parseDelimiter resolves the --delimiter flag, falling back to the file
// extension.
func parseDelimiter(flag, path string) (rune, error) {
	switch strings.ToLower(flag) {
	case "":
		return delimiterFor(path), nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(flag)
	if size != len(flag) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", flag)
	}
	return r, nil
}

// delimiterFor infers the delimiter from a file extension.
func delimiterFor(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	}
	return ','
}
