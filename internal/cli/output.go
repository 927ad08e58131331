package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Store or import failure (rejected rows, failing chunk, I/O)
	ExitCommandError = 2 // Command error (bad config, unknown entity, invalid filter)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeConfig        = "E002" // Config could not be loaded or is invalid
	ErrCodeOpen          = "E003" // Database could not be opened
	ErrCodeNotFound      = "E004" // Input file not found
	ErrCodeUnknownEntity = "E005" // Entity name not recognised
	ErrCodeFilter        = "E006" // Filter document rejected
	ErrCodeQuery         = "E101" // Read statement failed
	ErrCodeWrite         = "E102" // Write statement failed
	ErrCodeRowsRejected  = "E201" // Import rows failed validation
	ErrCodeImport        = "E202" // Import chunk failed, transaction rolled back
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Rows outputs records. JSON output wraps them in a CLIResponse; text
// output is a tab-aligned table with one column per entry of columns, NULLs
// printed as empty cells.
func (f *OutputFormatter) Rows(entity string, columns []string, rows []any) error {
	if f.Format == "json" {
		return f.Success(RowsResult{Entity: entity, Count: len(rows), Rows: rows})
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		cells, err := rowCells(columns, row)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(f.Writer, "(%d %s)\n", len(rows), plural(len(rows), "row", "rows"))
	return nil
}

// RowsResult is the JSON payload of query.
type RowsResult struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
	Rows   []any  `json:"rows"`
}

// rowCells renders row through its JSON form, whose keys are column names.
func rowCells(columns []string, row any) ([]string, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	cells := make([]string, len(columns))
	for i, c := range columns {
		if v, ok := m[c]; ok && v != nil {
			cells[i] = fmt.Sprint(v)
		}
	}
	return cells, nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports an error through the formatter and returns the matching
// ExitError.
func (f *OutputFormatter) fail(exit int, code, message string, details any) error {
	_ = f.Error(code, message, details)
	return NewExitError(exit, fmt.Sprintf("%s: %s", code, message))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
