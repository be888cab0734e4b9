package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"linkcook-go/internal/client"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // rejected by the service or declined by the user
	ExitCommandError = 2 // bad flags or input
	ExitUnavailable  = 3 // service unreachable, safe to retry
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// exitCodeFor maps a client error kind to an exit code.
func exitCodeFor(err error) (int, string) {
	var clientErr *client.Error
	if !errors.As(err, &clientErr) {
		return ExitFailure, "error"
	}
	switch clientErr.Kind {
	case client.KindValidation:
		return ExitCommandError, string(clientErr.Kind)
	case client.KindTransport:
		return ExitUnavailable, string(clientErr.Kind)
	default:
		return ExitFailure, string(clientErr.Kind)
	}
}

// OutputFormatter writes command results as text, JSON or YAML.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the structured output of json and yaml formats.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"`
}

type CLIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Success writes data. In text format render is used instead; a nil render
// prints data with fmt.
func (f *OutputFormatter) Success(data any, render func(w io.Writer) error) error {
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	case "yaml":
		plain, err := plainData(data)
		if err != nil {
			return err
		}
		return f.encodeYAML(CLIResponse{Status: "ok", Data: plain})
	}

	if render != nil {
		return render(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a failure in structured formats. Text errors are printed by
// main from the returned error.
func (f *OutputFormatter) Error(code, message string) error {
	response := CLIResponse{Status: "error", Error: &CLIError{Code: code, Message: message}}
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(response)
	case "yaml":
		return f.encodeYAML(response)
	}
	return nil
}

// VerboseLog writes diagnostics to ErrWriter when verbose output is on.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func (f *OutputFormatter) encodeYAML(value any) error {
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}

// plainData round-trips through JSON so YAML keys match the JSON field names.
func plainData(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}
