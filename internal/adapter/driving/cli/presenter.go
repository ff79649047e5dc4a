// Package cli is the driving adapter: subcommand dispatch, output
// presentation, and exit-code mapping.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"bbpr/internal/application"
	"bbpr/internal/domain/port/driven"
)

// Process exit codes. Success is 0.
const (
	ExitGeneric      = 1
	ExitAuth         = 2
	ExitNotFound     = 3
	ExitInvalidInput = 4
)

// Presenter carries the per-invocation output mode, set once from parsed
// flags before any command logic runs and read-only afterwards.
type Presenter struct {
	JSON bool
	Out  io.Writer
	Err  io.Writer
}

// Emit writes the command's success artifact: text to stdout in text mode,
// the structured value compactly serialized in JSON mode.
func (p *Presenter) Emit(text string, structured any) {
	if p.JSON {
		enc := json.NewEncoder(p.Out)
		_ = enc.Encode(structured)
		return
	}
	fmt.Fprintln(p.Out, text)
}

// Fail writes a single error record to stderr and returns the process exit
// code for err. No partial success output accompanies it.
func (p *Presenter) Fail(err error) int {
	code := ExitCode(err)
	if p.JSON {
		enc := json.NewEncoder(p.Err)
		_ = enc.Encode(errorView{Error: err.Error(), Code: code})
		return code
	}
	fmt.Fprintf(p.Err, "Error: %v\n", err)
	return code
}

type errorView struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// ExitCode maps the error taxonomy to process exit codes. This is the single
// place the translation happens.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, application.ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, driven.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, driven.ErrAuth), errors.Is(err, driven.ErrForbidden):
		return ExitAuth
	default:
		return ExitGeneric
	}
}
