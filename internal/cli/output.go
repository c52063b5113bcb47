package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// CLIResponse is the JSON envelope of every command result.
type CLIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// printer writes results as JSON or as lines of text.
type printer struct {
	format string
	w      io.Writer
}

// Success prints data. In text mode text is called to render it.
func (p printer) Success(data any, text func(w io.Writer)) error {
	if p.format == "json" {
		return json.NewEncoder(p.w).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(p.w)
	return nil
}

// Failure prints err and returns it so the command exits non-zero.
func (p printer) Failure(err error) error {
	if p.format == "json" {
		if encErr := json.NewEncoder(p.w).Encode(CLIResponse{Status: "error", Error: err.Error()}); encErr != nil {
			return encErr
		}
		return err
	}
	fmt.Fprintf(p.w, "Error: %v\n", err)
	return err
}
