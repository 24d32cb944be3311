// Package cliout renders command results and failures the way the host tool does:
// a {"status","result"} envelope for JSON, plain lines for humans, YAML on request.
package cliout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/zenGate-Global/orgadmin/platform/go/hostcli"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --output value.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (text, json, yaml)", raw)
	}
}

type successEnvelope struct {
	Status int `json:"status"`
	Result any `json:"result"`
}

type failureEnvelope struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

// Printer writes results to Out and human diagnostics to Err.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format Format
}

// JSON reports whether machine output is selected.
func (p Printer) JSON() bool {
	return p.Format == FormatJSON
}

// Success writes result. In text mode only message is printed.
func (p Printer) Success(result any, message string) error {
	switch p.Format {
	case FormatJSON:
		return writeJSON(p.Out, successEnvelope{Status: 0, Result: result})
	case FormatYAML:
		return writeYAML(p.Out, result)
	default:
		_, err := okColor.Fprintln(p.Out, message)
		return err
	}
}

// Warn prints a human-facing note to Err. It is silent in JSON mode.
func (p Printer) Warn(message string) {
	if p.JSON() {
		return
	}
	_, _ = warnColor.Fprintln(p.Err, message)
}

// Raw dumps a host payload to Err for troubleshooting. It is silent in JSON mode.
func (p Printer) Raw(payload []byte) {
	if p.JSON() || len(payload) == 0 {
		return
	}
	_, _ = fmt.Fprintln(p.Err, strings.TrimSpace(string(payload)))
}

// Failure reports err. JSON mode writes a status 1 envelope to Out.
func (p Printer) Failure(err error) {
	if err == nil {
		return
	}
	if p.JSON() {
		_ = writeJSON(p.Out, failureEnvelope{Status: 1, Name: ErrorName(err), Message: err.Error()})
		return
	}
	_, _ = errColor.Fprintf(p.Err, "Error: %s\n", err)
}

// ErrorName classifies err for the JSON failure envelope.
func ErrorName(err error) string {
	var cmdErr *hostcli.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Name != "" {
		return cmdErr.Name
	}
	var named interface{ ErrorName() string }
	if errors.As(err, &named) {
		return named.ErrorName()
	}
	return "Error"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON first so json tags and raw host payloads render the same way.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return enc.Close()
}
