package hostcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zenGate-Global/orgadmin/platform/go/invocation"
	"github.com/zenGate-Global/orgadmin/platform/go/logging"
)

// JSONFlag is appended to every command so the host tool emits a machine readable envelope.
const JSONFlag = "--json"

// Response is the envelope the host tool prints with --json.
type Response struct {
	Status   int             `json:"status"`
	Result   json.RawMessage `json:"result,omitempty"`
	Name     string          `json:"name,omitempty"`
	Message  string          `json:"message,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`

	// Raw is the undecoded stdout.
	Raw []byte `json:"-"`
}

// CommandError reports a host command that finished with a failure status.
type CommandError struct {
	Args     []string
	ExitCode int
	Status   int
	Name     string
	Message  string
	Raw      []byte
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "host command %q failed", strings.Join(e.Args, " "))
	if e.Name != "" {
		fmt.Fprintf(&b, " (%s)", e.Name)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	} else {
		fmt.Fprintf(&b, ": exit code %d", e.ExitCode)
	}
	return b.String()
}

// ClientConfig wires a Client.
type ClientConfig struct {
	// Binary is the host executable, e.g. "sfdx".
	Binary string
	// Dir is the working directory for every command, normally the project root.
	Dir string
}

// Client runs host tool commands and decodes their JSON envelopes.
type Client struct {
	runner Runner
	binary string
	dir    string
}

// NewClient constructs a Client. Binary defaults to "sfdx".
func NewClient(runner Runner, cfg ClientConfig) *Client {
	if runner == nil {
		panic("hostcli runner is required")
	}
	bin := strings.TrimSpace(cfg.Binary)
	if bin == "" {
		bin = "sfdx"
	}
	return &Client{runner: runner, binary: bin, dir: cfg.Dir}
}

// RunJSON runs `<binary> args... --json` and decodes the envelope. A non-zero status
// or exit code yields a *CommandError carrying whatever the host tool reported.
func (c *Client) RunJSON(ctx context.Context, args ...string) (Response, error) {
	full := make([]string, 0, len(args)+1)
	full = append(full, args...)
	full = append(full, JSONFlag)

	logger := logging.FromContextOrNop(ctx).With(invocation.FromContextOrNew(ctx).Fields()...)
	cmd := Command{Name: c.binary, Args: full, Dir: c.dir}
	logger.Debug("host command started", zap.String("cmd", cmd.String()), zap.String("dir", c.dir))

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		logger.Error("host command could not run", zap.String("cmd", cmd.String()), zap.Error(err))
		return Response{}, err
	}

	logger.Debug("host command finished",
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
		zap.Bool("truncated", res.Truncated),
	)

	resp, decodeErr := decodeEnvelope(res.Stdout)
	if decodeErr != nil {
		if res.ExitCode != 0 {
			return Response{Raw: res.Stdout}, &CommandError{
				Args:     full,
				ExitCode: res.ExitCode,
				Status:   res.ExitCode,
				Message:  strings.TrimSpace(string(res.Stderr)),
				Raw:      res.Stdout,
			}
		}
		return Response{Raw: res.Stdout}, fmt.Errorf("decode host output: %w", decodeErr)
	}

	if resp.Status != 0 || res.ExitCode != 0 {
		status := resp.Status
		if status == 0 {
			status = res.ExitCode
		}
		return resp, &CommandError{
			Args:     full,
			ExitCode: res.ExitCode,
			Status:   status,
			Name:     resp.Name,
			Message:  resp.Message,
			Raw:      res.Stdout,
		}
	}

	for _, w := range resp.Warnings {
		logger.Warn("host warning", zap.String("warning", w))
	}
	return resp, nil
}

// Decode unmarshals the result payload of resp into T.
func Decode[T any](resp Response) (T, error) {
	var out T
	if len(resp.Result) == 0 {
		return out, fmt.Errorf("host response has no result")
	}
	if err := json.Unmarshal(resp.Result, &out); err != nil {
		return out, fmt.Errorf("decode host result: %w", err)
	}
	return out, nil
}

// decodeEnvelope tolerates banner text (update notices, deprecation warnings) ahead of the JSON object.
// Banners may contain braces themselves, so every '{' is tried until one decodes.
func decodeEnvelope(stdout []byte) (Response, error) {
	var firstErr error
	for offset := 0; offset < len(stdout); {
		i := bytes.IndexByte(stdout[offset:], '{')
		if i < 0 {
			break
		}
		start := offset + i
		var resp Response
		err := json.NewDecoder(bytes.NewReader(stdout[start:])).Decode(&resp)
		if err == nil {
			resp.Raw = stdout
			return resp, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		offset = start + 1
	}
	if firstErr != nil {
		return Response{}, firstErr
	}
	return Response{}, fmt.Errorf("no JSON object in output")
}
