package root

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/orgadmin/platform/go/cliout"
)

func TestOutputFormat(t *testing.T) {
	defer func(saved bool, output string) { rootFlags.json, rootFlags.output = saved, output }(rootFlags.json, rootFlags.output)

	rootFlags.json, rootFlags.output = false, "yaml"
	f, err := outputFormat()
	require.NoError(t, err)
	require.Equal(t, cliout.FormatYAML, f)

	rootFlags.json = true
	f, err = outputFormat()
	require.NoError(t, err)
	require.Equal(t, cliout.FormatJSON, f)

	rootFlags.json, rootFlags.output = false, "xml"
	_, err = outputFormat()
	require.Error(t, err)
}

func TestWiredCommands(t *testing.T) {
	for _, path := range [][]string{{"theme", "activate"}, {"user", "permset", "assign"}} {
		cmd, _, err := Root().Find(path)
		require.NoError(t, err)
		require.Equal(t, path[len(path)-1], cmd.Name())
		require.NotNil(t, cmd.Flags().Lookup("name"))
	}
}

func TestFailureUsesJSONEnvelope(t *testing.T) {
	defer func(saved bool) { rootFlags.json = saved }(rootFlags.json)
	rootFlags.json = true

	var out bytes.Buffer
	Root().SetOut(&out)
	defer Root().SetOut(nil)

	printer().Failure(errors.New("boom"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, map[string]any{"status": float64(1), "name": "Error", "message": "boom"}, got)
}

func TestShutdownSignalsIncludeTerm(t *testing.T) {
	require.Contains(t, shutdownSignals, os.Signal(syscall.SIGTERM))
	require.Contains(t, shutdownSignals, os.Interrupt)
}
