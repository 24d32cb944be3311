package themecmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/orgadmin/apps/cli/clienv"
	themesservice "github.com/zenGate-Global/orgadmin/domains/themes/be/service"
	"github.com/zenGate-Global/orgadmin/platform/go/cliout"
	"github.com/zenGate-Global/orgadmin/platform/go/config"
	"github.com/zenGate-Global/orgadmin/platform/go/hostcli"
	"github.com/zenGate-Global/orgadmin/platform/go/orgtest"
)

const descriptor = `{
  "packageDirectories": [{"path": "force-app", "default": true}],
  "namespace": "",
  "sourceApiVersion": "47.0"
}
`

type fakeRunner struct {
	runFn func(ctx context.Context, cmd hostcli.Command) (hostcli.Result, error)
	calls []hostcli.Command
}

func (f *fakeRunner) Run(ctx context.Context, cmd hostcli.Command) (hostcli.Result, error) {
	if f.runFn == nil {
		panic("runFn not configured")
	}
	f.calls = append(f.calls, cmd)
	return f.runFn(ctx, cmd)
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sfdx-project.json"), []byte(descriptor), 0o644))
	return root
}

func newEnv(t *testing.T, root string, runner hostcli.Runner, format cliout.Format) (*clienv.Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{"ORGADMIN_PROJECT_DIR": root})
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	env, err := clienv.New(cfg, zaptest.NewLogger(t), clienv.Options{
		Runner:         runner,
		Out:            &out,
		Err:            &errOut,
		Format:         format,
		TargetUsername: "admin@example.com",
	})
	require.NoError(t, err)
	return env, &out, &errOut
}

func run(env *clienv.Env, args ...string) error {
	cmd := Command()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(clienv.WithEnv(context.Background(), env))
}

func requireProjectUntouched(t *testing.T, root string) {
	t.Helper()
	got, err := os.ReadFile(filepath.Join(root, "sfdx-project.json"))
	require.NoError(t, err)
	require.Equal(t, descriptor, string(got))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasPrefix(e.Name(), themesservice.ScratchPrefix), "scratch dir %s left behind", e.Name())
	}
}

func TestActivateDeploysSettingsAndRestoresProject(t *testing.T) {
	root := newProject(t)
	runner := &fakeRunner{runFn: func(_ context.Context, cmd hostcli.Command) (hostcli.Result, error) {
		require.Equal(t, "force:source:deploy", cmd.Args[0])
		require.Equal(t, "-p", cmd.Args[1])
		scratch := cmd.Args[2]
		require.True(t, strings.HasPrefix(scratch, themesservice.ScratchPrefix+"-"))
		require.Equal(t, []string{"-u", "admin@example.com", "--json"}, cmd.Args[3:])

		swapped, err := os.ReadFile(filepath.Join(cmd.Dir, "sfdx-project.json"))
		require.NoError(t, err)
		require.Contains(t, string(swapped), `"path": "`+scratch+`"`)

		settings, err := os.ReadFile(filepath.Join(cmd.Dir, scratch, "main", "default", "settings", "LightningExperience.settings-meta.xml"))
		require.NoError(t, err)
		require.Contains(t, string(settings), "<activeThemeName>Midnight</activeThemeName>")

		return hostcli.Result{Stdout: []byte(`{"status":0,"result":{"deployedSource":[{"state":"Changed","fullName":"LightningExperience","type":"Settings"}]}}`)}, nil
	}}
	env, out, _ := newEnv(t, root, runner, cliout.FormatJSON)

	require.NoError(t, run(env, "activate", "-n", "Midnight"))
	require.Len(t, runner.calls, 1)
	requireProjectUntouched(t, root)

	var envelope struct {
		Status int `json:"status"`
		Result struct {
			DeployedSource []struct {
				FullName string `json:"fullName"`
			} `json:"deployedSource"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &envelope))
	require.Equal(t, 0, envelope.Status)
	require.Len(t, envelope.Result.DeployedSource, 1)
	require.Equal(t, "LightningExperience", envelope.Result.DeployedSource[0].FullName)
}

func TestActivateAcceptsDeprecatedShowBrowser(t *testing.T) {
	root := newProject(t)
	runner := &fakeRunner{runFn: func(context.Context, hostcli.Command) (hostcli.Result, error) {
		return hostcli.Result{Stdout: []byte(`{"status":0,"result":{"deployedSource":[{"fullName":"LightningExperience"}]}}`)}, nil
	}}
	env, out, _ := newEnv(t, root, runner, cliout.FormatText)

	require.NoError(t, run(env, "activate", "--name", "Midnight", "-b"))
	require.Contains(t, out.String(), "theme activated in org")
	requireProjectUntouched(t, root)
}

func TestActivateUnconfirmedDeployPrintsHostOutput(t *testing.T) {
	const payload = `{"status":0,"result":{"deployedSource":[]}}`

	for _, tc := range []struct {
		format  cliout.Format
		wantRaw bool
	}{
		{format: cliout.FormatText, wantRaw: true},
		{format: cliout.FormatYAML, wantRaw: true},
		{format: cliout.FormatJSON, wantRaw: false},
	} {
		t.Run(string(tc.format), func(t *testing.T) {
			root := newProject(t)
			runner := &fakeRunner{runFn: func(context.Context, hostcli.Command) (hostcli.Result, error) {
				return hostcli.Result{Stdout: []byte(payload + "\n")}, nil
			}}
			env, out, errOut := newEnv(t, root, runner, tc.format)

			require.NoError(t, run(env, "activate", "-n", "Midnight"))
			requireProjectUntouched(t, root)

			if tc.wantRaw {
				require.Contains(t, errOut.String(), "did not confirm the theme change")
				require.Contains(t, errOut.String(), payload)
			} else {
				require.Empty(t, errOut.String())
				require.JSONEq(t, `{"status":0,"result":{"deployedSource":[]}}`, out.String())
			}
			if tc.format == cliout.FormatText {
				require.Contains(t, out.String(), "theme deploy finished")
			}
		})
	}
}

func TestActivateHostFailureStillCleansUp(t *testing.T) {
	root := newProject(t)
	runner := &fakeRunner{runFn: func(context.Context, hostcli.Command) (hostcli.Result, error) {
		return hostcli.Result{
			Stdout:   []byte(`{"status":1,"name":"DeployFailed","message":"no such theme"}`),
			ExitCode: 1,
		}, nil
	}}
	env, _, _ := newEnv(t, root, runner, cliout.FormatJSON)

	err := run(env, "activate", "-n", "Missing")
	require.Error(t, err)
	require.Equal(t, "DeployFailed", cliout.ErrorName(err))
	requireProjectUntouched(t, root)
}

func TestActivateRequiresName(t *testing.T) {
	root := newProject(t)
	env, _, _ := newEnv(t, root, &fakeRunner{}, cliout.FormatJSON)

	err := run(env, "activate")
	require.ErrorContains(t, err, `required flag(s) "name" not set`)
	requireProjectUntouched(t, root)
}

func TestActivateIntegration(t *testing.T) {
	cfg := orgtest.Config(t)
	root := orgtest.CreateProject(t, cfg, "testProjectThemeActivate")
	orgtest.CreateScratchOrg(t, cfg, root)

	theme := os.Getenv("ORGADMIN_TEST_THEME")
	if theme == "" {
		theme = "Lightning_Blue"
	}

	before, err := os.ReadFile(filepath.Join(root, cfg.ProjectFile))
	require.NoError(t, err)

	cfg.ProjectDir = root
	cfg.CommandTimeout = orgtest.RemoteTimeout
	var out bytes.Buffer
	env, err := clienv.New(cfg, zaptest.NewLogger(t), clienv.Options{Out: &out, Format: cliout.FormatJSON})
	require.NoError(t, err)

	require.NoError(t, run(env, "activate", "-n", theme))

	var envelope struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &envelope))
	require.Equal(t, 0, envelope.Status)

	after, err := os.ReadFile(filepath.Join(root, cfg.ProjectFile))
	require.NoError(t, err)
	require.Equal(t, before, after)
}
