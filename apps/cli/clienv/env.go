// Package clienv carries the per-invocation dependencies from the root command to its subcommands.
package clienv

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/zenGate-Global/orgadmin/platform/go/cliout"
	"github.com/zenGate-Global/orgadmin/platform/go/config"
	"github.com/zenGate-Global/orgadmin/platform/go/hostcli"
	"github.com/zenGate-Global/orgadmin/platform/go/org"
)

// Env is what a leaf command needs to run.
type Env struct {
	Config         config.Config
	Logger         *zap.Logger
	Printer        cliout.Printer
	Store          *org.Store
	TargetUsername string
	DescriptorPath string
}

// Options tweaks Env construction.
type Options struct {
	// Runner replaces the os/exec runner, e.g. in tests.
	Runner hostcli.Runner
	Out    io.Writer
	Err    io.Writer
	Format cliout.Format
	// TargetUsername overrides Config.DefaultUsername.
	TargetUsername string
}

// New wires the host client, org store and printer from cfg.
func New(cfg config.Config, logger *zap.Logger, opts Options) (*Env, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	descriptorPath, err := cfg.DescriptorPath()
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(descriptorPath)

	runner := opts.Runner
	if runner == nil {
		runner = hostcli.ExecRunner{Timeout: cfg.CommandTimeout, MaxOutputBytes: cfg.MaxOutputBytes}
	}
	client := hostcli.NewClient(runner, hostcli.ClientConfig{Binary: cfg.HostBinary, Dir: root})

	out, errOut := opts.Out, opts.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	format := opts.Format
	if format == "" {
		format = cliout.FormatText
	}

	target := opts.TargetUsername
	if target == "" {
		target = cfg.DefaultUsername
	}

	return &Env{
		Config:         cfg,
		Logger:         logger,
		Printer:        cliout.Printer{Out: out, Err: errOut, Format: format},
		Store:          org.NewStore(client),
		TargetUsername: target,
		DescriptorPath: descriptorPath,
	}, nil
}

type ctxKey struct{}

// WithEnv stores env on the context.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, ctxKey{}, env)
}

// FromContext returns the Env installed by the root command.
func FromContext(ctx context.Context) (*Env, error) {
	if ctx == nil {
		return nil, errors.New("command context is missing")
	}
	env, ok := ctx.Value(ctxKey{}).(*Env)
	if !ok || env == nil {
		return nil, errors.New("command environment is not initialized")
	}
	return env, nil
}
