package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/zenGate-Global/orgadmin/domains/themes/be/repo"
	"github.com/zenGate-Global/orgadmin/platform/go/logging"
	"github.com/zenGate-Global/orgadmin/platform/go/metadata"
	"github.com/zenGate-Global/orgadmin/platform/go/org"
	"github.com/zenGate-Global/orgadmin/platform/go/project"
)

// ScratchPrefix names the temporary source tree deployed by Activate.
const ScratchPrefix = "themeActivationTempFolder"

const settingsName = "LightningExperience"

var settingsDir = []string{"main", "default", "settings"}

// FieldErrors maps input fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for field, msgs := range v.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// ErrorName classifies the error for machine readable output.
func (v *ValidationError) ErrorName() string {
	return "ValidationError"
}

// ActivateInput selects the theme and target org.
type ActivateInput struct {
	Name           string
	TargetUsername string
}

// ActivateResult is the outcome of a theme deploy.
type ActivateResult struct {
	// Activated is true when the deploy reported exactly one deployed component.
	Activated      bool
	DeployedSource []org.DeployedComponent
	// Result is the host tool's result payload, passed through untouched.
	Result json.RawMessage
	// Output is the raw host stdout.
	Output []byte
}

// Service defines the theme operations.
type Service interface {
	Activate(ctx context.Context, input ActivateInput) (ActivateResult, error)
}

type service struct {
	repo           repo.Repository
	descriptorPath string
}

// New constructs a themes Service. descriptorPath locates the project descriptor; the
// scratch tree is created beside it.
func New(r repo.Repository, descriptorPath string) Service {
	if r == nil {
		panic("themes repository is required")
	}
	if strings.TrimSpace(descriptorPath) == "" {
		panic("project descriptor path is required")
	}
	return &service{repo: r, descriptorPath: descriptorPath}
}

// Activate deploys LightningExperienceSettings selecting input.Name. The project descriptor is
// restored and the scratch tree removed on every return path.
func (s *service) Activate(ctx context.Context, input ActivateInput) (res ActivateResult, err error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ActivateResult{}, &ValidationError{Fields: FieldErrors{"name": {"name is required"}}}
	}

	logger := logging.FromContextOrNop(ctx).With(zap.String("theme", name))

	overlay, err := project.OpenOverlay(s.descriptorPath, ScratchPrefix)
	if err != nil {
		return ActivateResult{}, fmt.Errorf("prepare project: %w", err)
	}
	defer func() {
		if cerr := overlay.Close(); cerr != nil {
			logger.Error("cleanup after theme activation failed", zap.Error(cerr))
			if err == nil {
				err = cerr
			} else {
				err = multierror.Append(err, cerr)
			}
		}
	}()

	dir, err := overlay.Scratch.EnsureDir(settingsDir...)
	if err != nil {
		return ActivateResult{}, err
	}
	settingsPath := filepath.Join(dir, metadata.SettingsFileName(settingsName))
	if err := metadata.WriteFile(settingsPath, metadata.LightningExperienceSettings(name)); err != nil {
		return ActivateResult{}, err
	}
	logger.Debug("settings file written", zap.String("path", settingsPath))

	if err := overlay.Attach(); err != nil {
		return ActivateResult{}, err
	}

	deploy, err := s.repo.DeploySource(ctx, overlay.Scratch.Name(), input.TargetUsername)
	res = ActivateResult{
		DeployedSource: deploy.DeployedSource,
		Result:         deploy.Response.Result,
		Output:         deploy.Response.Raw,
	}
	if err != nil {
		return res, err
	}

	res.Activated = deploy.Response.Status == 0 && len(deploy.DeployedSource) == 1
	if !res.Activated {
		logger.Warn("deploy did not confirm theme activation",
			zap.Int("status", deploy.Response.Status),
			zap.Int("deployed_components", len(deploy.DeployedSource)),
		)
	}
	return res, nil
}
