package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zenGate-Global/orgadmin/domains/permsets/be/repo"
	"github.com/zenGate-Global/orgadmin/platform/go/logging"
)

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

// Domain sentinel errors.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrAmbiguousUser         = errors.New("more than one user matches")
	ErrPermissionSetNotFound = errors.New("permission set not found")
)

// AssignInput names the permission set and, optionally, the assignee.
// Without a first or last name the target org's own user is the assignee.
type AssignInput struct {
	PermissionSetName string
	FirstName         string
	LastName          string
	TargetUsername    string
}

// Assignment is the resulting PermissionSetAssignment.
type Assignment struct {
	ID              string
	AssigneeID      string
	PermissionSetID string
	AlreadyAssigned bool
}

// Service defines the permission set operations.
type Service interface {
	Assign(ctx context.Context, input AssignInput) (Assignment, error)
}

type service struct {
	repo repo.Repository
}

// New constructs a permission set Service backed by the provided repository.
func New(r repo.Repository) Service {
	if r == nil {
		panic("permsets repository is required")
	}
	return &service{repo: r}
}

func (s *service) Assign(ctx context.Context, input AssignInput) (Assignment, error) {
	name := strings.TrimSpace(input.PermissionSetName)
	if name == "" {
		return Assignment{}, &ValidationError{Fields: FieldErrors{"name": {"permission set name is required"}}}
	}

	logger := logging.FromContextOrNop(ctx).With(zap.String("permission_set", name))

	user, err := s.resolveAssignee(ctx, input)
	if err != nil {
		return Assignment{}, err
	}

	permsets, err := s.repo.FindPermissionSets(ctx, name, input.TargetUsername)
	if err != nil {
		return Assignment{}, fmt.Errorf("lookup permission set: %w", err)
	}
	if len(permsets) == 0 {
		return Assignment{}, fmt.Errorf("%w: %s", ErrPermissionSetNotFound, name)
	}
	permset := permsets[0]

	// check-or-create so reruns are idempotent
	existing, err := s.repo.FindAssignments(ctx, user.ID, permset.ID, input.TargetUsername)
	if err != nil {
		return Assignment{}, fmt.Errorf("lookup assignment: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("permission set already assigned", zap.String("assignee", user.Username))
		return Assignment{
			ID:              existing[0].ID,
			AssigneeID:      user.ID,
			PermissionSetID: permset.ID,
			AlreadyAssigned: true,
		}, nil
	}

	id, err := s.repo.CreateAssignment(ctx, user.ID, permset.ID, input.TargetUsername)
	if err != nil {
		return Assignment{}, fmt.Errorf("assign permission set: %w", err)
	}
	logger.Info("permission set assigned", zap.String("assignee", user.Username), zap.String("assignment_id", id))

	return Assignment{ID: id, AssigneeID: user.ID, PermissionSetID: permset.ID}, nil
}

func (s *service) resolveAssignee(ctx context.Context, input AssignInput) (repo.User, error) {
	filter := repo.UserFilter{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	if filter.FirstName == "" && filter.LastName == "" {
		username, err := s.repo.OrgUsername(ctx, input.TargetUsername)
		if err != nil {
			return repo.User{}, fmt.Errorf("resolve org user: %w", err)
		}
		filter.Username = username
	}

	users, err := s.repo.FindUsers(ctx, filter, input.TargetUsername)
	if err != nil {
		return repo.User{}, fmt.Errorf("lookup user: %w", err)
	}
	switch len(users) {
	case 0:
		return repo.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, describe(filter))
	case 1:
		return users[0], nil
	default:
		return repo.User{}, fmt.Errorf("%w: %s (%d matches)", ErrAmbiguousUser, describe(filter), len(users))
	}
}

func describe(f repo.UserFilter) string {
	if f.Username != "" {
		return f.Username
	}
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}
