package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/zenGate-Global/orgadmin/platform/go/org"
)

// User is the subset of the User sObject used to pick an assignee.
type User struct {
	ID        string `json:"Id"`
	Username  string `json:"Username"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
}

// PermissionSet is the subset of the PermissionSet sObject used for assignment.
type PermissionSet struct {
	ID    string `json:"Id"`
	Name  string `json:"Name"`
	Label string `json:"Label"`
}

// Assignment is a PermissionSetAssignment record.
type Assignment struct {
	ID              string `json:"Id"`
	AssigneeID      string `json:"AssigneeId"`
	PermissionSetID string `json:"PermissionSetId"`
}

// UserFilter narrows the User query. Empty fields are ignored.
type UserFilter struct {
	Username  string
	FirstName string
	LastName  string
}

// Repository defines the org operations required by the permission set service.
type Repository interface {
	OrgUsername(ctx context.Context, targetUsername string) (string, error)
	FindUsers(ctx context.Context, filter UserFilter, targetUsername string) ([]User, error)
	FindPermissionSets(ctx context.Context, name, targetUsername string) ([]PermissionSet, error)
	FindAssignments(ctx context.Context, assigneeID, permissionSetID, targetUsername string) ([]Assignment, error)
	CreateAssignment(ctx context.Context, assigneeID, permissionSetID, targetUsername string) (string, error)
}

type hostRepository struct {
	store *org.Store
}

// NewHostRepository constructs a repository backed by the host tool.
func NewHostRepository(store *org.Store) Repository {
	if store == nil {
		panic("org store is required")
	}
	return &hostRepository{store: store}
}

func (r *hostRepository) OrgUsername(ctx context.Context, targetUsername string) (string, error) {
	info, err := r.store.Display(ctx, targetUsername)
	if err != nil {
		return "", err
	}
	return info.Username, nil
}

func (r *hostRepository) FindUsers(ctx context.Context, filter UserFilter, targetUsername string) ([]User, error) {
	soql, err := UserQuery(filter)
	if err != nil {
		return nil, err
	}
	return org.Query[User](ctx, r.store, soql, targetUsername)
}

func (r *hostRepository) FindPermissionSets(ctx context.Context, name, targetUsername string) ([]PermissionSet, error) {
	return org.Query[PermissionSet](ctx, r.store, PermissionSetQuery(name), targetUsername)
}

func (r *hostRepository) FindAssignments(ctx context.Context, assigneeID, permissionSetID, targetUsername string) ([]Assignment, error) {
	return org.Query[Assignment](ctx, r.store, AssignmentQuery(assigneeID, permissionSetID), targetUsername)
}

func (r *hostRepository) CreateAssignment(ctx context.Context, assigneeID, permissionSetID, targetUsername string) (string, error) {
	return r.store.CreateRecord(ctx, "PermissionSetAssignment", map[string]string{
		"AssigneeId":      assigneeID,
		"PermissionSetId": permissionSetID,
	}, targetUsername)
}

// UserQuery builds the SOQL selecting users matching filter. At least one field must be set.
func UserQuery(filter UserFilter) (string, error) {
	var conds []string
	if v := strings.TrimSpace(filter.Username); v != "" {
		conds = append(conds, "Username = "+org.QuoteLiteral(v))
	}
	if v := strings.TrimSpace(filter.FirstName); v != "" {
		conds = append(conds, "FirstName = "+org.QuoteLiteral(v))
	}
	if v := strings.TrimSpace(filter.LastName); v != "" {
		conds = append(conds, "LastName = "+org.QuoteLiteral(v))
	}
	if len(conds) == 0 {
		return "", fmt.Errorf("user filter is empty")
	}
	return "SELECT Id, Username, FirstName, LastName FROM User WHERE " + strings.Join(conds, " AND "), nil
}

// PermissionSetQuery builds the SOQL selecting a permission set by API name.
func PermissionSetQuery(name string) string {
	return "SELECT Id, Name, Label FROM PermissionSet WHERE Name = " + org.QuoteLiteral(strings.TrimSpace(name))
}

// AssignmentQuery builds the SOQL selecting existing assignments of a permission set to a user.
func AssignmentQuery(assigneeID, permissionSetID string) string {
	return "SELECT Id, AssigneeId, PermissionSetId FROM PermissionSetAssignment WHERE AssigneeId = " +
		org.QuoteLiteral(assigneeID) + " AND PermissionSetId = " + org.QuoteLiteral(permissionSetID)
}
