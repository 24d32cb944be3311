package org

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zenGate-Global/orgadmin/platform/go/hostcli"
)

// TargetUsernameFlag selects the org a host command runs against.
const TargetUsernameFlag = "-u"

// Store exposes the host tool's data and deploy commands as typed calls.
type Store struct {
	client *hostcli.Client
}

// NewStore constructs a Store backed by the host tool client.
func NewStore(client *hostcli.Client) *Store {
	if client == nil {
		panic("hostcli client is required")
	}
	return &Store{client: client}
}

// Info is the subset of `force:org:display` the commands rely on.
type Info struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	InstanceURL string `json:"instanceUrl"`
	Alias       string `json:"alias,omitempty"`
}

// Display describes the target org, resolving aliases and the host tool's default org.
func (s *Store) Display(ctx context.Context, target string) (Info, error) {
	resp, err := s.client.RunJSON(ctx, withTarget([]string{"force:org:display"}, target)...)
	if err != nil {
		return Info{}, fmt.Errorf("display org: %w", err)
	}
	info, err := hostcli.Decode[Info](resp)
	if err != nil {
		return Info{}, err
	}
	if strings.TrimSpace(info.Username) == "" {
		return Info{}, fmt.Errorf("display org: host reported no username")
	}
	return info, nil
}

type queryResult[T any] struct {
	TotalSize int  `json:"totalSize"`
	Done      bool `json:"done"`
	Records   []T  `json:"records"`
}

// Query runs a SOQL query and decodes the records into T.
func Query[T any](ctx context.Context, s *Store, soql, target string) ([]T, error) {
	if strings.TrimSpace(soql) == "" {
		return nil, fmt.Errorf("soql query is required")
	}
	resp, err := s.client.RunJSON(ctx, withTarget([]string{"force:data:soql:query", "-q", soql}, target)...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	res, err := hostcli.Decode[queryResult[T]](resp)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// SaveError is a per-record failure reported by a create call.
type SaveError struct {
	StatusCode string   `json:"statusCode"`
	Message    string   `json:"message"`
	Fields     []string `json:"fields"`
}

type createResult struct {
	ID      string      `json:"id"`
	Success bool        `json:"success"`
	Errors  []SaveError `json:"errors"`
}

// CreateRecord inserts one sObject record and returns its id.
func (s *Store) CreateRecord(ctx context.Context, sobject string, values map[string]string, target string) (string, error) {
	if strings.TrimSpace(sobject) == "" {
		return "", fmt.Errorf("sobject type is required")
	}
	if len(values) == 0 {
		return "", fmt.Errorf("record values are required")
	}

	args := []string{"force:data:record:create", "-s", sobject, "-v", FormatValues(values)}
	resp, err := s.client.RunJSON(ctx, withTarget(args, target)...)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", sobject, err)
	}
	res, err := hostcli.Decode[createResult](resp)
	if err != nil {
		return "", err
	}
	if !res.Success || res.ID == "" {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, e.StatusCode+": "+e.Message)
		}
		return "", fmt.Errorf("create %s rejected: %s", sobject, strings.Join(msgs, "; "))
	}
	return res.ID, nil
}

// DeployedComponent is one entry of a source deploy result.
type DeployedComponent struct {
	State    string `json:"state"`
	FullName string `json:"fullName"`
	Type     string `json:"type"`
	FilePath string `json:"filePath"`
}

// DeployResult is the decoded `force:source:deploy` payload plus the host envelope.
type DeployResult struct {
	DeployedSource []DeployedComponent `json:"deployedSource"`

	Response hostcli.Response `json:"-"`
}

// DeploySource deploys the source tree at path (relative to the project root).
// On failure the returned DeployResult still carries the host response when one was decoded.
func (s *Store) DeploySource(ctx context.Context, path, target string) (DeployResult, error) {
	if strings.TrimSpace(path) == "" {
		return DeployResult{}, fmt.Errorf("source path is required")
	}
	resp, err := s.client.RunJSON(ctx, withTarget([]string{"force:source:deploy", "-p", path}, target)...)
	if err != nil {
		return DeployResult{Response: resp}, fmt.Errorf("deploy %s: %w", path, err)
	}
	res, err := hostcli.Decode[DeployResult](resp)
	if err != nil {
		return DeployResult{Response: resp}, err
	}
	res.Response = resp
	return res, nil
}

// FormatValues renders field values in the host tool's "Key=Value Key2='Value two'" syntax,
// ordered by key.
func FormatValues(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := values[k]
		if v == "" || strings.ContainsAny(v, " \t'\"") {
			v = "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

func withTarget(args []string, target string) []string {
	target = strings.TrimSpace(target)
	if target == "" {
		return args
	}
	return append(args, TargetUsernameFlag, target)
}
