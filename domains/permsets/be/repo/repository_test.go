package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/orgadmin/platform/go/hostcli"
	"github.com/zenGate-Global/orgadmin/platform/go/org"
)

type recordingRunner struct {
	stdout string
	args   []string
}

func (r *recordingRunner) Run(_ context.Context, cmd hostcli.Command) (hostcli.Result, error) {
	r.args = cmd.Args
	return hostcli.Result{Stdout: []byte(r.stdout)}, nil
}

func newRepo(stdout string) (Repository, *recordingRunner) {
	runner := &recordingRunner{stdout: stdout}
	return NewHostRepository(org.NewStore(hostcli.NewClient(runner, hostcli.ClientConfig{}))), runner
}

func TestUserQuery(t *testing.T) {
	q, err := UserQuery(UserFilter{FirstName: "Integration", LastName: "User"})
	require.NoError(t, err)
	require.Equal(t, "SELECT Id, Username, FirstName, LastName FROM User WHERE FirstName = 'Integration' AND LastName = 'User'", q)

	q, err = UserQuery(UserFilter{Username: "o'neil@example.com"})
	require.NoError(t, err)
	require.Equal(t, `SELECT Id, Username, FirstName, LastName FROM User WHERE Username = 'o\'neil@example.com'`, q)

	_, err = UserQuery(UserFilter{FirstName: " "})
	require.Error(t, err)
}

func TestPermissionSetAndAssignmentQueries(t *testing.T) {
	require.Equal(t, "SELECT Id, Name, Label FROM PermissionSet WHERE Name = 'AccountRead'", PermissionSetQuery(" AccountRead "))
	require.Equal(t,
		"SELECT Id, AssigneeId, PermissionSetId FROM PermissionSetAssignment WHERE AssigneeId = '005A' AND PermissionSetId = '0PSB'",
		AssignmentQuery("005A", "0PSB"),
	)
}

func TestFindUsersRunsQuery(t *testing.T) {
	r, runner := newRepo(`{"status":0,"result":{"totalSize":1,"done":true,"records":[{"attributes":{"type":"User"},"Id":"005A","Username":"iu@example.com","FirstName":"Integration","LastName":"User"}]}}`)

	users, err := r.FindUsers(context.Background(), UserFilter{LastName: "User"}, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, []User{{ID: "005A", Username: "iu@example.com", FirstName: "Integration", LastName: "User"}}, users)
	require.Equal(t, "force:data:soql:query", runner.args[0])
	require.Equal(t, []string{"-u", "admin@example.com", "--json"}, runner.args[len(runner.args)-3:])
}

func TestCreateAssignment(t *testing.T) {
	r, runner := newRepo(`{"status":0,"result":{"id":"0PaX","success":true,"errors":[]}}`)

	id, err := r.CreateAssignment(context.Background(), "005A", "0PSB", "")
	require.NoError(t, err)
	require.Equal(t, "0PaX", id)
	require.Equal(t, []string{
		"force:data:record:create", "-s", "PermissionSetAssignment",
		"-v", "AssigneeId=005A PermissionSetId=0PSB", "--json",
	}, runner.args)
}

func TestOrgUsername(t *testing.T) {
	r, _ := newRepo(`{"status":0,"result":{"username":"test-abc@example.com"}}`)

	username, err := r.OrgUsername(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "test-abc@example.com", username)
}
