package org

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/orgadmin/platform/go/hostcli"
	"github.com/zenGate-Global/orgadmin/platform/go/logging"
)

type scriptedRunner struct {
	outputs map[string]hostcli.Result
	calls   [][]string
}

func (r *scriptedRunner) Run(_ context.Context, cmd hostcli.Command) (hostcli.Result, error) {
	r.calls = append(r.calls, cmd.Args)
	res, ok := r.outputs[cmd.Args[0]]
	if !ok {
		return hostcli.Result{}, errors.New("unexpected command " + cmd.Args[0])
	}
	return res, nil
}

func newTestStore(t *testing.T, outputs map[string]string) (*Store, *scriptedRunner, context.Context) {
	t.Helper()
	results := make(map[string]hostcli.Result, len(outputs))
	for k, v := range outputs {
		results[k] = hostcli.Result{Stdout: []byte(v)}
	}
	runner := &scriptedRunner{outputs: results}
	ctx := logging.WithLogger(context.Background(), zaptest.NewLogger(t))
	return NewStore(hostcli.NewClient(runner, hostcli.ClientConfig{})), runner, ctx
}

func TestDisplayPassesTarget(t *testing.T) {
	store, runner, ctx := newTestStore(t, map[string]string{
		"force:org:display": `{"status":0,"result":{"id":"00D000000000001","username":"admin@example.com","instanceUrl":"https://x.my.salesforce.com","alias":"scratch"}}`,
	})

	info, err := store.Display(ctx, "scratch")
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", info.Username)
	require.Equal(t, []string{"force:org:display", "-u", "scratch", "--json"}, runner.calls[0])

	_, err = store.Display(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"force:org:display", "--json"}, runner.calls[1])
}

func TestDisplayWithoutUsername(t *testing.T) {
	store, _, ctx := newTestStore(t, map[string]string{
		"force:org:display": `{"status":0,"result":{"id":"00D000000000001"}}`,
	})
	_, err := store.Display(ctx, "")
	require.Error(t, err)
}

func TestQueryDecodesRecords(t *testing.T) {
	store, runner, ctx := newTestStore(t, map[string]string{
		"force:data:soql:query": `{"status":0,"result":{"totalSize":1,"done":true,"records":[{"Id":"005000000000001","Username":"a@b.c"}]}}`,
	})

	type user struct {
		ID       string `json:"Id"`
		Username string `json:"Username"`
	}
	users, err := Query[user](ctx, store, "SELECT Id, Username FROM User", "")
	require.NoError(t, err)
	require.Equal(t, []user{{ID: "005000000000001", Username: "a@b.c"}}, users)
	require.Equal(t, []string{"force:data:soql:query", "-q", "SELECT Id, Username FROM User", "--json"}, runner.calls[0])

	_, err = Query[user](ctx, store, " ", "")
	require.Error(t, err)
}

func TestCreateRecord(t *testing.T) {
	store, runner, ctx := newTestStore(t, map[string]string{
		"force:data:record:create": `{"status":0,"result":{"id":"0Pa000000000001","success":true,"errors":[]}}`,
	})

	id, err := store.CreateRecord(ctx, "PermissionSetAssignment", map[string]string{
		"PermissionSetId": "0PS000000000001",
		"AssigneeId":      "005000000000001",
	}, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, "0Pa000000000001", id)
	require.Equal(t, []string{
		"force:data:record:create", "-s", "PermissionSetAssignment",
		"-v", "AssigneeId=005000000000001 PermissionSetId=0PS000000000001",
		"-u", "admin@example.com", "--json",
	}, runner.calls[0])
}

func TestCreateRecordRejected(t *testing.T) {
	store, _, ctx := newTestStore(t, map[string]string{
		"force:data:record:create": `{"status":0,"result":{"id":"","success":false,"errors":[{"statusCode":"DUPLICATE_VALUE","message":"duplicate"}]}}`,
	})

	_, err := store.CreateRecord(ctx, "PermissionSetAssignment", map[string]string{"AssigneeId": "x"}, "")
	require.ErrorContains(t, err, "DUPLICATE_VALUE")

	_, err = store.CreateRecord(ctx, "", map[string]string{"AssigneeId": "x"}, "")
	require.Error(t, err)
	_, err = store.CreateRecord(ctx, "Account", nil, "")
	require.Error(t, err)
}

func TestDeploySource(t *testing.T) {
	store, runner, ctx := newTestStore(t, map[string]string{
		"force:source:deploy": `{"status":0,"result":{"deployedSource":[{"state":"Add","fullName":"LightningExperience","type":"Settings","filePath":"tmp/main/default/settings/LightningExperience.settings-meta.xml"}]}}`,
	})

	res, err := store.DeploySource(ctx, "tmp", "")
	require.NoError(t, err)
	require.Len(t, res.DeployedSource, 1)
	require.Equal(t, "Settings", res.DeployedSource[0].Type)
	require.Equal(t, 0, res.Response.Status)
	require.Equal(t, []string{"force:source:deploy", "-p", "tmp", "--json"}, runner.calls[0])
}

func TestDeploySourceFailureKeepsResponse(t *testing.T) {
	runner := &scriptedRunner{outputs: map[string]hostcli.Result{
		"force:source:deploy": {Stdout: []byte(`{"status":1,"name":"DeployFailed","message":"bad theme"}`), ExitCode: 1},
	}}
	store := NewStore(hostcli.NewClient(runner, hostcli.ClientConfig{}))

	res, err := store.DeploySource(context.Background(), "tmp", "")
	var cmdErr *hostcli.CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, "DeployFailed", res.Response.Name)
}

func TestFormatValuesAndQuoteLiteral(t *testing.T) {
	require.Equal(t, "Name='Acme Corp' Type=Customer", FormatValues(map[string]string{"Type": "Customer", "Name": "Acme Corp"}))
	require.Equal(t, `Empty='' Note='it\'s'`, FormatValues(map[string]string{"Note": "it's", "Empty": ""}))

	require.Equal(t, `'AccountRead'`, QuoteLiteral("AccountRead"))
	require.Equal(t, `'O\'Brien'`, QuoteLiteral("O'Brien"))
	require.Equal(t, `'back\\slash'`, QuoteLiteral(`back\slash`))
}
