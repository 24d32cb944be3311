package root

import (
	themecmd "github.com/zenGate-Global/orgadmin/apps/cli/cmd/theme"
	usercmd "github.com/zenGate-Global/orgadmin/apps/cli/cmd/user"
)

func init() {
	Root().AddCommand(themecmd.Command())
	Root().AddCommand(usercmd.Command())
}
