package usercmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/orgadmin/apps/cli/clienv"
	permsetsrepo "github.com/zenGate-Global/orgadmin/domains/permsets/be/repo"
	permsetsservice "github.com/zenGate-Global/orgadmin/domains/permsets/be/service"
)

// Command groups user administration helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User utilities (permission sets)",
	}

	permset := &cobra.Command{
		Use:   "permset",
		Short: "Permission set utilities",
	}
	permset.AddCommand(assignCommand())

	cmd.AddCommand(permset)
	return cmd
}

type assignOutput struct {
	ID              string `json:"id"`
	AssigneeID      string `json:"assigneeId"`
	PermissionSetID string `json:"permissionSetId"`
	AlreadyAssigned bool   `json:"alreadyAssigned"`
}

func assignCommand() *cobra.Command {
	var (
		name      string
		firstName string
		lastName  string
	)

	c := &cobra.Command{
		Use:   "assign",
		Short: "Assign a permission set to a user, by first/last name or the target org's own user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := clienv.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			svc := permsetsservice.New(permsetsrepo.NewHostRepository(env.Store))
			a, err := svc.Assign(cmd.Context(), permsetsservice.AssignInput{
				PermissionSetName: name,
				FirstName:         firstName,
				LastName:          lastName,
				TargetUsername:    env.TargetUsername,
			})
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("permission set %s assigned (%s)", name, a.ID)
			if a.AlreadyAssigned {
				msg = fmt.Sprintf("permission set %s was already assigned (%s)", name, a.ID)
			}
			return env.Printer.Success(assignOutput{
				ID:              a.ID,
				AssigneeID:      a.AssigneeID,
				PermissionSetID: a.PermissionSetID,
				AlreadyAssigned: a.AlreadyAssigned,
			}, msg)
		},
	}

	c.Flags().StringVarP(&name, "name", "n", "", "the name of the permission set to assign")
	c.Flags().StringVarP(&firstName, "firstname", "g", "", "first name of the user to assign to")
	c.Flags().StringVarP(&lastName, "lastname", "l", "", "last name of the user to assign to")

	_ = c.MarkFlagRequired("name")

	return c
}
