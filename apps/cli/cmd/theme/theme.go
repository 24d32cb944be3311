package themecmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zenGate-Global/orgadmin/apps/cli/clienv"
	themesrepo "github.com/zenGate-Global/orgadmin/domains/themes/be/repo"
	themesservice "github.com/zenGate-Global/orgadmin/domains/themes/be/service"
)

// Command groups Lightning Experience theme helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Lightning Experience theme utilities",
	}

	cmd.AddCommand(activateCommand())
	return cmd
}

func activateCommand() *cobra.Command {
	var (
		name        string
		showBrowser bool
	)

	c := &cobra.Command{
		Use:   "activate",
		Short: "Activate a LightningExperienceTheme via metadata api. Makes no permanent changes to local source",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := clienv.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			svc := themesservice.New(themesrepo.NewHostRepository(env.Store), env.DescriptorPath)

			env.Logger.Info("deploying theme settings", zap.String("theme", name))
			res, err := svc.Activate(cmd.Context(), themesservice.ActivateInput{
				Name:           name,
				TargetUsername: env.TargetUsername,
			})
			if err != nil {
				env.Printer.Raw(res.Output)
				return err
			}

			if !res.Activated {
				env.Printer.Warn("deploy finished but did not confirm the theme change; host output follows")
				env.Printer.Raw(res.Output)
				return env.Printer.Success(res.Result, "theme deploy finished")
			}
			return env.Printer.Success(res.Result, "theme activated in org")
		},
	}

	c.Flags().StringVarP(&name, "name", "n", "", "name of the theme to activate")
	c.Flags().BoolVarP(&showBrowser, "showbrowser", "b", false, "show the browser...useful for local debugging")

	_ = c.MarkFlagRequired("name")
	_ = c.Flags().MarkDeprecated("showbrowser", "This flag is no longer used")

	return c
}
