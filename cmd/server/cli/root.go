package cli

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit string) error {
	return newRootCmd(version, commit).Execute()
}

func newRootCmd(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Arcade portal backend: auth, catalog and admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadLocalEnv()
		},
		RunE: serveRunE(version),
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file; environment variables take precedence")

	cmd.AddCommand(newServeCmd(version))
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newGamesCmd())
	cmd.AddCommand(newVersionCmd(version, commit))
	return cmd
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
