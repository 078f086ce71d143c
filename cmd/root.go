package cmd

import (
	"fmt"
	"github.com/ValentinKolb/slashdb/cmd/db"
	"github.com/ValentinKolb/slashdb/cmd/serve"
	"github.com/ValentinKolb/slashdb/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "slashdb",
		Short: "embedded hierarchical document store",
		Long: fmt.Sprintf(`slashdb (v%s)

An embedded hierarchical document store written in Go. Databases are
materialized from directories of flat fragment files, merged in creation
order, and queried through alternating collection / document namespaces.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of slashdb",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "slashdb v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(db.Commands...)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupLoaderFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
