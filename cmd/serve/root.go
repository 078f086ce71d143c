package serve

import (
	"context"
	cmdUtil "github.com/ValentinKolb/slashdb/cmd/util"
	"github.com/ValentinKolb/slashdb/server"
	"github.com/ValentinKolb/slashdb/server/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the slashdb query server",
		Long:    `Start the slashdb query server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SLASHDB_<flag> (e.g. SLASHDB_WATCH_DEBOUNCE=500)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080)"))

	key = "watch"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Reload all databases when fragment files below the root change"))

	key = "watch-debounce"
	ServeCmd.PersistentFlags().Int64(key, 250, cmdUtil.WrapString("Milliseconds to wait for further changes before reloading (only with --watch)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	loaderConfig := cmdUtil.GetLoaderConfig()
	serveCmdConfig.Root = loaderConfig.Root
	serveCmdConfig.Extension = loaderConfig.Extension
	serveCmdConfig.Relaxed = loaderConfig.Relaxed
	serveCmdConfig.Watch = viper.GetBool("watch")
	serveCmdConfig.WatchDebounceMs = viper.GetInt64("watch-debounce")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return common.InitLoggers(serveCmdConfig.LogLevel, cmd.ErrOrStderr())
}

// run starts the query server and blocks until SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serv, err := server.New(*serveCmdConfig)
	if err != nil {
		return err
	}

	return serv.Serve(ctx)
}
