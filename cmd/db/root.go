package db

import (
	"github.com/ValentinKolb/slashdb/cmd/util"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

var Logger = logger.GetLogger("cli")

// Commands lists the database commands, they are added to the root command
var Commands = []*cobra.Command{loadCmd, getCmd, docCmd, queryCmd, appendCmd}

func init() {
	for _, cmd := range Commands {
		cmd.PreRunE = setup
	}
}

// setup binds the flags of the executed command and initializes logging
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return util.InitLoggers(cmd.ErrOrStderr())
}
