package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

var logger = log.NewTMLogger(log.NewSyncWriter(os.Stdout))

var RootCmd = &cobra.Command{
	Use:   "axisd",
	Short: "AXIS governance and tokenomics daemon",
}
