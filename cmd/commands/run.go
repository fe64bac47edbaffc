package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfg "github.com/axismarkets/axis-go/cmd/config"
	"github.com/axismarkets/axis-go/node"
	"github.com/spf13/cobra"
)

// RunCmd starts the daemon with the noop ledger adapters. Real deployments
// replace node.NoopCollaborators with adapters to the token ledger and the
// payment store.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the axis daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := cfg.Load()
		if err != nil {
			return err
		}

		n, xerr := node.NewNode(conf, node.NoopCollaborators(logger), logger)
		if xerr != nil {
			return xerr
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		n.Start(ctx)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		n.Stop()
		return nil
	},
}
