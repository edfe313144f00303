package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/ledger/rpcclient"
)

var watchCmd = &cobra.Command{
	Use:   "watch <address>...",
	Short: "Follow accounts and resync on every confirmed transaction",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.close()

		// Prime the local view before events start arriving.
		for _, account := range args {
			tokens, err := e.service.Resync(ctx, account)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d token(s)\n", account, len(tokens))
		}

		sub, err := e.service.Watch(ctx, args)
		if err != nil {
			return err
		}
		defer func() { _ = sub.Unwatch(context.Background()) }()

		events := rpcclient.TransactionEvents(e.client.Events())
		err = e.service.Run(ctx, events)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
