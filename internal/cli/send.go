package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/wallet"
)

var (
	sendDrops string
	sendTag   uint32
)

var sendCmd = &cobra.Command{
	Use:   "send <destination>",
	Short: "Send XRP to another account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendDrops == "" {
			return errors.New("--drops is required")
		}
		intent := wallet.PaymentIntent{
			Destination: args[0],
			Amount:      ledger.XRPAmount(sendDrops),
		}
		if cmd.Flags().Changed("tag") {
			tag := sendTag
			intent.DestinationTag = &tag
		}
		return submitAs(cmd, intent)
	},
}

func init() {
	sendCmd.Flags().StringVar(&offerSigner, "signer", "", "signing address from the keystore")
	sendCmd.Flags().StringVar(&sendDrops, "drops", "", "amount in drops")
	sendCmd.Flags().Uint32Var(&sendTag, "tag", 0, "destination tag")
	rootCmd.AddCommand(sendCmd)
}
