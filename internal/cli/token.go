package cli

import (
	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/wallet"
)

var (
	mintTaxon        uint32
	mintURI          string
	mintTransferFee  uint16
	mintBurnable     bool
	mintTransferable bool
	mintOnlyXRP      bool

	burnOwner string
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a new token",
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := wallet.MintIntent{
			Taxon: mintTaxon,
			URI:   mintURI,
		}
		if mintTransferFee > 0 {
			fee := mintTransferFee
			intent.TransferFee = &fee
		}
		if mintBurnable {
			intent.Flags |= ledger.MintFlagBurnable
		}
		if mintTransferable {
			intent.Flags |= ledger.MintFlagTransferable
		}
		if mintOnlyXRP {
			intent.Flags |= ledger.MintFlagOnlyXRP
		}
		return submitAs(cmd, intent)
	},
}

var burnCmd = &cobra.Command{
	Use:   "burn <token-id>",
	Short: "Burn a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitAs(cmd, wallet.BurnIntent{TokenID: args[0], Owner: burnOwner})
	},
}

func init() {
	mintCmd.Flags().StringVar(&offerSigner, "signer", "", "signing address from the keystore")
	mintCmd.Flags().Uint32Var(&mintTaxon, "taxon", 0, "collection taxon")
	mintCmd.Flags().StringVar(&mintURI, "uri", "", "token content URI")
	mintCmd.Flags().Uint16Var(&mintTransferFee, "transfer-fee", 0, "resale fee in 1/100000 units (requires --transferable)")
	mintCmd.Flags().BoolVar(&mintBurnable, "burnable", false, "let the issuer burn the token later")
	mintCmd.Flags().BoolVar(&mintTransferable, "transferable", true, "allow transfers between non-issuer accounts")
	mintCmd.Flags().BoolVar(&mintOnlyXRP, "only-xrp", false, "restrict offers to XRP")

	burnCmd.Flags().StringVar(&offerSigner, "signer", "", "signing address from the keystore")
	burnCmd.Flags().StringVar(&burnOwner, "owner", "", "token holder when the issuer burns")

	rootCmd.AddCommand(mintCmd, burnCmd)
}
