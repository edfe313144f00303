package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	addresscodec "github.com/LeJamon/goXRPLwallet/internal/codec/address-codec"
	"github.com/LeJamon/goXRPLwallet/internal/nft"
)

var nftsCmd = &cobra.Command{
	Use:   "nfts",
	Short: "Inspect NFT ownership",
}

var nftsListCmd = &cobra.Command{
	Use:   "list <address>",
	Short: "List every token an account owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		tokens, err := e.service.Resync(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, token := range tokens {
			fmt.Printf("%s  taxon=%d seq=%d flags=%#04x\n",
				token.TokenID, token.Fields.Taxon, token.Fields.Sequence, token.Fields.Flags)
		}
		fmt.Printf("%d token(s)\n", len(tokens))
		return nil
	},
}

var nftsShowCmd = &cobra.Command{
	Use:   "show <token-id>",
	Short: "Decode a token ID and list its standing offers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := nft.ParseTokenID(args[0])
		if err != nil {
			return err
		}
		token := nft.Decode(id)

		fmt.Printf("issuer:       %s\n", addresscodec.EncodeAccountID(token.Issuer))
		fmt.Printf("taxon:        %d\n", token.Taxon)
		fmt.Printf("sequence:     %d\n", token.Sequence)
		fmt.Printf("transfer fee: %d\n", token.TransferFee)
		fmt.Printf("burnable:     %v\n", token.IsBurnable())
		fmt.Printf("transferable: %v\n", token.IsTransferable())

		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		offers, err := e.service.Offers(cmd.Context(), id.String())
		if err != nil {
			return err
		}
		fmt.Printf("sell offers:  %d\n", len(offers.Sell))
		for _, offer := range offers.Sell {
			fmt.Printf("  %s  %s\n", offer.OfferID, formatAmount(offer))
		}
		fmt.Printf("buy offers:   %d\n", len(offers.Buy))
		for _, offer := range offers.Buy {
			fmt.Printf("  %s  %s\n", offer.OfferID, formatAmount(offer))
		}
		return nil
	},
}

func init() {
	nftsCmd.AddCommand(nftsListCmd, nftsShowCmd)
	rootCmd.AddCommand(nftsCmd)
}
