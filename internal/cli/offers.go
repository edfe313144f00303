package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/wallet"
)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "Create, accept and cancel NFT offers",
}

var (
	offerSigner      string
	offerDrops       string
	offerDestination string
	offerOwner       string
	offerExpiresIn   time.Duration
)

func offerExpiration() *uint32 {
	if offerExpiresIn <= 0 {
		return nil
	}
	exp := ledger.ExpirationAfter(offerExpiresIn)
	return &exp
}

// submitAs runs an intent with the flagged signer and prints the result.
func submitAs(cmd *cobra.Command, intent wallet.Intent) error {
	if offerSigner == "" {
		return errors.New("--signer is required")
	}

	store, _, err := openKeystore()
	if err != nil {
		return err
	}
	signer, err := resolveSigner(store, offerSigner)
	store.Close()
	if err != nil {
		return err
	}

	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	conf, err := e.service.SubmitIntent(cmd.Context(), signer, intent)
	var partial *wallet.PartialCleanupError
	if errors.As(err, &partial) {
		fmt.Printf("validated in ledger %d: %s\n", conf.LedgerIndex, conf.Hash)
		fmt.Printf("warning: %v\n", partial)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("validated in ledger %d: %s\n", conf.LedgerIndex, conf.Hash)
	return nil
}

var offersCreateSellCmd = &cobra.Command{
	Use:   "create-sell <token-id>",
	Short: "Offer one of your tokens for sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if offerDrops == "" {
			return errors.New("--drops is required")
		}
		return submitAs(cmd, wallet.SellOfferIntent{
			TokenID:     args[0],
			Amount:      ledger.XRPAmount(offerDrops),
			Destination: offerDestination,
			Expiration:  offerExpiration(),
		})
	},
}

var offersCreateBuyCmd = &cobra.Command{
	Use:   "create-buy <token-id>",
	Short: "Bid on a token owned by another account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if offerDrops == "" {
			return errors.New("--drops is required")
		}
		if offerOwner == "" {
			return errors.New("--owner is required")
		}
		return submitAs(cmd, wallet.BuyOfferIntent{
			TokenID:    args[0],
			Owner:      offerOwner,
			Amount:     ledger.XRPAmount(offerDrops),
			Expiration: offerExpiration(),
		})
	},
}

var acceptSell bool

var offersAcceptCmd = &cobra.Command{
	Use:   "accept <token-id> <offer-id>",
	Short: "Accept a standing offer and clean up the rest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitAs(cmd, wallet.AcceptOfferIntent{
			TokenID: args[0],
			OfferID: args[1],
			Sell:    acceptSell,
		})
	},
}

var offersCancelCmd = &cobra.Command{
	Use:   "cancel <offer-id>...",
	Short: "Cancel offers in one transaction",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitAs(cmd, wallet.CancelOffersIntent{OfferIDs: args})
	},
}

func formatAmount(offer ledger.Offer) string {
	if offer.Amount.IOU != nil {
		return fmt.Sprintf("%s %s/%s", offer.Amount.IOU.Value, offer.Amount.IOU.Currency, offer.Amount.IOU.Issuer)
	}
	return offer.Amount.Drops + " drops"
}

func init() {
	for _, cmd := range []*cobra.Command{offersCreateSellCmd, offersCreateBuyCmd, offersAcceptCmd, offersCancelCmd} {
		cmd.Flags().StringVar(&offerSigner, "signer", "", "signing address from the keystore")
	}
	offersCreateSellCmd.Flags().StringVar(&offerDrops, "drops", "", "sale price in drops")
	offersCreateSellCmd.Flags().StringVar(&offerDestination, "destination", "", "restrict the offer to one buyer")
	offersCreateSellCmd.Flags().DurationVar(&offerExpiresIn, "expires-in", 0, "offer lifetime (e.g. 24h)")
	offersCreateBuyCmd.Flags().StringVar(&offerDrops, "drops", "", "bid in drops")
	offersCreateBuyCmd.Flags().StringVar(&offerOwner, "owner", "", "current owner of the token")
	offersCreateBuyCmd.Flags().DurationVar(&offerExpiresIn, "expires-in", 0, "offer lifetime (e.g. 24h)")
	offersAcceptCmd.Flags().BoolVar(&acceptSell, "sell", false, "the referenced offer is a sell offer")

	offersCmd.AddCommand(offersCreateSellCmd, offersCreateBuyCmd, offersAcceptCmd, offersCancelCmd)
	rootCmd.AddCommand(offersCmd)
}
