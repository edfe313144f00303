package cli

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	addresscodec "github.com/LeJamon/goXRPLwallet/internal/codec/address-codec"
	"github.com/LeJamon/goXRPLwallet/internal/keystore"
	"github.com/LeJamon/goXRPLwallet/internal/wallet"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage signing keys in the local keystore",
}

var keysGenerateAlgorithm string

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new seed and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		algorithm := addresscodec.AlgorithmSECP256K1
		name := "secp256k1"
		if keysGenerateAlgorithm == "ed25519" {
			algorithm = addresscodec.AlgorithmED25519
			name = "ed25519"
		} else if keysGenerateAlgorithm != "" && keysGenerateAlgorithm != "secp256k1" {
			return fmt.Errorf("unknown algorithm %q", keysGenerateAlgorithm)
		}

		var entropy [16]byte
		if _, err := rand.Read(entropy[:]); err != nil {
			return err
		}
		seed, err := addresscodec.EncodeSeed(entropy, algorithm)
		if err != nil {
			return err
		}
		signer, err := wallet.NewSignerFromSeed(seed)
		if err != nil {
			return err
		}

		store, _, err := openKeystore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Put(keystore.Record{
			Address:   signer.Address(),
			Seed:      seed,
			Algorithm: name,
		}); err != nil {
			return err
		}
		fmt.Printf("address: %s\nseed:    %s\n", signer.Address(), seed)
		return nil
	},
}

var keysImportCmd = &cobra.Command{
	Use:   "import <seed>",
	Short: "Import an existing family seed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := wallet.NewSignerFromSeed(args[0])
		if err != nil {
			return err
		}
		name := "secp256k1"
		if signer.Algorithm() == addresscodec.AlgorithmED25519 {
			name = "ed25519"
		}

		store, _, err := openKeystore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Put(keystore.Record{
			Address:   signer.Address(),
			Seed:      args[0],
			Algorithm: name,
		}); err != nil {
			return err
		}
		fmt.Printf("imported %s\n", signer.Address())
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openKeystore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List()
		if err != nil {
			return err
		}
		for _, record := range records {
			accountID, err := addresscodec.DecodeClassicAddressToAccountID(record.Address)
			if err != nil {
				continue
			}
			xaddr := addresscodec.EncodeXAddress(accountID, nil, cfg.Testnet)
			fmt.Printf("%s  %s  %s\n", record.Address, xaddr, record.Algorithm)
		}
		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <address>",
	Short: "Remove a stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openKeystore()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(args[0])
	},
}

func init() {
	keysGenerateCmd.Flags().StringVar(&keysGenerateAlgorithm, "algorithm", "secp256k1", "key algorithm (secp256k1 or ed25519)")
	keysCmd.AddCommand(keysGenerateCmd, keysImportCmd, keysListCmd, keysDeleteCmd)
	rootCmd.AddCommand(keysCmd)
}
