// Package cli implements the xrplwallet command tree. Each command loads
// configuration, dials the node and tears the connection down when done;
// nothing here holds state between invocations beyond the keystore.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/config"
	"github.com/LeJamon/goXRPLwallet/internal/keystore"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/rpcclient"
	"github.com/LeJamon/goXRPLwallet/internal/logging"
	"github.com/LeJamon/goXRPLwallet/internal/wallet"
)

var (
	// Global flags
	configFile string
	endpoint   string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xrplwallet",
	Short: "xrplwallet - XRPL NFT wallet",
	Long: `xrplwallet is a command-line NFT wallet for the XRP Ledger: it tracks
token ownership through the on-ledger NFTokenPage index, drives sell/buy
offer workflows and keeps a watched account set in sync with the node's
transaction stream.`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "node websocket URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// env bundles everything a command needs against one connection.
type env struct {
	cfg     *config.Config
	log     *logrus.Logger
	client  *rpcclient.Client
	service *wallet.Service
}

func (e *env) close() {
	if e.client != nil {
		_ = e.client.Close()
	}
}

// setup loads config, configures logging and dials the node.
func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log, err := logging.New(level, cfg.LogJSON)
	if err != nil {
		return nil, err
	}

	client, err := rpcclient.Dial(ctx, cfg.Endpoint, log)
	if err != nil {
		return nil, err
	}
	service, err := wallet.NewService(client, log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &env{cfg: cfg, log: log, client: client, service: service}, nil
}

// openKeystore opens the configured keystore without dialing the node.
func openKeystore() (*keystore.Store, *config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	store, err := keystore.Open(cfg.KeystorePath)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// resolveSigner loads the signer for an address from the keystore.
func resolveSigner(store *keystore.Store, address string) (*wallet.Signer, error) {
	record, err := store.Get(address)
	if err != nil {
		return nil, err
	}
	signer, err := wallet.NewSignerFromSeed(record.Seed)
	if err != nil {
		return nil, err
	}
	if signer.Address() != address {
		return nil, fmt.Errorf("keystore record for %s derives %s; keystore is inconsistent",
			address, signer.Address())
	}
	return signer, nil
}
