package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/spf13/cobra"

	"github.com/block52/coinflipchain/pkg/ledger"
)

const (
	flagChainID   = "chain-id"
	flagOverwrite = "overwrite"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [owner-address]",
		Short: "Write a default coinflipd.toml and genesis.json owned by owner-address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home := homeDir(cmd)
			chainID, _ := cmd.Flags().GetString(flagChainID)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			cfg := defaultNodeConfig()
			if chainID != "" {
				cfg.Ledger.ChainID = chainID
			}
			if _, err := addresscodec.NewBech32Codec(cfg.Ledger.AddressPrefix).StringToBytes(args[0]); err != nil {
				return fmt.Errorf("invalid owner address %s: %w", args[0], err)
			}

			configPath := filepath.Join(home, configFileName)
			genesisPath := resolvePath(home, cfg.Ledger.GenesisFile)
			if !overwrite {
				for _, p := range []string{configPath, genesisPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists, use --%s to replace it", p, flagOverwrite)
					}
				}
			}

			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := writeNodeConfig(configPath, cfg); err != nil {
				return err
			}

			g, err := ledger.DefaultGenesis(cfg.Ledger.ChainID, args[0])
			if err != nil {
				return err
			}
			if err := g.Save(genesisPath); err != nil {
				return err
			}

			cmd.Printf("Initialized %s in %s\n", cfg.Ledger.ChainID, home)
			return nil
		},
	}
	cmd.Flags().String(flagChainID, "", "chain id (default coinflip-local)")
	cmd.Flags().Bool(flagOverwrite, false, "replace existing config and genesis files")
	return cmd
}
