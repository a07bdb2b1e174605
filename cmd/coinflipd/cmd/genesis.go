package cmd

import (
	"fmt"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/block52/coinflipchain/pkg/ledger"
)

func genesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Edit and check the genesis file",
	}
	cmd.AddCommand(addBalanceCmd(), validateGenesisCmd())
	return cmd
}

func addBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-balance [address] [coins]",
		Short: "Add coins (e.g. 10000000uusdc) to an account in genesis.json",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadNodeConfig(homeDir(cmd))
			if err != nil {
				return err
			}
			if _, err := addresscodec.NewBech32Codec(cfg.Ledger.AddressPrefix).StringToBytes(args[0]); err != nil {
				return fmt.Errorf("invalid address %s: %w", args[0], err)
			}
			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return err
			}

			g, err := ledger.LoadGenesis(cfg.Ledger.GenesisFile)
			if err != nil {
				return err
			}
			found := false
			for i, b := range g.Balances {
				if b.Address == args[0] {
					g.Balances[i].Coins = b.Coins.Add(coins...)
					found = true
					break
				}
			}
			if !found {
				g.Balances = append(g.Balances, ledger.Balance{Address: args[0], Coins: coins})
			}
			if err := g.Validate(); err != nil {
				return err
			}
			return g.Save(cfg.Ledger.GenesisFile)
		},
	}
}

func validateGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check genesis.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadNodeConfig(homeDir(cmd))
			if err != nil {
				return err
			}
			g, err := ledger.LoadGenesis(cfg.Ledger.GenesisFile)
			if err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return err
			}
			if g.ChainID != cfg.Ledger.ChainID {
				return fmt.Errorf("genesis chain_id %s does not match configured %s", g.ChainID, cfg.Ledger.ChainID)
			}
			cmd.Printf("%s is valid\n", cfg.Ledger.GenesisFile)
			return nil
		},
	}
}
