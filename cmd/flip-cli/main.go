package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

const (
	flagNode     = "node"
	flagMnemonic = "mnemonic"
	flagBlocks   = "blocks"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flip-cli",
		Short:         "Client for a coinflipd node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(flagNode, envOr("FLIP_NODE", "http://localhost:1317"), "coinflipd API URL")
	root.PersistentFlags().String(flagMnemonic, os.Getenv("FLIP_MNEMONIC"), "seed phrase of the signing account")

	root.AddCommand(
		keysCmd(),
		secretCmd(),
		commitCmd(),
		proposeCmd(),
		acceptCmd(),
		resolveCmd(),
		liquidateCmd(),
		withdrawCmd(),
		queryCmd(),
		balanceCmd(),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// session is the signing account and client of one invocation.
type session struct {
	client  *Client
	address string
}

func newSession(cmd *cobra.Command, needKey bool) (*session, error) {
	node, _ := cmd.Flags().GetString(flagNode)
	mnemonic, _ := cmd.Flags().GetString(flagMnemonic)

	if mnemonic == "" {
		if needKey {
			return nil, fmt.Errorf("no key loaded, set --%s or FLIP_MNEMONIC", flagMnemonic)
		}
		return &session{client: NewClient(node, nil)}, nil
	}

	key, err := deriveKey(mnemonic)
	if err != nil {
		return nil, err
	}
	addr, err := addressOf(key)
	if err != nil {
		return nil, err
	}
	return &session{client: NewClient(node, key), address: addr}, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "keys", Short: "Manage the signing key"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Generate a new 24-word seed phrase",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				mnemonic, err := newMnemonic()
				if err != nil {
					return err
				}
				key, err := deriveKey(mnemonic)
				if err != nil {
					return err
				}
				addr, err := addressOf(key)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{"mnemonic": mnemonic, "address": addr})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the address of the loaded seed phrase",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := newSession(cmd, true)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), s.address)
				return err
			},
		},
	)
	return cmd
}

func secretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret [heads|tails]",
		Short: "Generate a secret for side and its commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			side, err := parseSide(args[0])
			if err != nil {
				return err
			}
			secret := newSecret(side)
			return printJSON(cmd, map[string]string{
				"secret":     secret,
				"commitment": types.CommitmentOf(secret),
			})
		},
	}
}

func commitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commit [secret]",
		Short: "Print the commitment of an existing secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), types.CommitmentOf(args[0]))
			return err
		},
	}
}

func proposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propose [commitment] [coins]",
		Short: "Stake coins behind a commitment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			funds, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return err
			}
			blocks, _ := cmd.Flags().GetUint64(flagBlocks)

			var resp types.MsgProposeBetResponse
			msg := types.NewMsgProposeBet(s.address, strings.ToLower(args[0]), blocks, funds)
			if err := s.client.Post(cmd.Context(), "/tx/propose", msg, &resp); err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().Uint64(flagBlocks, 100, "blocks the creator has to reveal after acceptance")
	return cmd
}

func acceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept [owner] [bet-id] [heads|tails] [coins]",
		Short: "Match a pending bet with a guess",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			side, err := parseSide(args[2])
			if err != nil {
				return err
			}
			funds, err := sdk.ParseCoinsNormalized(args[3])
			if err != nil {
				return err
			}

			var resp types.MsgAcceptBetResponse
			msg := types.NewMsgAcceptBet(s.address, args[0], args[1], side, funds)
			if err := s.client.Post(cmd.Context(), "/tx/accept", msg, &resp); err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [bet-id] [secret]",
		Short: "Reveal the secret of an ongoing bet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			var resp types.MsgResolveBetResponse
			if err := s.client.Post(cmd.Context(), "/tx/resolve", types.NewMsgResolveBet(s.address, args[0], args[1]), &resp); err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func liquidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "liquidate [bet-id]",
		Short: "Settle an ongoing bet whose creator missed the reveal deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			var resp types.MsgLiquidateBetResponse
			if err := s.client.Post(cmd.Context(), "/tx/liquidate", types.NewMsgLiquidateBet(s.address, args[0]), &resp); err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func withdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [bet-id]",
		Short: "Cancel a pending bet and recover the stake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			var resp types.MsgWithdrawPendingBetResponse
			if err := s.client.Post(cmd.Context(), "/tx/withdraw", types.NewMsgWithdrawPendingBet(s.address, args[0]), &resp); err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [path]",
		Short: "Run a read-only API query, e.g. bets/pending?limit=10",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, false)
			if err != nil {
				return err
			}
			var resp json.RawMessage
			if err := s.client.Get(cmd.Context(), "/"+strings.TrimLeft(args[0], "/"), &resp); err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the balances of address, or of the loaded key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, len(args) == 0)
			if err != nil {
				return err
			}
			addr := s.address
			if len(args) == 1 {
				addr = args[0]
			}
			var resp json.RawMessage
			if err := s.client.Get(cmd.Context(), "/bank/balances/"+addr, &resp); err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}
