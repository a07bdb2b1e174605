package cmd

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
)

const flagOutput = "output"

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current ledger state as a genesis document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadNodeConfig(homeDir(cmd))
			if err != nil {
				return err
			}
			l, err := openLedger(cfg.Ledger, log.NewNopLogger())
			if err != nil {
				return err
			}
			defer l.Close()

			g, err := l.Export()
			if err != nil {
				return err
			}

			if out, _ := cmd.Flags().GetString(flagOutput); out != "" {
				return g.Save(out)
			}
			bz, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}
	cmd.Flags().String(flagOutput, "", "write the document to this file instead of stdout")
	return cmd
}
