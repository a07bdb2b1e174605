package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/block52/coinflipchain/pkg/ledger"
)

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*ledger.Config)
		err    string
	}{
		{name: "default", mutate: func(*ledger.Config) {}},
		{name: "empty chain id", mutate: func(c *ledger.Config) { c.ChainID = "" }, err: "chain_id"},
		{name: "unknown backend", mutate: func(c *ledger.Config) { c.Backend = "rocksdb" }, err: "unsupported db backend"},
		{name: "goleveldb without dir", mutate: func(c *ledger.Config) { c.Backend = "goleveldb"; c.DataDir = "" }, err: "data_dir"},
		{name: "zero interval", mutate: func(c *ledger.Config) { c.BlockInterval = 0 }, err: "block_interval"},
		{name: "bad rate", mutate: func(c *ledger.Config) { c.Tax.Rate = "abc" }, err: "invalid tax rate"},
		{name: "negative rate", mutate: func(c *ledger.Config) { c.Tax.Rate = "-0.1" }, err: "must not be negative"},
		{name: "bad cap", mutate: func(c *ledger.Config) { c.Tax.Caps = map[string]string{"uusdc": "-1"} }, err: "invalid tax cap"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ledger.DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.err == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.err)
		})
	}
}

func TestTaxTable(t *testing.T) {
	table, err := ledger.NewTaxTable(ledger.TaxConfig{
		Rate:         "0.005",
		Caps:         map[string]string{"uusdc": "1000000"},
		ExemptDenoms: []string{"ueth"},
	})
	require.NoError(t, err)

	rate, taxCap, err := table.TaxFor(context.Background(), "uusdc")
	require.NoError(t, err)
	require.Equal(t, "0.005000000000000000", rate.String())
	require.Equal(t, "1000000", taxCap.String())

	rate, _, err = table.TaxFor(context.Background(), "ueth")
	require.NoError(t, err)
	require.True(t, rate.IsZero())

	_, taxCap, err = table.TaxFor(context.Background(), "uatom")
	require.NoError(t, err)
	require.True(t, taxCap.IsNil())
}
