package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/block52/coinflipchain/pkg/api"
	"github.com/block52/coinflipchain/pkg/bridge"
	"github.com/block52/coinflipchain/pkg/indexer"
	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/pkg/wsserver"
)

const (
	configFileName = "coinflipd.toml"
	envPrefix      = "COINFLIPD"
)

// LogConfig selects the node log output
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NodeConfig is the full coinflipd.toml document
type NodeConfig struct {
	Log       LogConfig       `mapstructure:"log"`
	Ledger    ledger.Config   `mapstructure:"ledger"`
	API       api.Config      `mapstructure:"api"`
	WebSocket wsserver.Config `mapstructure:"websocket"`
	Indexer   indexer.Config  `mapstructure:"indexer"`
	Bridge    bridge.Config   `mapstructure:"bridge"`
}

func defaultNodeConfig() NodeConfig {
	cfg := NodeConfig{
		Log:       LogConfig{Level: "info", Format: "plain"},
		Ledger:    ledger.DefaultConfig(),
		API:       api.DefaultConfig(),
		WebSocket: wsserver.DefaultConfig(),
		Indexer:   indexer.DefaultConfig(),
		Bridge:    bridge.DefaultConfig(),
	}
	cfg.Ledger.Backend = "goleveldb"
	return cfg
}

const nodeConfigTemplate = `###############################################################################
###                           Logging Configuration                         ###
###############################################################################

[log]
# trace, debug, info, warn or error
level = "{{ .Log.Level }}"

# plain or json
format = "{{ .Log.Format }}"

###############################################################################
###                           Ledger Configuration                          ###
###############################################################################

[ledger]
chain_id = "{{ .Ledger.ChainID }}"

# memdb keeps everything in memory, goleveldb persists under data_dir
backend = "{{ .Ledger.Backend }}"
data_dir = "{{ .Ledger.DataDir }}"
genesis_file = "{{ .Ledger.GenesisFile }}"
block_interval = "{{ .Ledger.BlockInterval }}"
address_prefix = "{{ .Ledger.AddressPrefix }}"
event_buffer = {{ .Ledger.EventBuffer }}

[ledger.tax]
# Decimal fraction taken from every payout, e.g. "0.01"
rate = "{{ .Ledger.Tax.Rate }}"
exempt_denoms = [{{ range $i, $d := .Ledger.Tax.ExemptDenoms }}{{ if $i }}, {{ end }}"{{ $d }}"{{ end }}]

[ledger.tax.caps]
{{- range $denom, $cap := .Ledger.Tax.Caps }}
"{{ $denom }}" = "{{ $cap }}"
{{- end }}

###############################################################################
###                             API Configuration                           ###
###############################################################################

[api]
listen_addr = "{{ .API.ListenAddr }}"
max_body_bytes = {{ .API.MaxBodyBytes }}

# Accepted clock skew of signed requests
signature_window = "{{ .API.SignatureWindow }}"

###############################################################################
###                          WebSocket Configuration                        ###
###############################################################################

[websocket]
enabled = {{ .WebSocket.Enabled }}
listen_addr = "{{ .WebSocket.ListenAddr }}"
send_buffer = {{ .WebSocket.SendBuffer }}
snapshot_timeout = "{{ .WebSocket.SnapshotTimeout }}"

###############################################################################
###                           Indexer Configuration                         ###
###############################################################################

[indexer]
# Archive completed bets in PostgreSQL
enabled = {{ .Indexer.Enabled }}
dsn = "{{ .Indexer.DSN }}"
max_conns = {{ .Indexer.MaxConns }}

###############################################################################
###                           Bridge Configuration                          ###
###############################################################################

[bridge]
# Enable or disable the deposit bridge
enabled = {{ .Bridge.Enabled }}

# Ethereum RPC URL (Base Chain)
ethereum_rpc_url = "{{ .Bridge.EthereumRPCURL }}"

# Bridge contract address on Base Chain
deposit_contract_address = "{{ .Bridge.DepositContractAddress }}"

# Ledger denomination credited for deposits
denom = "{{ .Bridge.Denom }}"

polling_interval = "{{ .Bridge.PollingInterval }}"

# Starting block number (block where the bridge contract was deployed)
starting_block = {{ .Bridge.StartingBlock }}

confirmations = {{ .Bridge.Confirmations }}
max_block_range = {{ .Bridge.MaxBlockRange }}
`

// writeNodeConfig renders cfg into path.
func writeNodeConfig(path string, cfg NodeConfig) error {
	tmpl, err := template.New("coinflipd").Parse(nodeConfigTemplate)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return fmt.Errorf("failed to render %s: %w", configFileName, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// loadNodeConfig reads coinflipd.toml from home, applies COINFLIPD_* overrides
// (including those from a .env file) and resolves relative paths against home.
func loadNodeConfig(home string) (NodeConfig, error) {
	_ = godotenv.Load(filepath.Join(home, ".env"))

	v := viper.New()
	setDefaults(v, defaultNodeConfig())
	v.SetConfigFile(filepath.Join(home, configFileName))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return NodeConfig{}, fmt.Errorf("failed to read %s: %w", configFileName, err)
		}
	}

	var cfg NodeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return NodeConfig{}, fmt.Errorf("failed to decode %s: %w", configFileName, err)
	}

	cfg.Ledger.DataDir = resolvePath(home, cfg.Ledger.DataDir)
	cfg.Ledger.GenesisFile = resolvePath(home, cfg.Ledger.GenesisFile)
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg NodeConfig) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("ledger.chain_id", cfg.Ledger.ChainID)
	v.SetDefault("ledger.backend", cfg.Ledger.Backend)
	v.SetDefault("ledger.data_dir", cfg.Ledger.DataDir)
	v.SetDefault("ledger.genesis_file", cfg.Ledger.GenesisFile)
	v.SetDefault("ledger.block_interval", cfg.Ledger.BlockInterval)
	v.SetDefault("ledger.address_prefix", cfg.Ledger.AddressPrefix)
	v.SetDefault("ledger.event_buffer", cfg.Ledger.EventBuffer)
	v.SetDefault("ledger.tax.rate", cfg.Ledger.Tax.Rate)
	v.SetDefault("ledger.tax.caps", cfg.Ledger.Tax.Caps)
	v.SetDefault("ledger.tax.exempt_denoms", cfg.Ledger.Tax.ExemptDenoms)

	v.SetDefault("api.listen_addr", cfg.API.ListenAddr)
	v.SetDefault("api.max_body_bytes", cfg.API.MaxBodyBytes)
	v.SetDefault("api.signature_window", cfg.API.SignatureWindow)

	v.SetDefault("websocket.enabled", cfg.WebSocket.Enabled)
	v.SetDefault("websocket.listen_addr", cfg.WebSocket.ListenAddr)
	v.SetDefault("websocket.send_buffer", cfg.WebSocket.SendBuffer)
	v.SetDefault("websocket.snapshot_timeout", cfg.WebSocket.SnapshotTimeout)

	v.SetDefault("indexer.enabled", cfg.Indexer.Enabled)
	v.SetDefault("indexer.dsn", cfg.Indexer.DSN)
	v.SetDefault("indexer.max_conns", cfg.Indexer.MaxConns)

	v.SetDefault("bridge.enabled", cfg.Bridge.Enabled)
	v.SetDefault("bridge.ethereum_rpc_url", cfg.Bridge.EthereumRPCURL)
	v.SetDefault("bridge.deposit_contract_address", cfg.Bridge.DepositContractAddress)
	v.SetDefault("bridge.denom", cfg.Bridge.Denom)
	v.SetDefault("bridge.polling_interval", cfg.Bridge.PollingInterval)
	v.SetDefault("bridge.starting_block", cfg.Bridge.StartingBlock)
	v.SetDefault("bridge.confirmations", cfg.Bridge.Confirmations)
	v.SetDefault("bridge.max_block_range", cfg.Bridge.MaxBlockRange)
}

func resolvePath(home, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}
