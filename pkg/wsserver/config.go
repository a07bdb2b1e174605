package wsserver

import "time"

// Config holds the WebSocket server configuration
type Config struct {
	// Enabled determines if the WebSocket server should be started
	Enabled bool `mapstructure:"enabled"`

	// ListenAddr is the HTTP address of the WebSocket server (e.g., ":8585")
	ListenAddr string `mapstructure:"listen_addr"`

	// SendBuffer is the number of queued messages per client before it is dropped
	SendBuffer int `mapstructure:"send_buffer"`

	// SnapshotTimeout bounds the ledger query made when a client subscribes
	SnapshotTimeout time.Duration `mapstructure:"snapshot_timeout"`
}

// DefaultConfig returns default configuration for local development
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		ListenAddr:      ":8585",
		SendBuffer:      256,
		SnapshotTimeout: 5 * time.Second,
	}
}
