package config

import "time"

// Default timing values. The write timeout matches the remote service's
// slowest acceptable round trip; the check timeout keeps the
// connectivity probe snappy.
const (
	DefaultAPIBaseURL        = "https://tx.qsgl.net:5190/qsoft542/procedure"
	DefaultWriteTimeout      = 30 * time.Second
	DefaultCheckTimeout      = 10 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultSyncInterval      = 5 * time.Minute
	DefaultDuplicateWindow   = 15 * time.Minute
)

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),
		API: APIConfig{
			BaseURL:           DefaultAPIBaseURL,
			WriteTimeout:      DefaultWriteTimeout,
			CheckTimeout:      DefaultCheckTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Sync: SyncConfig{
			Interval:        DefaultSyncInterval,
			DuplicateWindow: DefaultDuplicateWindow,
		},
	}
}
