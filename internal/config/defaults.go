package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			BoardSize: 4,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/replays.db",
		},
		SSH: SSHConfig{
			Address:     ":2048",
			HostKeyPath: ".ssh/t2048_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Address:  ":8048",
			ShareURL: "",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
