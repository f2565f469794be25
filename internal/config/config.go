// Package config provides YAML-based configuration loading for the 2048
// binary: board size, replay database, SSH and web listeners, logging.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Board size limits accepted by Validate.
const (
	MinBoardSize = 2
	MaxBoardSize = 8
)

// Config is the full runtime configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig holds board parameters.
type GameConfig struct {
	BoardSize int `yaml:"board_size"`
}

// StorageConfig locates the replay journal.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// SSHConfig configures the wish server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig configures the websocket server.
type WebConfig struct {
	Address  string `yaml:"address"`
	ShareURL string `yaml:"share_url"` // Page linked from share intents
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

var logLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Validate checks the configuration for values the binary cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Game.BoardSize < MinBoardSize || c.Game.BoardSize > MaxBoardSize {
		errs = append(errs, fmt.Errorf("game.board_size %d out of range [%d, %d]",
			c.Game.BoardSize, MinBoardSize, MaxBoardSize))
	}
	if c.Storage.DBPath == "" {
		errs = append(errs, errors.New("storage.db_path is empty"))
	}
	if c.SSH.Address == "" {
		errs = append(errs, errors.New("ssh.address is empty"))
	}
	if c.SSH.IdleTimeout < 0 {
		errs = append(errs, errors.New("ssh.idle_timeout is negative"))
	}
	if c.Web.Address == "" {
		errs = append(errs, errors.New("web.address is empty"))
	}
	if !validLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of %s",
			c.Log.Level, strings.Join(logLevels, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func validLevel(level string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// DifficultyPreset names a board size: larger boards leave more room.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// BoardSizeForPreset returns the board size for a preset name.
// An empty name keeps current.
func BoardSizeForPreset(preset string, current int) (int, error) {
	switch DifficultyPreset(strings.ToLower(preset)) {
	case "":
		return current, nil
	case DifficultyEasy:
		return 6, nil
	case DifficultyNormal:
		return 4, nil
	case DifficultyHard:
		return 3, nil
	default:
		return current, fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", preset)
	}
}
