package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	Player     string
	PlayerFile string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("MEMGAME_SERVER", "http://localhost:8080"),
		Player:     os.Getenv("MEMGAME_PLAYER"),
		PlayerFile: getEnvOrDefault("MEMGAME_PLAYER_FILE", defaultPlayerFile()),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadPlayer loads the identity from file if not already set
func (c *Config) LoadPlayer() error {
	if c.Player != "" {
		return nil
	}

	data, err := os.ReadFile(c.PlayerFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	c.Player = strings.TrimSpace(string(data))
	return nil
}

// SavePlayer remembers the identity for later invocations
func (c *Config) SavePlayer(player string) error {
	c.Player = player

	dir := filepath.Dir(c.PlayerFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.PlayerFile, []byte(player), 0600)
}

func defaultPlayerFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".memgame/player"
	}
	return filepath.Join(home, ".memgame", "player")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
