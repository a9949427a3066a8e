// Package config handles the configuration directory, data locations and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// JSONFile is the default data file of the file backend.
	JSONFile = "todo.json"

	// DBFile is the default database file of the sqlite backend.
	DBFile = "todo.db"

	// DefaultListName is the Google Tasks list used by the googletasks backend.
	DefaultListName = "todo"
)

// Backend names accepted by --backend and TODO_BACKEND.
const (
	BackendFile        = "file"
	BackendSQLite      = "sqlite"
	BackendGoogleTasks = "googletasks"
)

// Environment variables read by LoadEnv.
const (
	EnvBackend = "TODO_BACKEND"
	EnvFile    = "TODO_FILE"
	EnvList    = "TODO_LIST"
	EnvDotEnv  = "TODO_DOTENV"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the persistence provider. Empty means file.
	Backend string

	// DataFile overrides the data location of the file and sqlite backends.
	DataFile string

	// ListName is the Google Tasks list title for the googletasks backend.
	ListName string

	logger *log.Logger
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadEnv loads .env files from the working directory and the config
// directory, then fills unset fields from TODO_* variables.
// Variables already present in the process environment win over .env files,
// and fields already set (from flags) win over both.
func (c *Config) LoadEnv() error {
	if !dotEnvDisabled() {
		for _, p := range []string{".env", filepath.Join(c.Dir, ".env")} {
			if err := godotenv.Load(p); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return fmt.Errorf("load %s: %w", p, err)
			}
			c.Logger().Printf("loaded env from %s", p)
		}
	}

	if c.Backend == "" {
		c.Backend = strings.TrimSpace(os.Getenv(EnvBackend))
	}
	if c.DataFile == "" {
		c.DataFile = strings.TrimSpace(os.Getenv(EnvFile))
	}
	if c.ListName == "" {
		c.ListName = strings.TrimSpace(os.Getenv(EnvList))
	}
	return nil
}

func dotEnvDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvDotEnv))) {
	case "0", "false", "off", "no":
		return true
	default:
		return false
	}
}

// BackendName returns the selected backend, defaulting to file.
func (c *Config) BackendName() string {
	if c.Backend == "" {
		return BackendFile
	}
	return strings.ToLower(c.Backend)
}

// Validate checks that the selected backend is known.
func (c *Config) Validate() error {
	switch c.BackendName() {
	case BackendFile, BackendSQLite, BackendGoogleTasks:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
}

// DataPath returns the data location for the file and sqlite backends.
func (c *Config) DataPath() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	if c.BackendName() == BackendSQLite {
		return filepath.Join(c.Dir, DBFile)
	}
	return filepath.Join(c.Dir, JSONFile)
}

// List returns the Google Tasks list title.
func (c *Config) List() string {
	if strings.TrimSpace(c.ListName) == "" {
		return DefaultListName
	}
	return strings.TrimSpace(c.ListName)
}

// SetLogOutput directs debug logs to w when Debug is set.
func (c *Config) SetLogOutput(w io.Writer) {
	if !c.Debug {
		w = io.Discard
	}
	c.logger = log.New(w, "debug: ", 0)
}

// Logger returns the debug logger. It discards output until SetLogOutput
// is called with Debug set.
func (c *Config) Logger() *log.Logger {
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return c.logger
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
