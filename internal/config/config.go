package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/macmacal/jaypore-ci/internal/errors"
)

const (
	ProviderGitea  = "gitea"
	ProviderGitHub = "github"

	// FileName is looked up at the repository root when no path is given.
	FileName = ".jci.toml"

	GiteaTokenEnv  = "JAYPORE_GITEA_TOKEN"
	GitHubTokenEnv = "JAYPORE_GITHUB_TOKEN"
)

const (
	defaultBaseBranch         = "main"
	defaultStatusContext      = "JayporeCi"
	defaultTimeout            = "10s"
	defaultMaxResolveAttempts = 3
	defaultLanguage           = "en"
	defaultRemote             = "origin"
)

type Config struct {
	// Provider forces the hosting API flavour; empty means detect from the remote host.
	Provider           string `toml:"provider"`
	BaseBranch         string `toml:"base_branch"`
	StatusContext      string `toml:"status_context"`
	Timeout            string `toml:"timeout"`
	MaxResolveAttempts int    `toml:"max_resolve_attempts"`
	Language           string `toml:"language"`
	Remote             string `toml:"remote"`

	PathFile string `toml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		BaseBranch:         defaultBaseBranch,
		StatusContext:      defaultStatusContext,
		Timeout:            defaultTimeout,
		MaxResolveAttempts: defaultMaxResolveAttempts,
		Language:           defaultLanguage,
		Remote:             defaultRemote,
	}
}

// LoadConfig reads path on top of the defaults. A directory path is joined
// with FileName and a missing file there yields the defaults. Any other path
// names the file itself, which must exist.
func LoadConfig(path string) (*Config, error) {
	configPath := path
	optional := false
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		configPath = filepath.Join(path, FileName)
		optional = true
	}
	return load(configPath, optional)
}

func load(configPath string, optional bool) (*Config, error) {
	cfg := Default()
	cfg.PathFile = configPath

	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.ErrConfigRead.WithError(err).WithContext("path", configPath)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.ErrConfigRead.WithError(err).WithContext("path", configPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case "", ProviderGitea, ProviderGitHub:
	default:
		return errors.ErrInvalidConfig.WithContext("provider", c.Provider)
	}

	if strings.TrimSpace(c.BaseBranch) == "" {
		return errors.ErrInvalidConfig.WithError(fmt.Errorf("base_branch cannot be empty"))
	}
	if strings.TrimSpace(c.StatusContext) == "" {
		return errors.ErrInvalidConfig.WithError(fmt.Errorf("status_context cannot be empty"))
	}
	if c.MaxResolveAttempts <= 0 {
		return errors.ErrInvalidConfig.WithContext("max_resolve_attempts", c.MaxResolveAttempts)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses Timeout. The timeout bounds each hosting API request.
func (c *Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.ErrInvalidConfig.WithError(err).WithContext("timeout", c.Timeout)
	}
	if d <= 0 {
		return 0, errors.ErrInvalidConfig.WithContext("timeout", c.Timeout)
	}
	return d, nil
}

// TokenFor returns the credential exported for provider.
func (c *Config) TokenFor(provider string) (string, error) {
	var env string
	switch provider {
	case ProviderGitea:
		env = GiteaTokenEnv
	case ProviderGitHub:
		env = GitHubTokenEnv
	default:
		return "", errors.NewVCSProviderNotSupportedError(provider)
	}

	token := strings.TrimSpace(os.Getenv(env))
	if token == "" {
		return "", errors.ErrTokenMissing.WithContext("env", env)
	}
	return token, nil
}
