package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes environment overrides, e.g. CONTENTGEN_BASE_URL.
const EnvPrefix = "CONTENTGEN"

// flagKeys maps command-line flag names to the config keys they override.
var flagKeys = map[string]string{
	"server":    "base_url",
	"product":   "product_id",
	"timeout":   "timeout",
	"log-level": "log_level",
	"output":    "output",
}

// Manager loads configuration from defaults, the config file, the
// environment and command-line flags, in increasing precedence.
type Manager struct {
	mu     sync.RWMutex
	v      *viper.Viper
	config *Config
}

// NewManager creates a new config manager and loads the configuration.
// cfgFile may be empty to search the default locations. flags may be nil;
// otherwise any of its flags named in flagKeys override the matching key.
func NewManager(cfgFile string, flags *pflag.FlagSet) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile, flags); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults, environment, config file and flags.
func (cm *Manager) initViper(cfgFile string, flags *pflag.FlagSet) error {
	v := cm.v
	setDefaults(v)

	// Environment variables with CONTENTGEN_ prefix; prompts.title reads
	// CONTENTGEN_PROMPTS_TITLE.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.contentgen")
	}

	// Config file is optional, but an explicitly named one must exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	for _, e := range DefaultEntries() {
		v.SetDefault(e.Key, e.Value)
	}
	v.SetDefault("headers", map[string]string{})
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	return decode(cm.v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFileUsed returns the path of the loaded config file, or empty when
// running on defaults.
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// Set validates and stores a value for key, then writes the config file.
// When no file was loaded, path is used; it must then be non-empty.
// The file is written from defaults plus its own contents, so environment
// and flag overrides are never persisted.
func (cm *Manager) Set(key, value, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	target := cm.v.ConfigFileUsed()
	if target == "" {
		target = path
	}
	if target == "" {
		return errors.New("no config file to write; run 'contentgen config init' first")
	}

	fileCfg, err := readFileOnly(target, key, value)
	if err != nil {
		return err
	}

	prev := cm.v.Get(key)
	cm.v.Set(key, value)
	cfg, err := cm.load()
	if err != nil {
		cm.v.Set(key, prev)
		return err
	}

	if err := writeConfig(target, fileCfg); err != nil {
		cm.v.Set(key, prev)
		return err
	}
	cm.config = cfg
	return nil
}

// readFileOnly loads defaults and the file at path, if it exists, into a
// fresh viper, applies key=value and returns the validated result.
func readFileOnly(path, key, value string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.Set(key, value)
	return decode(v)
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// WriteDefault writes the default configuration to the specified path.
// An existing file is not overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	return writeConfig(path, DefaultConfig())
}

func writeConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# contentgen configuration
# Header values use ${ENV_VAR} syntax to reference environment variables, e.g.
#   headers:
#     Authorization: "Bearer ${CONTENTGEN_TOKEN}"
# Any key can be overridden with CONTENTGEN_<KEY>, e.g. CONTENTGEN_BASE_URL.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
