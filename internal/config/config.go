package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the application configuration, populated from randlab.yaml,
// environment variables (RANDLAB_ prefix) and command-line flags.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
	Log      struct {
		Level string `mapstructure:"level" yaml:"level"`
	} `mapstructure:"log" yaml:"log"`
	Source struct {
		Name string  `mapstructure:"name" yaml:"name"`
		Seed uint64  `mapstructure:"seed" yaml:"seed"`
		Bias float64 `mapstructure:"bias" yaml:"bias"`
	} `mapstructure:"source" yaml:"source"`
	Trials struct {
		Count     int `mapstructure:"count" yaml:"count"`
		BitLength int `mapstructure:"bitlength" yaml:"bitlength"`
	} `mapstructure:"trials" yaml:"trials"`
	Avalanche struct {
		Trials    int    `mapstructure:"trials" yaml:"trials"`
		Plaintext string `mapstructure:"plaintext" yaml:"plaintext"`
	} `mapstructure:"avalanche" yaml:"avalanche"`
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Randlab")
		default: // Linux, macOS, etc.
			configDir = "/etc/randlab"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "randlab")
	}

	return filepath.Join(configDir, "randlab.yaml"), nil
}

func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additional_config_file_path *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths (randlab.yaml)
	v.SetConfigName("randlab")
	v.SetConfigType("yaml")

	// 3. Add explicit config file path if provided via --config flag.
	// This has the highest precedence for file-based configuration.
	if additional_config_file_path != nil {
		v.SetConfigFile(*additional_config_file_path)
	}

	// 4. Add standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for randlab.yaml in current dir

	// 5. Read in the primary config file.
	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// 6. A zero-length candidate is treated as not found so callers rewrite
	// the default file instead of running on an all-empty configuration.
	if used := v.ConfigFileUsed(); used != "" {
		if fi, err := os.Stat(used); err == nil && fi.Size() == 0 {
			return c, viper.ConfigFileNotFoundError{}
		}
	}

	// 7. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("randlab")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// cli
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	// parse config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		return err
	}

	return nil
}
