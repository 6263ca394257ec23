package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/randlab/randlab/internal/config"
)

func defaults() map[string]any {
	return map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./randlab.db",
		"language":      "en",
	}
}

func TestLoadConfig_EmptyCandidate_TreatedAsNotFound(t *testing.T) {
	tmp := t.TempDir()
	// Force user config dir to tmp by setting XDG_CONFIG_HOME
	t.Setenv("XDG_CONFIG_HOME", tmp)

	// Create the directory but write a zero-length file
	cfgDir := filepath.Join(tmp, "randlab")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	emptyPath := filepath.Join(cfgDir, "randlab.yaml")
	f, err := os.Create(emptyPath)
	if err != nil {
		t.Fatalf("create empty file: %v", err)
	}
	f.Close()

	_, err = cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), nil)
	if err == nil {
		t.Fatalf("expected ConfigFileNotFoundError for empty candidate, got nil")
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.Dsn = "./randlab.db"
	c.Language = "en"

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/lab\nlanguage: de\nsource:\n  name: pcg\n  seed: 42\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
	if got.Source.Name != "pcg" || got.Source.Seed != 42 {
		t.Fatalf("source block not parsed: %+v", got.Source)
	}
}

func TestLoadConfig_DefaultsApply(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), nil)
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
	}
	if got.Database.Type != "sqlite" || got.Database.Dsn != "./randlab.db" || got.Language != "en" {
		t.Fatalf("defaults not applied: %+v", got)
	}
}
