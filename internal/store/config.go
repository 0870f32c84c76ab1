package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

type GlobalConfig struct {
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`

	// DefaultTheme is applied to new projects created without --theme.
	DefaultTheme string `json:"defaultTheme,omitempty"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `json:"logLevel,omitempty"`

	// Redis optionally publishes every committed command to a pub/sub channel.
	Redis *RedisConfig `json:"redis,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type RedisConfig struct {
	URL     string `json:"url"`
	Channel string `json:"channel,omitempty"`
}

type TUIConfig struct {
	NoColor bool `json:"noColor,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskorium).
	if v := strings.TrimSpace(os.Getenv("TASKORIUM_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the global config. The file may contain comments and trailing commas.
// A missing file yields an empty config.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*GlobalConfig, error) {
	var cfg GlobalConfig
	if len(bytes.TrimSpace(b)) == 0 {
		return &cfg, nil
	}
	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return err
	}
	// atomic.WriteFile does not set permissions on new files.
	return os.Chmod(path, 0o600)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid workspace name: %q", name)
	}
	return name, nil
}

func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "workspaces"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
