package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("TASKORIUM_CONFIG_DIR", cfgDir)

	if err := SaveConfig(&GlobalConfig{CurrentWorkspace: "seed"}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 32
	errCh := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			cfg, err := LoadConfig()
			if err != nil {
				errCh <- err
				return
			}
			cfg.CurrentWorkspace = fmt.Sprintf("ws-%d", i)
			cfg.Redis = &RedisConfig{URL: fmt.Sprintf("redis://localhost:6379/%d", i%16)}
			if err := SaveConfig(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}
	if t.Failed() {
		return
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config.json: %v", err)
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("config.json corrupted/unparseable: %v\nraw:\n%s", err, string(raw))
	}
	if !strings.HasPrefix(cfg.CurrentWorkspace, "ws-") {
		t.Fatalf("unexpected currentWorkspace %q", cfg.CurrentWorkspace)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", st.Mode().Perm())
	}

	ents, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range ents {
		if e.Name() != "config.json" {
			t.Fatalf("leftover file: %s", e.Name())
		}
	}
}

func TestParseConfig_AcceptsCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
	// which workspace the CLI uses by default
	"currentWorkspace": "work",
	"defaultTheme": "mars",
	"logLevel": "debug",
	"redis": {
		"url": "redis://127.0.0.1:6379/0", /* local */
		"channel": "board",
	},
	"tui": {"noColor": true,},
}`)
	cfg, err := ParseConfig(raw)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.CurrentWorkspace != "work" || cfg.DefaultTheme != "mars" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Redis == nil || cfg.Redis.Channel != "board" || cfg.Redis.URL != "redis://127.0.0.1:6379/0" {
		t.Fatalf("unexpected redis: %+v", cfg.Redis)
	}
	if cfg.TUI == nil || !cfg.TUI.NoColor {
		t.Fatalf("unexpected tui: %+v", cfg.TUI)
	}

	if _, err := ParseConfig([]byte(`{"currentWorkspace": }`)); err == nil {
		t.Fatalf("expected parse error")
	}
	empty, err := ParseConfig([]byte("  \n"))
	if err != nil || empty.CurrentWorkspace != "" {
		t.Fatalf("expected empty config, got %+v err=%v", empty, err)
	}
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("TASKORIUM_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CurrentWorkspace != "" || cfg.Redis != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}
