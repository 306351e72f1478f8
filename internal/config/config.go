package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Add          string `toml:"add"`
	Search       string `toml:"search"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	Star         string `toml:"star"`
	Delete       string `toml:"delete"`
	Menu         string `toml:"menu"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
	NextTab      string `toml:"next_tab"`
	PrevTab      string `toml:"prev_tab"`
	Refresh      string `toml:"refresh"`
	PriorityUp   string `toml:"priority_up"`
	PriorityDown string `toml:"priority_down"`
	DueForward   string `toml:"due_forward"`
	DueBack      string `toml:"due_back"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	DefaultFilter string `toml:"default_filter"`
	LogFile       string `toml:"log_file"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: $TASKDASH_CONFIG, then
// $TASKDASH_CONFIG_DIR/config.toml, then the user config dir.
func ResolveConfigPath() string {
	if v := strings.TrimSpace(os.Getenv("TASKDASH_CONFIG")); v != "" {
		return v
	}
	return filepath.Join(Dir(), DefaultConfigFileName)
}

func Dir() string {
	if v := strings.TrimSpace(os.Getenv("TASKDASH_CONFIG_DIR")); v != "" {
		return v
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "taskdash")
}

// LoadOrCreate reads path, writing the defaults there first when it does not
// exist yet. A relative db_path is taken relative to the config file.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		cfg.DBPath = resolveDBPath(path, cfg.DBPath)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = "all"
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultConfig().Keys)
	cfg.DBPath = resolveDBPath(path, cfg.DBPath)
	if cfg.LogFile != "" {
		cfg.LogFile = resolveDBPath(path, cfg.LogFile)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func resolveDBPath(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Search, d.Search)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Star, d.Star)
	fill(&k.Delete, d.Delete)
	fill(&k.Menu, d.Menu)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.NextTab, d.NextTab)
	fill(&k.PrevTab, d.PrevTab)
	fill(&k.Refresh, d.Refresh)
	fill(&k.PriorityUp, d.PriorityUp)
	fill(&k.PriorityDown, d.PriorityDown)
	fill(&k.DueForward, d.DueForward)
	fill(&k.DueBack, d.DueBack)
	return k
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		DefaultFilter: "all",
		Keys: Keymap{
			Quit:         "q",
			Add:          "a",
			Search:       "/",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Star:         "s",
			Delete:       "d",
			Menu:         "m",
			Confirm:      "enter",
			Cancel:       "esc",
			NextTab:      "tab",
			PrevTab:      "shift+tab",
			Refresh:      "R",
			PriorityUp:   "+",
			PriorityDown: "-",
			DueForward:   "]",
			DueBack:      "[",
		},
	}
}
