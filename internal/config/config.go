package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
	DefaultLogName        = "taskgrid.log"
	DefaultDeleteDelay    = 300 * time.Millisecond

	appDirName = "taskgrid"
	envConfig  = "TASKGRID_CONFIG"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Edit        string `toml:"edit"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	NextField   string `toml:"next_field"`
	PrevField   string `toml:"prev_field"`
	Search      string `toml:"search"`
	ClearSearch string `toml:"clear_search"`
	Status      string `toml:"status"`
	Category    string `toml:"category"`
	Sort        string `toml:"sort"`
	ClearAll    string `toml:"clear_all"`
	Theme       string `toml:"theme"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	DefaultFilter string `toml:"default_filter"`
	SortAscending bool   `toml:"sort_ascending"`
	DeleteDelay   string `toml:"delete_delay"`
	LogPath       string `toml:"log_path"`
	LogLevel      string `toml:"log_level"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TASKGRID_CONFIG, then the XDG config dir, then
// ~/.config, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(envConfig)); p != "" {
		return p
	}
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return filepath.Join(dir, appDirName, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", appDirName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative db and log paths resolve against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultConfig().Keys)
	return cfg.resolve(path), nil
}

// DeleteDelayDuration parses delete_delay, falling back to the default for
// empty, malformed, or negative values.
func (c Config) DeleteDelayDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.DeleteDelay))
	if err != nil || d < 0 {
		return DefaultDeleteDelay
	}
	return d
}

func (c Config) resolve(path string) Config {
	dir := filepath.Dir(path)
	if !filepath.IsAbs(c.DBPath) && !strings.HasPrefix(c.DBPath, "file:") {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
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

// withDefaults fills keys missing from an older config file.
func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Edit, d.Edit)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.NextField, d.NextField)
	fill(&k.PrevField, d.PrevField)
	fill(&k.Search, d.Search)
	fill(&k.ClearSearch, d.ClearSearch)
	fill(&k.Status, d.Status)
	fill(&k.Category, d.Category)
	fill(&k.Sort, d.Sort)
	fill(&k.ClearAll, d.ClearAll)
	fill(&k.Theme, d.Theme)
	return k
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		DefaultFilter: "all",
		SortAscending: true,
		DeleteDelay:   DefaultDeleteDelay.String(),
		LogPath:       DefaultLogName,
		LogLevel:      "info",
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			Toggle:      " ",
			Delete:      "d",
			Edit:        "e",
			Confirm:     "enter",
			Cancel:      "esc",
			NextField:   "tab",
			PrevField:   "shift+tab",
			Search:      "/",
			ClearSearch: "x",
			Status:      "f",
			Category:    "c",
			Sort:        "s",
			ClearAll:    "D",
			Theme:       "t",
		},
	}
}
