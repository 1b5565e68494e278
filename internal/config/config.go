package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Chat    ChatConfig    `yaml:"chat" json:"chat"`
	Backup  BackupConfig  `yaml:"backup" json:"backup"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type StorageConfig struct {
	// Backend selects where the snapshot lives: "file" or "sqlite".
	Backend string `yaml:"backend" json:"backend"`
}

type UIConfig struct {
	MaxTasksPerQuadrant int `yaml:"max_tasks_per_quadrant" json:"max_tasks_per_quadrant"`
}

type ChatConfig struct {
	Enabled             bool   `yaml:"enabled" json:"enabled"`
	BaseURL             string `yaml:"base_url" json:"base_url"`
	Model               string `yaml:"model" json:"model"`
	TimeoutSeconds      int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxTasks            int    `yaml:"max_tasks" json:"max_tasks"`
	IncludeDescriptions bool   `yaml:"include_descriptions" json:"include_descriptions"`
	IncludeLabels       *bool  `yaml:"include_labels" json:"include_labels,omitempty"`
	HistoryLimit        int    `yaml:"history_limit" json:"history_limit"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	IntervalHours int    `yaml:"interval_hours" json:"interval_hours"`
	Dir           string `yaml:"dir" json:"dir"`
}

type LoggingConfig struct {
	Dir   string `yaml:"dir" json:"dir"`
	Level string `yaml:"level" json:"level"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8375"
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.UI.MaxTasksPerQuadrant == 0 {
		c.UI.MaxTasksPerQuadrant = 10
	}
	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = "http://localhost:11434"
	}
	if c.Chat.Model == "" {
		c.Chat.Model = "gemma3"
	}
	if c.Chat.TimeoutSeconds == 0 {
		c.Chat.TimeoutSeconds = 120
	}
	if c.Chat.MaxTasks == 0 {
		c.Chat.MaxTasks = 50
	}
	if c.Chat.IncludeLabels == nil {
		v := true
		c.Chat.IncludeLabels = &v
	}
	if c.Chat.HistoryLimit == 0 {
		c.Chat.HistoryLimit = 10
	}
	if c.Backup.IntervalHours == 0 {
		c.Backup.IntervalHours = 24
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = "backups"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Load reads the yaml config at path. A missing file is not an error:
// the defaults (plus env overrides) are enough to run.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	c.applyEnv()
	return &c, nil
}
