package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnv layers PRIORITY_MATRIX_* environment overrides on top of the
// file config. Unset or unparsable values leave the config alone.
func (c *Config) applyEnv() {
	if v := getEnvStr("PRIORITY_MATRIX_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getEnvStr("PRIORITY_MATRIX_DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := getEnvStr("PRIORITY_MATRIX_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := getEnvInt("PRIORITY_MATRIX_MAX_TASKS_PER_QUADRANT"); v > 0 {
		c.UI.MaxTasksPerQuadrant = v
	}
	if v, ok := getEnvBool("PRIORITY_MATRIX_CHAT_ENABLED"); ok {
		c.Chat.Enabled = v
	}
	if v := getEnvStr("PRIORITY_MATRIX_CHAT_URL"); v != "" {
		c.Chat.BaseURL = v
	}
	if v := getEnvStr("PRIORITY_MATRIX_CHAT_MODEL"); v != "" {
		c.Chat.Model = v
	}
	if v := getEnvInt("PRIORITY_MATRIX_CHAT_TIMEOUT_SECONDS"); v > 0 {
		c.Chat.TimeoutSeconds = v
	}
	if v, ok := getEnvBool("PRIORITY_MATRIX_BACKUP_ENABLED"); ok {
		c.Backup.Enabled = v
	}
	if v := getEnvInt("PRIORITY_MATRIX_BACKUP_INTERVAL_HOURS"); v > 0 {
		c.Backup.IntervalHours = v
	}
	if v := getEnvStr("PRIORITY_MATRIX_BACKUP_DIR"); v != "" {
		c.Backup.Dir = v
	}
	if v := getEnvStr("PRIORITY_MATRIX_LOG_DIR"); v != "" {
		c.Logging.Dir = v
	}
	if v := getEnvStr("PRIORITY_MATRIX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func getEnvStr(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvInt(key string) int {
	val := getEnvStr(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvBool(key string) (bool, bool) {
	switch strings.ToLower(getEnvStr(key)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	default:
		return false, false
	}
}
