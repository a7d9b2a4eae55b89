package config

import (
	"os"
	"strconv"
)

// applyEnv layers PLANNER_* environment overrides on top of the file config.
// Unset or malformed values are ignored.
func applyEnv(c *Config) {
	if v := os.Getenv("PLANNER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PLANNER_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("PLANNER_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := getEnvInt("PLANNER_DAY_START_HOUR"); v > 0 {
		c.Grid.DayStartHour = v
	}
	if v := getEnvInt("PLANNER_DAY_END_HOUR"); v > 0 {
		c.Grid.DayEndHour = v
	}
	if v := getEnvInt("PLANNER_SYNC_WORKERS"); v > 0 {
		c.Sync.Workers = v
	}
	if v := getEnvInt("PLANNER_SYNC_QUEUE"); v > 0 {
		c.Sync.QueueSize = v
	}
	if v := os.Getenv("PLANNER_SYNC_ON_STARTUP"); v != "" {
		c.Sync.OnStartup = v == "1" || v == "true"
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
