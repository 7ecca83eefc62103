package config

import (
	"fmt"
	"strconv"
)

// Keys lists every dot-notation key accepted by Get and Set, in display order.
var Keys = []string{
	"logging.level",
	"simulation.max",
	"simulation.seed",
	"simulation.workers",
	"simulation.keep_campaigns",
	"store.driver",
	"store.path",
	"metrics.textfile",
	"backup.dir",
	"backup.keep_count",
	"backup.max_age",
}

// Get returns a configuration value by dot-notation key.
func (c *Config) Get(key string) (any, bool) {
	switch key {
	case "logging.level":
		return c.Logging.Level, true
	case "simulation.max":
		return c.Simulation.Max, true
	case "simulation.seed":
		return c.Simulation.Seed, true
	case "simulation.workers":
		return c.Simulation.Workers, true
	case "simulation.keep_campaigns":
		return c.Simulation.KeepCampaigns, true
	case "store.driver":
		return c.Store.Driver, true
	case "store.path":
		return c.Store.Path, true
	case "metrics.textfile":
		return c.Metrics.Textfile, true
	case "backup.dir":
		return c.Backup.Dir, true
	case "backup.keep_count":
		return c.Backup.KeepCount, true
	case "backup.max_age":
		return c.Backup.MaxAge, true
	default:
		return nil, false
	}
}

// Set assigns a configuration value by dot-notation key and validates the
// result. On error c is left unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "logging.level":
		next.Logging.Level = value
	case "simulation.max":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %s", key, value)
		}
		next.Simulation.Max = n
	case "simulation.seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %s", key, value)
		}
		next.Simulation.Seed = n
	case "simulation.workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %s", key, value)
		}
		next.Simulation.Workers = n
	case "simulation.keep_campaigns":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %s", key, value)
		}
		next.Simulation.KeepCampaigns = b
	case "store.driver":
		next.Store.Driver = value
	case "store.path":
		next.Store.Path = value
	case "metrics.textfile":
		next.Metrics.Textfile = value
	case "backup.dir":
		next.Backup.Dir = value
	case "backup.keep_count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %s", key, value)
		}
		next.Backup.KeepCount = n
	case "backup.max_age":
		next.Backup.MaxAge = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
