package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/questdeck/backend/internal/domain"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	XP       XPConfig       `yaml:"xp"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "sqlite"
	DSN    string `yaml:"dsn"`
}

// XPConfig tunes the base reward per quest type.
type XPConfig struct {
	DailyBase   int `yaml:"daily_base"`
	RegularBase int `yaml:"regular_base"`
	EpicBase    int `yaml:"epic_base"`
	BossBase    int `yaml:"boss_base"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // "dev" or "prod"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Environment wins over the file so deployments keep credentials out of it.
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}

	return cfg, nil
}

// Default returns the configuration used when no file values override it.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "questdeck.db",
		},
		XP: XPConfig{
			DailyBase:   5,
			RegularBase: 10,
			EpicBase:    25,
			BossBase:    50,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// BaseXP returns the per-type base reward table for the reward calculator.
func (c *Config) BaseXP() map[domain.QuestType]int {
	return map[domain.QuestType]int{
		domain.TypeDaily:   c.XP.DailyBase,
		domain.TypeRegular: c.XP.RegularBase,
		domain.TypeEpic:    c.XP.EpicBase,
		domain.TypeBoss:    c.XP.BossBase,
	}
}
