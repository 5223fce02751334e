package seeder

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds seeder pipeline settings.
type Config struct {
	FixturePath string `yaml:"fixture_path" env:"SEEDER_FIXTURE_PATH" env-default:"./seed/network.yaml"`
	DryRun      bool   `yaml:"dry_run"      env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads seeder configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("seeder config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("seeder config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read env: %w", err)
	}

	return &cfg, nil
}

// Fixture is a demo network: directory members plus the connection edges
// between them, addressed by email.
type Fixture struct {
	Users       []FixtureUser       `yaml:"users"`
	Connections []FixtureConnection `yaml:"connections"`
}

// FixtureUser is one directory member.
type FixtureUser struct {
	Email          string `yaml:"email"`
	DisplayName    string `yaml:"display_name"`
	Role           string `yaml:"role"`
	Headline       string `yaml:"headline"`
	Company        string `yaml:"company"`
	Department     string `yaml:"department"`
	GraduationYear int    `yaml:"graduation_year"`
}

// FixtureConnection is a request from one member to another and the
// recipient's decision. Status is PENDING, ACCEPTED or REJECTED.
type FixtureConnection struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Status string `yaml:"status"`
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	var f Fixture
	if err := cleanenv.ReadConfig(path, &f); err != nil {
		return nil, fmt.Errorf("seeder fixture: read %s: %w", path, err)
	}
	return &f, nil
}
