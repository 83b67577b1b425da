package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "ticktick"
	configFile = "config.yaml"
)

// Settings is the one explicit configuration record of a process
// invocation, assembled once at startup and handed to dispatchers. No
// other component reads the environment.
type Settings struct {
	Host             string `yaml:"host" mapstructure:"host"`
	ClientID         string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret     string `yaml:"client_secret" mapstructure:"client_secret"`
	AccessToken      string `yaml:"access_token" mapstructure:"access_token"`
	Username         string `yaml:"username" mapstructure:"username"`
	Password         string `yaml:"password" mapstructure:"password"`
	CurrentProjectID string `yaml:"current_project_id" mapstructure:"current_project_id"`
	RedirectURI      string `yaml:"redirect_uri" mapstructure:"redirect_uri"`
	Timezone         string `yaml:"timezone" mapstructure:"timezone"`
}

// Path returns the config file location under the user's XDG config home.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

// Load assembles Settings: YAML config file first, environment on top.
// A missing config file is not an error; missing credentials surface
// later, when a command actually needs the client.
func Load() (*Settings, error) {
	settings := &Settings{Host: "ticktick.com"}

	path, err := Path()
	if err == nil {
		if err := loadFile(path, settings); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(settings)
	return settings, nil
}

func loadFile(path string, settings *Settings) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(settings)
}

func applyEnv(settings *Settings) {
	env := map[string]*string{
		"TICKTICK_HOST":               &settings.Host,
		"TICKTICK_CLIENT_ID":          &settings.ClientID,
		"TICKTICK_CLIENT_SECRET":      &settings.ClientSecret,
		"TICKTICK_ACCESS_TOKEN":       &settings.AccessToken,
		"TICKTICK_USERNAME":           &settings.Username,
		"TICKTICK_PASSWORD":           &settings.Password,
		"TICKTICK_CURRENT_PROJECT_ID": &settings.CurrentProjectID,
		"TICKTICK_REDIRECT_URI":       &settings.RedirectURI,
		"TZ":                          &settings.Timezone,
	}
	for name, target := range env {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			*target = value
		}
	}
}

// Save writes Settings back to the config file, creating the directory on
// first use.
func Save(settings *Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	encoded, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadDotenv walks up from the working directory and loads the first .env
// file it finds. Variables already set in the environment win over file
// values.
func LoadDotenv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
