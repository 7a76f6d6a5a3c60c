package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	ListenAddr     string        `yaml:"listen_addr"`
	APIBaseURL     string        `yaml:"api_base_url"`
	AuthBaseURL    string        `yaml:"auth_base_url"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // dev asset server origins allowed on fragment endpoints
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SessionTTL     time.Duration `yaml:"session_ttl"` // how long an idle browser session is kept in memory
	EventsPerPage  int           `yaml:"events_per_page"`
}

type Private struct {
	AuthAnonKey string `yaml:"auth_anon_key"`
}

// AuthAnonKey returns the public (anon) API key of the hosted auth backend.
func (c *Config) AuthAnonKey() string {
	return c.private.AuthAnonKey
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
