// Package config loads server settings from a YAML file merged with
// environment variables, applying defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Upload struct {
		Dir         string `yaml:"dir"`
		MaxFileSize int64  `yaml:"max_file_size"` // bytes
	} `yaml:"upload"`

	LLM struct {
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
		Streaming bool   `yaml:"streaming"`
	} `yaml:"llm"`
}

// Load reads configuration from path. When path is empty the default
// locations are tried; if none exists the built-in defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/chatbot/config.yaml"),
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Upload.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size cannot be negative")
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("max_tokens cannot be negative")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 5000
	}
	if len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = []string{"*"}
	}

	if config.Upload.Dir == "" {
		config.Upload.Dir = "./uploads"
	}
	if config.Upload.MaxFileSize == 0 {
		config.Upload.MaxFileSize = 10 << 20 // 10MB
	}

	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 4096
	}
}

func mergeWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		config.Upload.Dir = dir
	}
	if model := os.Getenv("CHAT_MODEL"); model != "" {
		config.LLM.Model = model
	}
}
