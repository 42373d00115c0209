package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	IPFS struct {
		URL string `yaml:"url"`
	} `yaml:"ipfs"`
	Chain struct {
		RPCURL     string `yaml:"rpc_url"`
		PrivateKey string `yaml:"private_key"`
		Account    string `yaml:"account"`
		Contract   string `yaml:"contract"`
	} `yaml:"chain"`
	Watermark struct {
		Command string   `yaml:"command"`
		Args    []string `yaml:"args"`
	} `yaml:"watermark"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
}

// LoadConfig reads configuration from the specified YAML file.
// Secrets may be overridden through the environment so they never
// have to live in the checked-in file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyEnv()

	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("CHAIN_PRIVATE_KEY"); v != "" {
		c.Chain.PrivateKey = v
	}
	if v := os.Getenv("IPFS_URL"); v != "" {
		c.IPFS.URL = v
	}
}
