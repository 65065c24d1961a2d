package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:                      "development",
			Port:                     "8080",
			JWTSecret:                "secure-secret-at-least-32-chars-long",
			DBPassword:               "secure-password",
			DBSSLMode:                "disable",
			DBSchemaMode:             "hybrid",
			DBConnMaxLifetimeMinutes: 5,
			RedisURL:                 "localhost:6379",
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid development config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Production with default JWT secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"Production with short JWT secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"Production with default DB password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"Production with strong credentials", func(c *Config) {
			c.Env = "production"
		}, false},
		{"Prod alias with strong credentials", func(c *Config) {
			c.Env = "prod"
		}, false},
		{"Invalid schema mode", func(c *Config) { c.DBSchemaMode = "yolo" }, true},
		{"Empty schema mode defaults to hybrid", func(c *Config) { c.DBSchemaMode = "" }, false},
		{"Explicit sql schema mode", func(c *Config) { c.DBSchemaMode = "sql" }, false},
		{"Explicit auto schema mode", func(c *Config) { c.DBSchemaMode = "auto" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
