package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	DB    *Postgres `yaml:"database"`
	RMQ   *RabbitMQ `yaml:"rabbitmq"`
	Redis *Redis    `yaml:"redis"`
	Auth  *Auth     `yaml:"auth"`
	SMTP  *SMTP     `yaml:"smtp"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type SMTP struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	From       string `yaml:"from"`
	Recipients string `yaml:"recipients"` // comma-separated cashier inbox list
}

// LoadConfig reads the config file and applies environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	cnf := &Config{
		DB:    &Postgres{},
		RMQ:   &RabbitMQ{},
		Redis: &Redis{},
		Auth:  &Auth{},
		SMTP:  &SMTP{},
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := simpleYAMLUnmarshal(data, cnf); err != nil {
		return nil, err
	}

	cnf.Auth.JWTSecret = getEnv("JWT_SECRET", cnf.Auth.JWTSecret)
	cnf.DB.Password = getEnv("POSTGRES_PASSWORD", cnf.DB.Password)
	cnf.SMTP.Password = getEnv("SMTP_PASS", cnf.SMTP.Password)

	if cnf.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}
	return cnf, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// simpleYAMLUnmarshal parses the two-level section/key structure the
// config file uses. Not a general YAML parser.
func simpleYAMLUnmarshal(data []byte, config *Config) error {
	lines := strings.Split(string(data), "\n")
	currentSection := ""

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") && !strings.HasPrefix(raw, " ") && !strings.HasPrefix(raw, "\t") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		switch currentSection {
		case "database":
			setPostgresField(config.DB, key, value)
		case "rabbitmq":
			setRabbitMQField(config.RMQ, key, value)
		case "redis":
			setRedisField(config.Redis, key, value)
		case "auth":
			if key == "jwt_secret" {
				config.Auth.JWTSecret = value
			}
		case "smtp":
			setSMTPField(config.SMTP, key, value)
		}
	}

	return nil
}

func setPostgresField(pg *Postgres, key, value string) {
	switch key {
	case "host":
		pg.Host = value
	case "port":
		pg.Port = value
	case "user":
		pg.User = value
	case "password":
		pg.Password = value
	case "database":
		pg.Database = value
	}
}

func setRabbitMQField(rmq *RabbitMQ, key, value string) {
	switch key {
	case "host":
		rmq.Host = value
	case "port":
		rmq.Port = value
	case "user":
		rmq.User = value
	case "password":
		rmq.Password = value
	case "vhost":
		rmq.VHost = value
	}
}

func setRedisField(r *Redis, key, value string) {
	switch key {
	case "addr":
		r.Addr = value
	case "password":
		r.Password = value
	}
}

func setSMTPField(s *SMTP, key, value string) {
	switch key {
	case "host":
		s.Host = value
	case "port":
		s.Port = value
	case "user":
		s.User = value
	case "password":
		s.Password = value
	case "from":
		s.From = value
	case "recipients":
		s.Recipients = value
	}
}
