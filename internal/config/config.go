package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// Values come from env, optionally layered over a YAML file named by CONFIG_FILE.
// No business logic should depend on raw environment variables.
type Config struct {
	App   AppConfig   `yaml:"app"`
	DB    DBConfig    `yaml:"db"`
	Redis RedisConfig `yaml:"redis"`
	Auth  AuthConfig  `yaml:"auth"`
}

type AppConfig struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string `yaml:"sslmode"`

	// AutoMigrate applies embedded migrations on startup.
	AutoMigrate bool `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTRefreshSecret string        `yaml:"jwt_refresh_secret"`
	JWTIssuer        string        `yaml:"jwt_issuer"`
	JWTAudience      string        `yaml:"jwt_audience"`
	AccessTokenTTL   time.Duration `yaml:"access_ttl"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_ttl"`

	BcryptCost int `yaml:"bcrypt_cost"`

	// RateLimitPerMinute caps signup/login attempts per client IP. 0 disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultBcryptCost = 12
	defaultRateLimit  = 20
)

func Load() (Config, error) {
	c := Config{}
	c.Auth.RateLimitPerMinute = -1

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		c = fc
	}

	var parseErrs []error
	collect := func(err error) {
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
	}

	envString(&c.App.Env, "APP_ENV")
	collect(envInt(&c.App.Port, "APP_PORT"))

	envString(&c.DB.Host, "DB_HOST")
	collect(envInt(&c.DB.Port, "DB_PORT"))
	envString(&c.DB.User, "DB_USER")
	envSecret(&c.DB.Password, "DB_PASSWORD")
	envString(&c.DB.Name, "DB_NAME")
	envString(&c.DB.SSLMode, "DB_SSLMODE")
	collect(envBool(&c.DB.AutoMigrate, "DB_AUTO_MIGRATE"))

	envString(&c.Redis.Host, "REDIS_HOST")
	collect(envInt(&c.Redis.Port, "REDIS_PORT"))
	envSecret(&c.Redis.Password, "REDIS_PASSWORD")

	envSecret(&c.Auth.JWTSecret, "JWT_SECRET")
	envSecret(&c.Auth.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	envString(&c.Auth.JWTIssuer, "JWT_ISSUER")
	envString(&c.Auth.JWTAudience, "JWT_AUDIENCE")
	collect(envDuration(&c.Auth.AccessTokenTTL, "JWT_ACCESS_TTL"))
	collect(envDuration(&c.Auth.RefreshTokenTTL, "JWT_REFRESH_TTL"))
	collect(envInt(&c.Auth.BcryptCost, "BCRYPT_COST"))
	collect(envInt(&c.Auth.RateLimitPerMinute, "AUTH_RATE_LIMIT"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate applies env-aware defaults and reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if strings.TrimSpace(c.DB.SSLMode) == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.JWTRefreshSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is required"))
	} else if c.Auth.JWTRefreshSecret == c.Auth.JWTSecret {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET must differ from JWT_SECRET"))
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}

	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = defaultAccessTTL
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = defaultRefreshTTL
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TTL must be greater than JWT_ACCESS_TTL"))
	}

	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = defaultBcryptCost
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}

	// -1 marks "not configured"; an explicit 0 disables limiting.
	if c.Auth.RateLimitPerMinute < 0 {
		c.Auth.RateLimitPerMinute = defaultRateLimit
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func envString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// envSecret keeps surrounding whitespace; secrets are taken verbatim.
func envSecret(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	*dst = n
	return nil
}

func envBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	*dst = b
	return nil
}

func envDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	*dst = d
	return nil
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
