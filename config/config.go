// Package config loads builder settings from YAML and turns them into
// fluentquery options.
//
// A config names its database either through the driver key or through a
// DSN. When only a DSN is present the driver is detected from it:
//
//	driver: postgres
//	prefix: app_
//	debug: true
//
//	dsn: "user:secret@tcp(localhost:3306)/shop?parseTime=true"
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	fluentquery "github.com/biyonik/go-fluent-query"
	"github.com/biyonik/go-fluent-query/dialect"
)

// ErrInvalidConfig is returned for a config that names no usable driver.
var ErrInvalidConfig = errors.New("fluentquery: invalid config")

// Config describes the database a builder compiles for.
type Config struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`

	// Prefix is prepended to every table name.
	Prefix string `yaml:"prefix"`
	// Debug logs every compiled query.
	Debug bool `yaml:"debug"`
	// PlaceholderRewrite turns ":param_" tokens into "?". Defaults to true.
	PlaceholderRewrite *bool `yaml:"placeholder_rewrite"`
}

// DefaultConfig returns a MySQL config for localhost.
func DefaultConfig() *Config {
	return &Config{
		Driver:  "mysql",
		Host:    "localhost",
		Port:    3306,
		Charset: "utf8mb4",
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fluentquery: read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig. A DSN without a driver clears the
// default driver so that it is detected from the DSN.
func Parse(data []byte) (*Config, error) {
	var raw Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fluentquery: parse config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("fluentquery: parse config: %w", err)
	}
	if raw.Driver == "" && raw.DSN != "" {
		cfg.Driver = ""
	}

	if _, err := cfg.ResolveDriver(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveDriver returns the configured driver, or detects it from the DSN.
func (c *Config) ResolveDriver() (dialect.Driver, error) {
	if strings.TrimSpace(c.Driver) != "" {
		d, err := dialect.ParseDriver(c.Driver)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return d, nil
	}
	if c.DSN == "" {
		return "", fmt.Errorf("%w: neither driver nor dsn is set", ErrInvalidConfig)
	}
	return detectDriver(c.DSN)
}

func detectDriver(dsn string) (dialect.Driver, error) {
	lower := strings.ToLower(dsn)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		if _, err := pq.ParseURL(dsn); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return dialect.PgSQL, nil
	case strings.HasPrefix(lower, "sqlserver://"):
		return dialect.SQLServer, nil
	case strings.HasPrefix(lower, "oracle://"):
		return dialect.Oracle, nil
	case strings.HasPrefix(lower, "file:"), lower == ":memory:",
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return dialect.SQLite, nil
	}

	if _, err := mysql.ParseDSN(dsn); err != nil {
		return "", fmt.Errorf("%w: unrecognised dsn: %w", ErrInvalidConfig, err)
	}
	return dialect.MySQL, nil
}

// DataSourceName returns the DSN, building it from the connection fields
// when none is set.
func (c *Config) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}

	d, err := c.ResolveDriver()
	if err != nil {
		return "", err
	}

	switch d {
	case dialect.MySQL:
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.address()
		mc.DBName = c.Database
		mc.ParseTime = true
		if c.Charset != "" {
			mc.Params = map[string]string{"charset": c.Charset}
		}
		return mc.FormatDSN(), nil
	case dialect.PgSQL:
		u := url.URL{Scheme: "postgres", Host: c.address(), Path: "/" + c.Database}
		if c.Username != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		return u.String(), nil
	case dialect.SQLite:
		if c.Database == "" {
			return ":memory:", nil
		}
		return c.Database, nil
	default:
		return "", fmt.Errorf("%w: cannot build a dsn for %s", ErrInvalidConfig, d)
	}
}

func (c *Config) address() string {
	if c.Port <= 0 {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Options converts the config to builder options. extra options are applied
// after the config's own.
func (c *Config) Options(extra ...fluentquery.Option) ([]fluentquery.Option, error) {
	d, err := c.ResolveDriver()
	if err != nil {
		return nil, err
	}

	opts := []fluentquery.Option{
		fluentquery.WithDriver(d),
		fluentquery.WithTablePrefix(c.Prefix),
		fluentquery.WithDebug(c.Debug),
	}
	if c.PlaceholderRewrite != nil && !*c.PlaceholderRewrite {
		opts = append(opts, fluentquery.WithoutPlaceholderRewrite())
	}
	return append(opts, extra...), nil
}

// NewBuilder returns a builder configured by c.
func (c *Config) NewBuilder(extra ...fluentquery.Option) (*fluentquery.Builder, error) {
	opts, err := c.Options(extra...)
	if err != nil {
		return nil, err
	}
	return fluentquery.New(opts...), nil
}
