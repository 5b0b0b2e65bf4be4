package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"kavak-credito/internal/domain/policy"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	DB          DBConfig          `mapstructure:"db"`
	MySQL       MySQLConfig       `mapstructure:"mysql"`
	SQLite      SQLiteConfig      `mapstructure:"sqlite"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Log         LoggingConfig     `mapstructure:"log"`

	DefaultCountry string       `mapstructure:"default_country"`
	Policies       []PolicySeed `mapstructure:"policies"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"` // mysql, sqlite
	LogLevel string `mapstructure:"log_level"`
}

type MySQLConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	DB   string `mapstructure:"db"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	DB   int    `mapstructure:"db"`
}

type IdempotencyConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type SimulationConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"` // 0 disables
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"` // empty disables publishing
	Topic   string   `mapstructure:"topic"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputFile string `mapstructure:"output_file"` // optional file output
}

// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("mysql.host", "mysql")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("mysql.db", "kavak_credito")
	v.SetDefault("mysql.user", "kavak")
	v.SetDefault("mysql.pass", "kavak")
	v.SetDefault("sqlite.path", "kavak_credito.db")
	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("idempotency.ttl_seconds", 300)
	v.SetDefault("simulation.ttl_seconds", 86400)
	v.SetDefault("rate_limit.per_second", 20)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "employee-activity")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_file", "")
	v.SetDefault("default_country", "AR")
}

// Load reads the optional YAML file at path, then applies environment
// overrides (APP_PORT, MYSQL_HOST, REDIS_ADDR, ...). An empty path means
// environment and defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	c.DefaultCountry = strings.ToUpper(strings.TrimSpace(c.DefaultCountry))
	c.Kafka.Brokers = compact(c.Kafka.Brokers)
	if len(c.Policies) == 0 {
		c.Policies = DefaultPolicies()
	}
	return &c, nil
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "mysql":
		if c.MySQL.Host == "" || c.MySQL.Port == "" || c.MySQL.DB == "" || c.MySQL.User == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQL.Port); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQL.Port, err)
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (mysql, sqlite)", c.DB.Driver)
	}
	if c.App.Port == "" {
		return errors.New("missing APP_PORT")
	}
	if c.Redis.Addr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.Idempotency.TTLSeconds <= 0 || c.Simulation.TTLSeconds <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS and SIMULATION_TTL_SECONDS must be positive")
	}
	if c.RateLimit.PerSecond < 0 {
		return errors.New("RATE_LIMIT_PER_SECOND must not be negative")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("missing KAFKA_TOPIC")
	}

	seen := make(map[string]bool, len(c.Policies))
	for _, p := range c.Policies {
		code := strings.ToUpper(p.CountryCode)
		if seen[code] {
			return fmt.Errorf("policy for %s configured twice", code)
		}
		seen[code] = true
		if _, err := p.Model().ToPolicy(); err != nil {
			return fmt.Errorf("policy %s: %w", code, err)
		}
	}
	if !seen[c.DefaultCountry] {
		return fmt.Errorf("DEFAULT_COUNTRY %q has no configured policy", c.DefaultCountry)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.Idempotency.TTLSeconds) * time.Second
}

func (c *Config) SimulationTTL() time.Duration {
	return time.Duration(c.Simulation.TTLSeconds) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQL.Host, c.MySQL.Port) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQL.User, c.MySQL.Pass, c.mysqlAddr(), c.MySQL.DB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DB.Driver == "sqlite" {
		return c.SQLite.Path
	}
	return c.MySQLDSN()
}

// Model converts the seed into the persisted policy row.
func (s PolicySeed) Model() *policy.JurisdictionPolicy {
	p := &policy.JurisdictionPolicy{
		CountryCode:      strings.ToUpper(s.CountryCode),
		Currency:         strings.ToUpper(s.Currency),
		CurrencyDecimals: s.CurrencyDecimals,
		MinPercentage:    s.MinPercentage,
		MaxPercentage:    s.MaxPercentage,
		MaxScenarios:     s.MaxScenarios,
		MinInstallments:  s.MinInstallments,
		MaxInstallments:  s.MaxInstallments,
		InstallmentStep:  s.InstallmentStep,
		UpdatedBy:        "seed",
	}
	for _, t := range s.RateTiers {
		p.RateTiers = append(p.RateTiers, policy.RateTier{
			UpToInstallments:  t.UpToInstallments,
			NominalAnnualRate: t.NominalAnnualRate,
		})
	}
	for _, l := range s.LeverageSpreads {
		p.LeverageSpreads = append(p.LeverageSpreads, policy.LeverageSpread{
			AbovePercentage: l.AbovePercentage,
			Spread:          l.Spread,
		})
	}
	return p
}

// PolicyModels returns the configured seeds as persistable rows.
func (c *Config) PolicyModels() []*policy.JurisdictionPolicy {
	out := make([]*policy.JurisdictionPolicy, 0, len(c.Policies))
	for _, s := range c.Policies {
		out = append(out, s.Model())
	}
	return out
}
