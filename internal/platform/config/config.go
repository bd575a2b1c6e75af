package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"readify-backend/internal/library/policy"
)

const DefaultPath = "config/config.yaml"

type Certs struct {
	Cert string `mapstructure:"cert" yaml:"cert"`
	Key  string `mapstructure:"key" yaml:"key"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr" yaml:"addr"`
	TLS         Certs    `mapstructure:"tls" yaml:"tls"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	// mysql | memory
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	DBName   string `mapstructure:"dbname" yaml:"dbname"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}

// LibraryConfig は貸出・延滞金・予約のポリシー値
type LibraryConfig struct {
	DailyFineRate         string `mapstructure:"daily_fine_rate" yaml:"daily_fine_rate"`
	MaxFineDays           int    `mapstructure:"max_fine_days" yaml:"max_fine_days"`
	LoanPeriodDays        int    `mapstructure:"loan_period_days" yaml:"loan_period_days"`
	ReservationPeriodDays int    `mapstructure:"reservation_period_days" yaml:"reservation_period_days"`
}

type Config struct {
	Version  string         `mapstructure:"version" yaml:"version"`
	Mode     string         `mapstructure:"mode" yaml:"mode"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Library  LibraryConfig  `mapstructure:"library" yaml:"library"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0.0")
	v.SetDefault("mode", "dev")
	v.SetDefault("server.addr", ":8443")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "readify")
	v.SetDefault("database.dbname", "readify")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("library.daily_fine_rate", "5.00")
	v.SetDefault("library.max_fine_days", 30)
	v.SetDefault("library.loan_period_days", 14)
	v.SetDefault("library.reservation_period_days", 7)
}

// Load は YAML を読み、READIFY_* 環境変数で上書きする。
// ファイルが無い場合はデフォルト値と環境変数だけで組み立てる
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("READIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Mode != "dev" && c.Mode != "release" {
		return fmt.Errorf("mode must be dev or release: %q", c.Mode)
	}
	switch c.Database.Driver {
	case "mysql", "memory":
	default:
		return fmt.Errorf("database.driver must be mysql or memory: %q", c.Database.Driver)
	}
	if c.Mode == "release" && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required in release mode")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy は library セクションをエンジン用の値に変換する
func (c *Config) Policy() (policy.Policy, error) {
	rate, err := decimal.NewFromString(c.Library.DailyFineRate)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("library.daily_fine_rate: %w", err)
	}
	p := policy.Policy{
		DailyFineRate:         rate,
		MaxFineDays:           c.Library.MaxFineDays,
		LoanPeriodDays:        c.Library.LoanPeriodDays,
		ReservationPeriodDays: c.Library.ReservationPeriodDays,
	}
	if err := p.Validate(); err != nil {
		return policy.Policy{}, fmt.Errorf("library: %w", err)
	}
	return p, nil
}

// Default は設定ファイル未作成時の雛形
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Save は yaml.v3 で書き出す
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
