package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/newthinker/sentiq/internal/core"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SENTIQ_DATA_TRADES_PATH
const EnvPrefix = "SENTIQ"

type Config struct {
	Data       DataConfig                `mapstructure:"data"`
	Backtest   BacktestConfig            `mapstructure:"backtest"`
	Strategies map[string]StrategyConfig `mapstructure:"strategies"`
	Output     OutputConfig              `mapstructure:"output"`
	Metrics    MetricsConfig             `mapstructure:"metrics"`
	Log        LogConfig                 `mapstructure:"log"`
	Alerts     AlertsConfig              `mapstructure:"alerts"`
}

// DataConfig locates the input files
type DataConfig struct {
	SentimentPath   string `mapstructure:"sentiment_path"`
	TradesPath      string `mapstructure:"trades_path"`
	TradeTimeLayout string `mapstructure:"trade_time_layout"` // Go time layout of the trade timestamp column
}

// BacktestConfig holds the simulation settings
type BacktestConfig struct {
	InitialCapital float64  `mapstructure:"initial_capital"`
	Strategies     []string `mapstructure:"strategies"` // run order; empty means every registered strategy
}

type StrategyConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Params  map[string]any `mapstructure:"params"`
}

// OutputConfig selects where run artifacts are written
type OutputConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"` // Prometheus text exposition output, written at end of run
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AlertsConfig holds threshold rules checked against every backtest's statistics.
type AlertsConfig struct {
	Rules []AlertRule `mapstructure:"rules"`
}

// AlertRule defines a single alert rule, e.g. expr "max_drawdown < -20".
type AlertRule struct {
	Name     string `mapstructure:"name"`
	Expr     string `mapstructure:"expr"`
	Severity string `mapstructure:"severity"`
	Message  string `mapstructure:"message"`
}

// Load reads configuration from file. An empty path yields the defaults
// with environment overrides applied. A .env file in the working directory
// is loaded first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("config file %s: %w", path, err))
			}
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.ExpandEnv(val))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data.sentiment_path", d.Data.SentimentPath)
	v.SetDefault("data.trades_path", d.Data.TradesPath)
	v.SetDefault("data.trade_time_layout", d.Data.TradeTimeLayout)
	v.SetDefault("backtest.initial_capital", d.Backtest.InitialCapital)
	v.SetDefault("backtest.strategies", d.Backtest.Strategies)
	v.SetDefault("output.type", d.Output.Type)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.s3.bucket", "")
	v.SetDefault("output.s3.endpoint", "")
	v.SetDefault("output.s3.region", "")
	v.SetDefault("output.s3.access_key", "")
	v.SetDefault("output.s3.secret_key", "")
	v.SetDefault("output.s3.prefix", "")
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	v.SetDefault("log.level", d.Log.Level)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Data: DataConfig{
			TradeTimeLayout: "02-01-2006 15:04",
		},
		Backtest: BacktestConfig{
			InitialCapital: 100000,
			Strategies:     []string{"contrarian", "momentum", "risk_parity"},
		},
		Output: OutputConfig{
			Type: "localfs",
			Path: "./output",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// StrategyEnabled reports whether a strategy is switched on. Strategies
// without a config section are enabled.
func (c *Config) StrategyEnabled(name string) bool {
	sc, ok := c.Strategies[name]
	return !ok || sc.Enabled
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Data validation
	if c.Data.SentimentPath == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("data.sentiment_path is required"))
	}
	if c.Data.TradesPath == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("data.trades_path is required"))
	}
	if c.Data.TradeTimeLayout == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("data.trade_time_layout is required"))
	}

	// Backtest validation
	if c.Backtest.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital must be positive, got %f", c.Backtest.InitialCapital))
	}
	seen := make(map[string]bool, len(c.Backtest.Strategies))
	for _, name := range c.Backtest.Strategies {
		if seen[name] {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("strategy %q listed twice", name))
		}
		seen[name] = true
	}

	// Output validation
	switch c.Output.Type {
	case "localfs":
		if c.Output.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("output.path required when type is localfs"))
		}
	case "s3":
		if c.Output.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("output.s3.bucket required when type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("output.type must be localfs or s3, got %q", c.Output.Type))
	}

	return nil
}
