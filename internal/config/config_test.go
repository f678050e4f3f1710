package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/newthinker/sentiq/internal/core"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testing: failed to restore working directory: " + err.Error())
		}
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	chdir(t, t.TempDir())
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", `
data:
  sentiment_path: "data/fear_greed_index.csv"
  trades_path: "data/historical_data.csv"

backtest:
  initial_capital: 50000
  strategies: [momentum, contrarian]

strategies:
  contrarian:
    enabled: true
    params:
      buy_below: 25
      step: "0.05"

output:
  type: s3
  s3:
    bucket: sentiq-runs
    region: us-east-1
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.TradesPath != "data/historical_data.csv" {
		t.Errorf("expected trades path, got %s", cfg.Data.TradesPath)
	}
	if cfg.Backtest.InitialCapital != 50000 {
		t.Errorf("expected capital 50000, got %f", cfg.Backtest.InitialCapital)
	}
	if len(cfg.Backtest.Strategies) != 2 || cfg.Backtest.Strategies[0] != "momentum" {
		t.Errorf("expected [momentum contrarian], got %v", cfg.Backtest.Strategies)
	}
	if cfg.Strategies["contrarian"].Params["step"] != "0.05" {
		t.Errorf("expected step param, got %v", cfg.Strategies["contrarian"].Params)
	}
	if cfg.Output.Type != "s3" || cfg.Output.S3.Bucket != "sentiq-runs" {
		t.Errorf("expected s3 output, got %+v", cfg.Output)
	}

	// unset keys keep their defaults
	if cfg.Data.TradeTimeLayout != "02-01-2006 15:04" {
		t.Errorf("expected default layout, got %s", cfg.Data.TradeTimeLayout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level, got %s", cfg.Log.Level)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Backtest.InitialCapital != 100000 {
		t.Errorf("expected default capital, got %f", cfg.Backtest.InitialCapital)
	}
	if cfg.Output.Path != "./output" {
		t.Errorf("expected default output path, got %s", cfg.Output.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("expected ErrConfigMissing, got %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SENTIQ_DATA_SENTIMENT_PATH", "/env/sentiment.csv")
	t.Setenv("SENTIQ_BACKTEST_INITIAL_CAPITAL", "2500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Data.SentimentPath != "/env/sentiment.csv" {
		t.Errorf("expected env sentiment path, got %s", cfg.Data.SentimentPath)
	}
	if cfg.Backtest.InitialCapital != 2500 {
		t.Errorf("expected env capital, got %f", cfg.Backtest.InitialCapital)
	}
}

func TestLoad_ExpandsVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TEST_S3_SECRET", "s3cr3t")
	t.Setenv("TEST_DATA_DIR", "/srv/data")
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", `
data:
  trades_path: "${TEST_DATA_DIR}/trades.csv"
output:
  s3:
    secret_key: "${TEST_S3_SECRET}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Output.S3.SecretKey != "s3cr3t" {
		t.Errorf("expected expanded secret, got %q", cfg.Output.S3.SecretKey)
	}
	if cfg.Data.TradesPath != "/srv/data/trades.csv" {
		t.Errorf("expected expanded path, got %q", cfg.Data.TradesPath)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".env", "SENTIQ_DOTENV_ACCESS_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("SENTIQ_DOTENV_ACCESS_KEY") })

	cfgPath := writeFile(t, dir, "config.yaml", `
output:
  s3:
    access_key: "${SENTIQ_DOTENV_ACCESS_KEY}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Output.S3.AccessKey != "from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.Output.S3.AccessKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Backtest.InitialCapital != 100000 {
		t.Errorf("expected default capital 100000, got %f", cfg.Backtest.InitialCapital)
	}
	if len(cfg.Backtest.Strategies) != 3 {
		t.Errorf("expected 3 default strategies, got %v", cfg.Backtest.Strategies)
	}
	if cfg.Output.Type != "localfs" {
		t.Errorf("expected localfs output, got %s", cfg.Output.Type)
	}
}

func TestConfig_StrategyEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Strategies = map[string]StrategyConfig{
		"momentum":   {Enabled: false},
		"contrarian": {Enabled: true},
	}

	if cfg.StrategyEnabled("momentum") {
		t.Error("momentum should be disabled")
	}
	if !cfg.StrategyEnabled("contrarian") {
		t.Error("contrarian should be enabled")
	}
	if !cfg.StrategyEnabled("risk_parity") {
		t.Error("strategies without a section should be enabled")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := *Defaults()
		c.Data.SentimentPath = "s.csv"
		c.Data.TradesPath = "t.csv"
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   *core.Error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"missing sentiment path", func(c *Config) { c.Data.SentimentPath = "" }, core.ErrConfigMissing},
		{"missing trades path", func(c *Config) { c.Data.TradesPath = "" }, core.ErrConfigMissing},
		{"missing layout", func(c *Config) { c.Data.TradeTimeLayout = "" }, core.ErrConfigMissing},
		{"zero capital", func(c *Config) { c.Backtest.InitialCapital = 0 }, core.ErrConfigInvalid},
		{"duplicate strategy", func(c *Config) { c.Backtest.Strategies = []string{"momentum", "momentum"} }, core.ErrConfigInvalid},
		{"s3 without bucket", func(c *Config) { c.Output.Type = "s3" }, core.ErrConfigMissing},
		{"localfs without path", func(c *Config) { c.Output.Path = "" }, core.ErrConfigMissing},
		{"unknown output", func(c *Config) { c.Output.Type = "ftp" }, core.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}
