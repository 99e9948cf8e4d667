package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"` // csv or yahoo
		PriceDir string `yaml:"price_dir"`
		NewsFile string `yaml:"news_file"`
		Lookback int    `yaml:"lookback"`
		Proxy    string `yaml:"proxy"`
	} `yaml:"data_source"`
	Indicators struct {
		SMAWindow  int `yaml:"sma_window"`
		RSIWindow  int `yaml:"rsi_window"`
		MACDFast   int `yaml:"macd_fast"`
		MACDSlow   int `yaml:"macd_slow"`
		MACDSignal int `yaml:"macd_signal"`
	} `yaml:"indicators"`
	Sentiment struct {
		Lag    int  `yaml:"lag"`
		MaxLag int  `yaml:"max_lag"`
		Score  bool `yaml:"score_missing"`
	} `yaml:"sentiment"`
	Portfolio struct {
		// Weights are decimal strings so the sum check is exact.
		Weights      map[string]string `yaml:"weights"`
		RiskFreeRate float64           `yaml:"risk_free_rate"`
		TradingDays  int               `yaml:"trading_days"`
	} `yaml:"portfolio"`
	EDA struct {
		TopKeywords int      `yaml:"top_keywords"`
		Symbols     []string `yaml:"symbols"`
	} `yaml:"eda"`
	Watchlist []string `yaml:"watchlist"`
	Schedule  struct {
		DailyCron     string `yaml:"daily_cron"`
		PortfolioCron string `yaml:"portfolio_cron"`
		Workers       int    `yaml:"workers"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level   string `yaml:"level"`
		Format  string `yaml:"format"`
		Tracing bool   `yaml:"tracing"`
	} `yaml:"log"`
}

// PathFromEnv returns $CONFIG_PATH or DefaultPath.
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("PRICE_DIR"); v != "" {
		c.DataSource.PriceDir = v
	}
	if v := os.Getenv("NEWS_FILE"); v != "" {
		c.DataSource.NewsFile = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.DataSource.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = splitList(v)
	}
	if v := os.Getenv("SENTIMENT_LAG"); v != "" {
		if lag, err := strconv.Atoi(v); err == nil {
			c.Sentiment.Lag = lag
		}
	}
	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		if rf, err := strconv.ParseFloat(v, 64); err == nil {
			c.Portfolio.RiskFreeRate = rf
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		c.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("LOG_TRACING_ENABLED"); v != "" {
		c.Log.Tracing = v == "true"
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "csv"
	}
	if c.DataSource.PriceDir == "" {
		c.DataSource.PriceDir = "data/yfinance_data"
	}
	if c.DataSource.NewsFile == "" {
		c.DataSource.NewsFile = "data/raw_analyst_ratings.csv"
	}
	if c.DataSource.Lookback == 0 {
		c.DataSource.Lookback = 400
	}
	setDefault(&c.Indicators.SMAWindow, 20)
	setDefault(&c.Indicators.RSIWindow, 14)
	setDefault(&c.Indicators.MACDFast, 12)
	setDefault(&c.Indicators.MACDSlow, 26)
	setDefault(&c.Indicators.MACDSignal, 9)
	setDefault(&c.Sentiment.MaxLag, 5)
	setDefault(&c.Portfolio.TradingDays, 252)
	setDefault(&c.EDA.TopKeywords, 20)
	setDefault(&c.Schedule.Workers, 4)
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if c.Schedule.PortfolioCron == "" {
		c.Schedule.PortfolioCron = "0 0 23 * * 5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/marketlens.db"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	for i, s := range c.Watchlist {
		c.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "csv":
		if c.DataSource.PriceDir == "" {
			return fmt.Errorf("data_source.price_dir is required for the csv provider")
		}
	case "yahoo":
	default:
		return fmt.Errorf("data_source.provider must be csv or yahoo, got %q", c.DataSource.Provider)
	}
	ind := c.Indicators
	if ind.SMAWindow < 1 || ind.RSIWindow < 1 || ind.MACDFast < 1 || ind.MACDSignal < 1 {
		return fmt.Errorf("indicator windows must be positive")
	}
	if ind.MACDFast >= ind.MACDSlow {
		return fmt.Errorf("indicators.macd_fast (%d) must be below macd_slow (%d)", ind.MACDFast, ind.MACDSlow)
	}
	if c.Sentiment.Lag < 0 || c.Sentiment.MaxLag < 0 {
		return fmt.Errorf("sentiment lags must not be negative")
	}
	if len(c.Portfolio.Weights) > 0 {
		if _, err := c.PortfolioWeights(); err != nil {
			return err
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether reports should be pushed to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

var weightTolerance = decimal.New(1, -6)

// PortfolioWeights parses the configured weights and checks that they sum to 1.
func (c *Config) PortfolioWeights() (map[string]float64, error) {
	if len(c.Portfolio.Weights) == 0 {
		return nil, fmt.Errorf("portfolio.weights is empty")
	}
	sum := decimal.Zero
	out := make(map[string]float64, len(c.Portfolio.Weights))
	for sym, raw := range c.Portfolio.Weights {
		w, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("portfolio.weights.%s: %w", sym, err)
		}
		sum = sum.Add(w)
		out[strings.ToUpper(sym)] = w.InexactFloat64()
	}
	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(weightTolerance) {
		return nil, fmt.Errorf("portfolio.weights sum to %s, want 1", sum.String())
	}
	return out, nil
}
