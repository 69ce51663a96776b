package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `yaml:"app" mapstructure:"app"`
	Telegram  TelegramConfig  `yaml:"telegram" mapstructure:"telegram"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Monitor   MonitorConfig   `yaml:"monitor" mapstructure:"monitor"`
	Filters   FiltersConfig   `yaml:"filters" mapstructure:"filters"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
}

type AppConfig struct {
	Environment string `yaml:"environment" mapstructure:"environment"`
	LogLevel    string `yaml:"log_level" mapstructure:"log_level"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" mapstructure:"bot_token"`
	ChatID   int64  `yaml:"chat_id" mapstructure:"chat_id"`
	GroupID  int64  `yaml:"group_id" mapstructure:"group_id"`
	AdminID  int64  `yaml:"admin_id" mapstructure:"admin_id"`
	Debug    bool   `yaml:"debug" mapstructure:"debug"`
}

type ProvidersConfig struct {
	HeliusAPIKey   string `yaml:"helius_api_key" mapstructure:"helius_api_key"`
	AlchemyAPIKey  string `yaml:"alchemy_api_key" mapstructure:"alchemy_api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type MonitorConfig struct {
	// Per-whale delay within a tier cycle, milliseconds. Throughput control
	// for third-party rate limits, not a correctness requirement.
	PerWhaleDelayMs int `yaml:"per_whale_delay_ms" mapstructure:"per_whale_delay_ms"`
	// Floors between re-checks of the same item, seconds.
	SellRecheckSeconds int `yaml:"sell_recheck_seconds" mapstructure:"sell_recheck_seconds"`
	PerfRecheckSeconds int `yaml:"perf_recheck_seconds" mapstructure:"perf_recheck_seconds"`
}

type FiltersConfig struct {
	MCMin       float64 `yaml:"mc_min" mapstructure:"mc_min"`
	MCMax       float64 `yaml:"mc_max" mapstructure:"mc_max"`
	LiqMin      float64 `yaml:"liq_min" mapstructure:"liq_min"`
	VolLiqMax   float64 `yaml:"vol_liq_max" mapstructure:"vol_liq_max"`
	BuySellMax  float64 `yaml:"buy_sell_max" mapstructure:"buy_sell_max"`
	MinTxns     int     `yaml:"min_txns" mapstructure:"min_txns"`
	MinAgeHours float64 `yaml:"min_age_hours" mapstructure:"min_age_hours"`
}

type StorageConfig struct {
	RosterPath      string `yaml:"roster_path" mapstructure:"roster_path"`
	StatePath       string `yaml:"state_path" mapstructure:"state_path"`
	WriteDebounceMs int    `yaml:"write_debounce_ms" mapstructure:"write_debounce_ms"`
}

type RedisConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", config.Telegram.BotToken)
	config.Telegram.ChatID = getEnvInt64("TELEGRAM_CHAT_ID", config.Telegram.ChatID)
	config.Telegram.GroupID = getEnvInt64("TELEGRAM_GROUP_ID", config.Telegram.GroupID)
	config.Telegram.AdminID = getEnvInt64("TELEGRAM_ADMIN_ID", config.Telegram.AdminID)
	config.Providers.HeliusAPIKey = getEnv("HELIUS_API_KEY", config.Providers.HeliusAPIKey)
	config.Providers.AlchemyAPIKey = getEnv("ALCHEMY_API_KEY", config.Providers.AlchemyAPIKey)
	config.Redis.Password = getEnv("REDIS_PASSWORD", config.Redis.Password)

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("providers.timeout_seconds", 10)

	viper.SetDefault("monitor.per_whale_delay_ms", 500)
	viper.SetDefault("monitor.sell_recheck_seconds", 120)
	viper.SetDefault("monitor.perf_recheck_seconds", 60)

	viper.SetDefault("filters.mc_min", 100_000)
	viper.SetDefault("filters.mc_max", 10_000_000)
	viper.SetDefault("filters.liq_min", 10_000)
	viper.SetDefault("filters.vol_liq_max", 10)
	viper.SetDefault("filters.buy_sell_max", 5)
	viper.SetDefault("filters.min_txns", 50)
	viper.SetDefault("filters.min_age_hours", 1)

	viper.SetDefault("storage.roster_path", "whales_tiered_final.json")
	viper.SetDefault("storage.state_path", "bot_state.json")
	viper.SetDefault("storage.write_debounce_ms", 2000)

	viper.SetDefault("api.addr", ":8080")
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	if c.Telegram.ChatID == 0 && c.Telegram.GroupID == 0 {
		return fmt.Errorf("at least one of telegram.chat_id or telegram.group_id is required")
	}

	if c.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}

	if c.Providers.HeliusAPIKey == "" {
		return fmt.Errorf("providers.helius_api_key is required")
	}

	if c.Storage.RosterPath == "" {
		return fmt.Errorf("storage.roster_path is required")
	}

	if c.Storage.StatePath == "" {
		return fmt.Errorf("storage.state_path is required")
	}

	// Alchemy is only needed when Base whales are in the roster, so it is
	// validated lazily by the provider, not here.

	return nil
}

func (c *Config) SafeString() string {
	return fmt.Sprintf(`Config:
		Environment: %s
		Log Level: %s

		Telegram:
			Bot Token: %s
			Chat: %d
			Group: %d
			Admin: %d

		Providers:
			Helius: %s
			Alchemy: %s
			Timeout: %ds

		Monitor:
			Per-Whale Delay: %dms
			Sell Recheck: %ds
			Perf Recheck: %ds

		Filters:
			MC: $%.0f - $%.0f
			Min Liquidity: $%.0f
			Max Vol/Liq: %.1f
			Buy/Sell: 0.3 - %.1f
			Min Txns: %d
			Min Age: %.1fh

		Storage:
			Roster: %s
			State: %s
			Debounce: %dms

		Redis:
			Host: %s:%s

		API:
			Enabled: %t
			Addr: %s
		`,
		c.App.Environment,
		c.App.LogLevel,
		maskSecret(c.Telegram.BotToken),
		c.Telegram.ChatID,
		c.Telegram.GroupID,
		c.Telegram.AdminID,
		maskSecret(c.Providers.HeliusAPIKey),
		maskSecret(c.Providers.AlchemyAPIKey),
		c.Providers.TimeoutSeconds,
		c.Monitor.PerWhaleDelayMs,
		c.Monitor.SellRecheckSeconds,
		c.Monitor.PerfRecheckSeconds,
		c.Filters.MCMin,
		c.Filters.MCMax,
		c.Filters.LiqMin,
		c.Filters.VolLiqMax,
		c.Filters.BuySellMax,
		c.Filters.MinTxns,
		c.Filters.MinAgeHours,
		c.Storage.RosterPath,
		c.Storage.StatePath,
		c.Storage.WriteDebounceMs,
		c.Redis.Host,
		c.Redis.Port,
		c.API.Enabled,
		c.API.Addr,
	)
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}

	return parsed
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}

	if len(s) <= 8 {
		return "***"
	}

	return s[:4] + "..." + s[len(s)-4:]
}
