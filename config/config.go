package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Auth        AuthConfig        `mapstructure:"auth"`
	OAuth       OAuthConfig       `mapstructure:"oauth"`
	Market      MarketConfig      `mapstructure:"market"`
	Quota       QuotaConfig       `mapstructure:"quota"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Notifier    NotifierConfig    `mapstructure:"notifier"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql, postgres, sqlite
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	SSLMode      string `mapstructure:"sslmode"`
	Path         string `mapstructure:"path"` // sqlite 文件路径
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	TicketTTLSeconds int    `mapstructure:"ticket_ttl_seconds"`
}

type AuthConfig struct {
	Provider        string `mapstructure:"provider"` // emergent, github
	SessionDataURL  string `mapstructure:"session_data_url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	SessionTTLHours int    `mapstructure:"session_ttl_hours"`
	CookieName      string `mapstructure:"cookie_name"`
	CookieSecure    bool   `mapstructure:"cookie_secure"`
}

type OAuthConfig struct {
	Github GithubOAuthConfig `mapstructure:"github"`
}

type GithubOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type MarketConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	APIKey               string   `mapstructure:"api_key"`
	TimeoutSeconds       int      `mapstructure:"timeout_seconds"`        // 行情列表、K 线
	LookupTimeoutSeconds int      `mapstructure:"lookup_timeout_seconds"` // 预测时的单币种报价
	DefaultCurrency      string   `mapstructure:"default_currency"`
	Coins                []string `mapstructure:"coins"`
}

type QuotaConfig struct {
	InitialFreePredictions int `mapstructure:"initial_free_predictions"`
	DailyBonus             int `mapstructure:"daily_bonus"`
	BonusCooldownHours     int `mapstructure:"bonus_cooldown_hours"`
	ReferralBonus          int `mapstructure:"referral_bonus"`
	ReferralCodeLength     int `mapstructure:"referral_code_length"`
	ReferralCodeAttempts   int `mapstructure:"referral_code_attempts"`
}

type IdempotencyConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type NotifierConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Channel string `mapstructure:"channel"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
}

// SessionTTL 会话有效期
func (c *AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Timeout 身份交换请求超时
func (c *AuthConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *MarketConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *MarketConfig) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutSeconds) * time.Second
}

// BonusCooldown 两次每日奖励之间的最短间隔
func (c *QuotaConfig) BonusCooldown() time.Duration {
	return time.Duration(c.BonusCooldownHours) * time.Hour
}

func (c *JWTConfig) TicketTTL() time.Duration {
	return time.Duration(c.TicketTTLSeconds) * time.Second
}

func (c *IdempotencyConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "criptex")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "criptex.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ticket_ttl_seconds", 60)

	v.SetDefault("auth.provider", "emergent")
	v.SetDefault("auth.session_data_url", "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data")
	v.SetDefault("auth.timeout_seconds", 10)
	v.SetDefault("auth.session_ttl_hours", 7*24)
	v.SetDefault("auth.cookie_name", "session_token")
	v.SetDefault("auth.cookie_secure", true)

	v.SetDefault("oauth.github.client_id", "")
	v.SetDefault("oauth.github.client_secret", "")
	v.SetDefault("oauth.github.redirect_uri", "")

	v.SetDefault("market.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("market.api_key", "")
	v.SetDefault("market.timeout_seconds", 5)
	v.SetDefault("market.lookup_timeout_seconds", 3)
	v.SetDefault("market.default_currency", "usd")
	v.SetDefault("market.coins", []string{
		"bitcoin", "ethereum", "binancecoin", "cardano", "solana",
		"polkadot", "dogecoin", "avalanche-2", "chainlink", "polygon",
	})

	v.SetDefault("quota.initial_free_predictions", 5)
	v.SetDefault("quota.daily_bonus", 1)
	v.SetDefault("quota.bonus_cooldown_hours", 24)
	v.SetDefault("quota.referral_bonus", 1)
	v.SetDefault("quota.referral_code_length", 8)
	v.SetDefault("quota.referral_code_attempts", 5)

	v.SetDefault("idempotency.ttl_seconds", 24*60*60)

	v.SetDefault("notifier.host", "0.0.0.0")
	v.SetDefault("notifier.port", 8002)
	v.SetDefault("notifier.channel", "account_events")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func Load(configPath string) (*Config, error) {
	// .env 只补充进程环境变量，不存在时忽略
	_ = godotenv.Load(filepath.Join(filepath.Dir(configPath), ".env"))

	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	setDefaults(v)

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 没有配置文件时只使用默认值和环境变量
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
