package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	sandboxEndpoint    = "https://test.3dsecure.gpwebpay.com/pgw/order.do"
	productionEndpoint = "https://3dsecure.gpwebpay.com/pgw/order.do"
)

type Config struct {
	Server   ServerConfig
	Gateway  GatewayConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	TTL      TTLConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port           int
	Host           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	TrustedProxies []string
}

// GatewayConfig holds the GP webpay merchant credentials and endpoints.
// MerchantNumber, key material paths and the key passphrase are mandatory:
// the service refuses to start without a usable signer.
type GatewayConfig struct {
	MerchantNumber     string
	Endpoint           string
	Sandbox            bool
	PrivateKeyPath     string
	PublicCertPath     string
	KeyPassphrase      string
	ReturnURL          string
	DefaultDescription string
	DefaultLanguage    string
	UseRedirect        bool
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	KeyPrefix    string
	PoolSize     int
	MinIdleConns int
}

type PostgresConfig struct {
	Host                  string
	Port                  int
	User                  string
	Password              string
	DB                    string
	SSLMode               string
	MaxConnections        int
	MaxIdleConnections    int
	ConnectionMaxLifetime time.Duration
}

type TTLConfig struct {
	OrderRecord       int
	ProcessedCallback int
}

type LoggingConfig struct {
	Level    string
	Encoding string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("GATEWAY_SANDBOX", true)
	viper.SetDefault("GATEWAY_USE_REDIRECT", true)
	viper.SetDefault("GATEWAY_DEFAULT_LANGUAGE", "en")
	viper.SetDefault("POSTGRES_SSL_MODE", "disable")
	viper.SetDefault("POSTGRES_CONNECTION_MAX_LIFETIME", "1h")
	viper.SetDefault("ORDER_RECORD_TTL", 2592000)     // 30 days
	viper.SetDefault("PROCESSED_CALLBACK_TTL", 86400) // 1 day

	readTimeout, err := parseDurationWithDefault(viper.GetString("SERVER_READ_TIMEOUT"), 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := parseDurationWithDefault(viper.GetString("SERVER_WRITE_TIMEOUT"), 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetInt("SERVER_PORT"),
			Host:           viper.GetString("SERVER_HOST"),
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			TrustedProxies: splitList(viper.GetString("SERVER_TRUSTED_PROXIES")),
		},
		Gateway: GatewayConfig{
			MerchantNumber:     viper.GetString("GATEWAY_MERCHANT_NUMBER"),
			Endpoint:           resolveEndpoint(viper.GetString("GATEWAY_ENDPOINT"), viper.GetBool("GATEWAY_SANDBOX")),
			Sandbox:            viper.GetBool("GATEWAY_SANDBOX"),
			PrivateKeyPath:     viper.GetString("GATEWAY_PRIVATE_KEY_PATH"),
			PublicCertPath:     viper.GetString("GATEWAY_PUBLIC_CERT_PATH"),
			KeyPassphrase:      viper.GetString("GATEWAY_KEY_PASSPHRASE"),
			ReturnURL:          viper.GetString("GATEWAY_RETURN_URL"),
			DefaultDescription: viper.GetString("GATEWAY_DEFAULT_DESCRIPTION"),
			DefaultLanguage:    viper.GetString("GATEWAY_DEFAULT_LANGUAGE"),
			UseRedirect:        viper.GetBool("GATEWAY_USE_REDIRECT"),
		},
		Redis: RedisConfig{
			Host:         viper.GetString("REDIS_HOST"),
			Port:         viper.GetInt("REDIS_PORT"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			KeyPrefix:    viper.GetString("REDIS_KEY_PREFIX"),
			PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		Postgres: func() PostgresConfig {
			connMaxLifetime, _ := parseDurationWithDefault(viper.GetString("POSTGRES_CONNECTION_MAX_LIFETIME"), time.Hour)
			return PostgresConfig{
				Host:                  viper.GetString("POSTGRES_HOST"),
				Port:                  viper.GetInt("POSTGRES_PORT"),
				User:                  viper.GetString("POSTGRES_USER"),
				Password:              viper.GetString("POSTGRES_PASSWORD"),
				DB:                    viper.GetString("POSTGRES_DB"),
				SSLMode:               viper.GetString("POSTGRES_SSL_MODE"),
				MaxConnections:        viper.GetInt("POSTGRES_MAX_CONNECTIONS"),
				MaxIdleConnections:    viper.GetInt("POSTGRES_MAX_IDLE_CONNECTIONS"),
				ConnectionMaxLifetime: connMaxLifetime,
			}
		}(),
		TTL: TTLConfig{
			OrderRecord:       viper.GetInt("ORDER_RECORD_TTL"),
			ProcessedCallback: viper.GetInt("PROCESSED_CALLBACK_TTL"),
		},
		Logging: LoggingConfig{
			Level:    viper.GetString("LOG_LEVEL"),
			Encoding: viper.GetString("LOG_ENCODING"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.validateGateway(); err != nil {
		return fmt.Errorf("gateway config: %w", err)
	}
	if err := c.validateRedis(); err != nil {
		return fmt.Errorf("redis config: %w", err)
	}
	if err := c.validatePostgres(); err != nil {
		return fmt.Errorf("postgres config: %w", err)
	}
	if err := c.validateTTL(); err != nil {
		return fmt.Errorf("ttl config: %w", err)
	}
	return nil
}

func (c *Config) validateGateway() error {
	if c.Gateway.MerchantNumber == "" {
		return fmt.Errorf("merchant number is required")
	}
	if c.Gateway.PrivateKeyPath == "" {
		return fmt.Errorf("private key path is required")
	}
	if c.Gateway.PublicCertPath == "" {
		return fmt.Errorf("public certificate path is required")
	}
	if c.Gateway.KeyPassphrase == "" {
		return fmt.Errorf("key passphrase is required")
	}
	if c.Gateway.ReturnURL == "" {
		return fmt.Errorf("return url is required")
	}
	return nil
}

func (c *Config) validateRedis() error {
	if c.Redis.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Redis.Port == 0 {
		return fmt.Errorf("port is required")
	}
	return nil
}

func (c *Config) validatePostgres() error {
	if c.Postgres.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Postgres.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.Postgres.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.Postgres.DB == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}

func (c *Config) validateTTL() error {
	if c.TTL.OrderRecord <= 0 {
		return fmt.Errorf("order record ttl must be greater than 0")
	}
	if c.TTL.ProcessedCallback <= 0 {
		return fmt.Errorf("processed callback ttl must be greater than 0")
	}
	return nil
}

// resolveEndpoint picks the gateway order endpoint. An explicit endpoint
// wins; otherwise the sandbox flag chooses between the test and production
// GP webpay hosts.
func resolveEndpoint(endpoint string, sandbox bool) string {
	if endpoint == "" {
		if sandbox {
			return sandboxEndpoint
		}
		return productionEndpoint
	}
	return endpoint
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d, nil
}

func parseDurationWithDefault(s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	return parseDuration(s)
}
