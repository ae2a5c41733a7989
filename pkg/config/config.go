package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the platform reads.
const EnvPrefix = "ECOM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced in error messages.
const (
	EnvDBDSN  = "ECOM_DB_DSN"
	EnvDBHost = "ECOM_DB_HOST"
	EnvDBUser = "ECOM_DB_USER"
	EnvDBName = "ECOM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// Reference port assignment per service. Used as fallback when
// ECOM_APP_PORT is not set for a deployment.
const (
	DefaultGatewayPort          = "8080"
	DefaultUserServicePort      = "8081"
	DefaultProductServicePort   = "8082"
	DefaultInventoryServicePort = "8083"
	DefaultOrderServicePort     = "8084"
	DefaultPaymentServicePort   = "8085"
)

type Config struct {
	App            AppConfig
	DB             DBConfig
	Redis          RedisConfig
	Clients        ClientsConfig
	Password       PasswordConfig
	PaymentGateway PaymentGatewayConfig
	FeatureFlags   FeatureFlagsConfig
}

// Load parses the process environment into a Config. Each service binary
// runs with its own environment, so the same variable names carry
// per-service values (port, DSN) across deployments.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECOM_APP_ENV" default:"dev"`
	Port         string `envconfig:"ECOM_APP_PORT"`
	LogLevel     string `envconfig:"ECOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECOM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ListenPort resolves the port for a binary, falling back to the
// service's reference assignment.
func (a AppConfig) ListenPort(fallback string) string {
	if strings.TrimSpace(a.Port) != "" {
		return a.Port
	}
	return fallback
}

type DBConfig struct {
	DSN    string `envconfig:"ECOM_DB_DSN"`
	Driver string `envconfig:"ECOM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ECOM_DB_HOST"`
	LegacyPort     int    `envconfig:"ECOM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ECOM_DB_USER"`
	LegacyPassword string `envconfig:"ECOM_DB_PASSWORD"`
	LegacyName     string `envconfig:"ECOM_DB_NAME"`
	LegacySSLMode  string `envconfig:"ECOM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECOM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECOM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOM_REDIS_URL"`
	Address      string        `envconfig:"ECOM_REDIS_ADDR"`
	Password     string        `envconfig:"ECOM_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ClientsConfig drives the inter-service HTTP clients. Peers are
// addressed by logical name; the *URL fields are the static fallback the
// registry uses when no discovery entry exists.
type ClientsConfig struct {
	Timeout time.Duration `envconfig:"ECOM_CLIENT_TIMEOUT" default:"10s"`

	UserServiceURL      string `envconfig:"ECOM_SERVICE_USER_URL" default:"http://localhost:8081"`
	ProductServiceURL   string `envconfig:"ECOM_SERVICE_PRODUCT_URL" default:"http://localhost:8082"`
	InventoryServiceURL string `envconfig:"ECOM_SERVICE_INVENTORY_URL" default:"http://localhost:8083"`
	OrderServiceURL     string `envconfig:"ECOM_SERVICE_ORDER_URL" default:"http://localhost:8084"`
	PaymentServiceURL   string `envconfig:"ECOM_SERVICE_PAYMENT_URL" default:"http://localhost:8085"`
}

// PasswordConfig carries the Argon2id parameters for user password hashing.
type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECOM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECOM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECOM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECOM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECOM_ARGON_KEY_LEN" default:"32"`
}

// PaymentGatewayConfig tunes the simulated payment processor.
type PaymentGatewayConfig struct {
	ChargeSuccessPercent int `envconfig:"ECOM_GATEWAY_CHARGE_SUCCESS_PERCENT" default:"90"`
	RefundSuccessPercent int `envconfig:"ECOM_GATEWAY_REFUND_SUCCESS_PERCENT" default:"95"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ECOM_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
