package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "souq"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SOUQ_DB_DSN"
	EnvDBHost = "SOUQ_DB_HOST"
	EnvDBUser = "SOUQ_DB_USER"
	EnvDBName = "SOUQ_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	Orders       OrdersConfig
	FeatureFlags FeatureFlagsConfig
}

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
	Env            string   `envconfig:"SOUQ_APP_ENV" required:"true"`
	Port           string   `envconfig:"SOUQ_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"SOUQ_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"SOUQ_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"SOUQ_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOUQ_DB_DSN"`
	Driver string `envconfig:"SOUQ_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SOUQ_DB_HOST"`
	Port     int    `envconfig:"SOUQ_DB_PORT" default:"5432"`
	User     string `envconfig:"SOUQ_DB_USER"`
	Password string `envconfig:"SOUQ_DB_PASSWORD"`
	Name     string `envconfig:"SOUQ_DB_NAME"`
	SSLMode  string `envconfig:"SOUQ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOUQ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOUQ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOUQ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOUQ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOUQ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOUQ_REDIS_ADDR"`
	Password     string        `envconfig:"SOUQ_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOUQ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOUQ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOUQ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOUQ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOUQ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOUQ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOUQ_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOUQ_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SOUQ_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOUQ_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOUQ_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOUQ_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOUQ_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOUQ_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	// MaxQtyDefault caps a merged cart line when the line carries no stock
	// snapshot of its own.
	MaxQtyDefault int           `envconfig:"SOUQ_CART_MAX_QTY_DEFAULT" default:"99"`
	GuestTTL      time.Duration `envconfig:"SOUQ_CART_GUEST_TTL" default:"720h"`
}

type OrdersConfig struct {
	// ShippingFlat is the flat shipping charge in base currency applied at
	// checkout. Kept as a string so decimal parsing owns the precision.
	ShippingFlat string `envconfig:"SOUQ_ORDERS_SHIPPING_FLAT" default:"0"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SOUQ_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SOUQ_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
