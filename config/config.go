package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	devAccessSecret  = "devaccesssecret"
	devRefreshSecret = "devrefreshsecret"
)

// Config holds application configuration loaded from environment variables.
// Defaults target local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string
	AppURL  string

	// Database; DBDriver selects the relational engine.
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration
	SQLitePath    string

	// Redis; empty address disables it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GCSBucket              string
	GCSCredentialsJSONPath string

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	CookieDomain string
	CookieSecure bool

	CORSAllowedOrigins string // comma-separated

	// RBACStrictRoutes refuses to start when a protected route has no permission mapping.
	RBACStrictRoutes bool

	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	RabbitMQURL        string
	RabbitMQEmailQueue string
	MailSendEnabled    bool

	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	CompanyName string

	DebugMetricsEnabled bool
	HTTPLogEnabled      bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "factory-erp")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_URL", "http://localhost:3000")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "erp")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_CONN_LIFETIME", time.Hour)
	v.SetDefault("SQLITE_PATH", "erp.db")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("GCS_BUCKET", "")
	v.SetDefault("GCS_CREDENTIALS_JSON", "")

	v.SetDefault("JWT_ACCESS_SECRET", devAccessSecret)
	v.SetDefault("JWT_REFRESH_SECRET", devRefreshSecret)
	v.SetDefault("JWT_ACCESS_TTL", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_TTL", 7*24*time.Hour)

	v.SetDefault("COOKIE_DOMAIN", "localhost")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RBAC_STRICT_ROUTES", false)

	v.SetDefault("MAILGUN_DOMAIN", "")
	v.SetDefault("MAILGUN_API_KEY", "")
	v.SetDefault("MAILGUN_SENDER", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EMAIL_QUEUE", "emails")
	v.SetDefault("MAIL_SEND_ENABLED", false)

	v.SetDefault("ELASTICSEARCH_ADDRS", "")
	v.SetDefault("ELASTICSEARCH_USERNAME", "")
	v.SetDefault("ELASTICSEARCH_PASSWORD", "")
	v.SetDefault("ES_USERS_INDEX", "users")

	v.SetDefault("COMPANY_NAME", "")
	v.SetDefault("DEBUG_METRICS_ENABLED", false)
	v.SetDefault("HTTP_LOG_ENABLED", false)
}

// Load reads configuration from the environment.
func Load() *Config {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	return &Config{
		AppName: v.GetString("APP_NAME"),
		Env:     v.GetString("APP_ENV"),
		Port:    v.GetString("PORT"),
		GinMode: v.GetString("GIN_MODE"),
		AppURL:  v.GetString("APP_URL"),

		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),
		DBMaxConns:    v.GetInt32("DB_MAX_CONNS"),
		DBMinConns:    v.GetInt32("DB_MIN_CONNS"),
		DBMaxConnLife: v.GetDuration("DB_MAX_CONN_LIFETIME"),
		SQLitePath:    v.GetString("SQLITE_PATH"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		GCSBucket:              v.GetString("GCS_BUCKET"),
		GCSCredentialsJSONPath: v.GetString("GCS_CREDENTIALS_JSON"),

		JWTAccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
		AccessTTL:        v.GetDuration("JWT_ACCESS_TTL"),
		RefreshTTL:       v.GetDuration("JWT_REFRESH_TTL"),

		CookieDomain: v.GetString("COOKIE_DOMAIN"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),

		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		RBACStrictRoutes:   v.GetBool("RBAC_STRICT_ROUTES"),

		MailgunDomain: v.GetString("MAILGUN_DOMAIN"),
		MailgunAPIKey: v.GetString("MAILGUN_API_KEY"),
		MailgunSender: v.GetString("MAILGUN_SENDER"),

		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		RabbitMQEmailQueue: v.GetString("RABBITMQ_EMAIL_QUEUE"),
		MailSendEnabled:    v.GetBool("MAIL_SEND_ENABLED"),

		ElasticsearchAddrs: v.GetString("ELASTICSEARCH_ADDRS"),
		ElasticsearchUser:  v.GetString("ELASTICSEARCH_USERNAME"),
		ElasticsearchPass:  v.GetString("ELASTICSEARCH_PASSWORD"),
		ESUsersIndex:       v.GetString("ES_USERS_INDEX"),

		CompanyName: v.GetString("COMPANY_NAME"),

		DebugMetricsEnabled: v.GetBool("DEBUG_METRICS_ENABLED"),
		HTTPLogEnabled:      v.GetBool("HTTP_LOG_ENABLED"),
	}
}

// Validate rejects configurations the token service cannot run safely with.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.JWTAccessSecret == "" || c.JWTRefreshSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required"))
	} else if c.JWTAccessSecret == c.JWTRefreshSecret {
		errs = append(errs, errors.New("access and refresh tokens must use distinct secrets"))
	}
	if c.Env != "development" && (c.JWTAccessSecret == devAccessSecret || c.JWTRefreshSecret == devRefreshSecret) {
		errs = append(errs, errors.New("development JWT secrets are not allowed outside development"))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	} else if c.AccessTTL >= c.RefreshTTL {
		errs = append(errs, errors.New("JWT_ACCESS_TTL must be shorter than JWT_REFRESH_TTL"))
	}
	return errors.Join(errs...)
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string { return splitList(c.CORSAllowedOrigins) }

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string { return splitList(c.ElasticsearchAddrs) }

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
