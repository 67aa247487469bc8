package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	Auth  AuthConfig
	Mail  MailConfig
	Redis RedisConfig
	Jobs  JobsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	BaseURL   string // URL pública usada en los enlaces de los correos
	StaticDir string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// MigrationURL devuelve el DSN con el esquema que espera el driver pgx/v5 de golang-migrate.
func (c DBConfig) MigrationURL() string {
	dsn := c.ConnectionString()
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
	CookieName string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host            string
	Port            int
	LoginRatePerMin int
	LoginBurst      int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig reglas de bloqueo de cuentas y recuperación de contraseña.
type AuthConfig struct {
	MaxFailedAttempts  int
	LockoutDuration    time.Duration
	ResetTokenTTL      time.Duration
	PasswordChangePath string
	HomePath           string
}

// MailConfig servidor SMTP. Si Host está vacío los correos sólo se registran en el log.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled indica si hay un servidor SMTP configurado.
func (c MailConfig) Enabled() bool { return c.Host != "" }

// RedisConfig almacén de sesiones revocadas. Vacío = almacén en memoria.
type RedisConfig struct {
	URL string
}

// JobsConfig tareas programadas.
type JobsConfig struct {
	TokenCleanupSchedule string // expresión cron; vacío desactiva la tarea
	TokenCleanupDays     int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "dulceria-api"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			BaseURL:   strings.TrimRight(getString(v, "APP_BASE_URL", "http://localhost:8080"), "/"),
			StaticDir: getString(v, "STATIC_DIR", "./static"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "dulceria"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "dulceria-api"),
			CookieName: getString(v, "SESSION_COOKIE_NAME", "session_token"),
		},
		HTTP: HTTPConfig{
			Host:            getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:            getInt(v, "HTTP_PORT", 8080),
			LoginRatePerMin: getInt(v, "LOGIN_RATE_PER_MINUTE", 20),
			LoginBurst:      getInt(v, "LOGIN_RATE_BURST", 10),
		},
		Auth: AuthConfig{
			MaxFailedAttempts:  getInt(v, "AUTH_MAX_FAILED_ATTEMPTS", 5),
			LockoutDuration:    time.Duration(getInt(v, "AUTH_LOCKOUT_MINUTES", 30)) * time.Minute,
			ResetTokenTTL:      time.Duration(getInt(v, "RESET_TOKEN_TTL_MINUTES", 5)) * time.Minute,
			PasswordChangePath: getString(v, "PASSWORD_CHANGE_PATH", "/reset-password"),
			HomePath:           getString(v, "HOME_PATH", "/dashboard"),
		},
		Mail: MailConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@dulceria.local"),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", ""),
		},
		Jobs: JobsConfig{
			TokenCleanupSchedule: getString(v, "TOKEN_CLEANUP_SCHEDULE", "0 3 * * *"),
			TokenCleanupDays:     getInt(v, "TOKEN_CLEANUP_DAYS", 7),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	if cfg.Auth.MaxFailedAttempts <= 0 {
		return nil, fmt.Errorf("config: AUTH_MAX_FAILED_ATTEMPTS debe ser mayor que 0")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
