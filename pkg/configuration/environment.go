package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rendiciones/rendiciones/pkg/logging"
)

const Production = "production"

const (
	StoreMemory   = "memory"
	StoreBadger   = "badger"
	StoreRedis    = "redis"
	StorePostgres = "postgres"

	LockLocal = "local"
	LockRedis = "redis"
)

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"rendiciones"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type StoreOptions struct {
	Driver      string `env:"STORE_DRIVER" envDefault:"badger"`
	BadgerDir   string `env:"BADGER_DIR" envDefault:"./data/badger"`
	RedisURL    string `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"rendiciones"`
}

type LockOptions struct {
	Driver string        `env:"LOCK_DRIVER" envDefault:"local"`
	TTL    time.Duration `env:"LOCK_TTL" envDefault:"30s"`
	Wait   time.Duration `env:"LOCK_WAIT" envDefault:"10s"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Exporter    string `env:"OTEL_EXPORTER" envDefault:"stdout"`
	Endpoint    string `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"rendiciones"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Addr    string `env:"PROMETHEUS_METRICS_ADDR" envDefault:"localhost:9464"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/metrics"`
}

type Configuration struct {
	Database      DatabaseOptions
	Store         StoreOptions
	Lock          LockOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:""`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

// Load builds a Configuration from the given env files and the process
// environment. Use prefers the cached singleton.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		for _, file := range envFiles {
			log.Printf("no env file at %s", filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateLock(); err != nil {
		return err
	}
	if err := c.validateTelemetry(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	return nil
}

func (c *Configuration) validateStore() error {
	driver := strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if driver == "" {
		driver = StoreMemory
	}
	switch driver {
	case StoreMemory, StoreBadger, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("invalid STORE_DRIVER=%q (expected memory|badger|redis|postgres)", c.Store.Driver)
	}
	if driver == StoreBadger && strings.TrimSpace(c.Store.BadgerDir) == "" {
		return fmt.Errorf("STORE_DRIVER=badger requires BADGER_DIR")
	}
	c.Store.Driver = driver
	return nil
}

func (c *Configuration) validateLock() error {
	driver := strings.ToLower(strings.TrimSpace(c.Lock.Driver))
	if driver == "" {
		driver = LockLocal
	}
	switch driver {
	case LockLocal, LockRedis:
	default:
		return fmt.Errorf("invalid LOCK_DRIVER=%q (expected local|redis)", c.Lock.Driver)
	}
	if driver == LockRedis && c.Lock.TTL <= 0 {
		return fmt.Errorf("LOCK_DRIVER=redis requires a positive LOCK_TTL, got %s", c.Lock.TTL)
	}
	c.Lock.Driver = driver
	return nil
}

func (c *Configuration) validateTelemetry() error {
	exporter := strings.ToLower(strings.TrimSpace(c.OpenTelemetry.Exporter))
	switch exporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("invalid OTEL_EXPORTER=%q (expected stdout|otlp)", c.OpenTelemetry.Exporter)
	}
	c.OpenTelemetry.Exporter = exporter
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}
