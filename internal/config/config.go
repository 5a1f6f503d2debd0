package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types

    "github.com/joho/godotenv"
)

// Storage backends selectable through STORE_BACKEND.
const (
    StoreMySQL  = "mysql"
    StoreMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env           string // application environment (e.g. "dev", "prod")
    Port          string // HTTP port to listen on
    StoreBackend  string // "mysql" (default) or "memory"
    DBUser        string // database username
    DBPass        string // database password (optional)
    DBHost        string // database host address
    DBPort        string // database port number
    DBName        string // database name
    DBAutoMigrate bool   // apply the schema on startup
    JWTSecret     string // secret used to sign JWTs
    AccessTTLMin  int    // access token time-to-live in minutes
    BcryptCost    int    // bcrypt cost for password hashing
    AMQPURL       string // RabbitMQ URL; empty disables the publisher
    NATSURL       string // NATS URL; empty disables seat broadcasts
    LogDir        string // directory the reservation consumer writes to
    RunConsumer   bool   // start the reservation log consumer inside the server
}

// LoadEnvFiles populates the process environment from .env style files.
// Variables already set in the environment win.  Missing files are
// ignored so production deployments can rely on real env vars alone.
func LoadEnvFiles(files ...string) {
    if len(files) == 0 {
        files = []string{".env"}
    }
    for _, f := range files {
        if _, err := os.Stat(f); err != nil {
            continue
        }
        if err := godotenv.Load(f); err != nil {
            log.Printf("config: failed to load %s: %v", f, err)
        }
    }
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Database settings
// are only required for the MySQL backend.
func Load() Config {
    cfg := Config{
        Env:           must("APP_ENV"),
        Port:          must("APP_PORT"),
        StoreBackend:  envStr("STORE_BACKEND", StoreMySQL),
        DBPass:        os.Getenv("DB_PASS"), // empty allowed
        DBAutoMigrate: envBool("DB_AUTO_MIGRATE", false),
        JWTSecret:     must("JWT_SECRET"),
        AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),
        BcryptCost:    mustInt("BCRYPT_COST"),
        AMQPURL:       amqpURL(),
        NATSURL:       os.Getenv("NATS_URL"),
        LogDir:        envStr("LOG_DIR", "logs"),
        RunConsumer:   envBool("RESERVATION_CONSUMER", false),
    }
    if cfg.StoreBackend != StoreMemory {
        cfg.StoreBackend = StoreMySQL
        cfg.DBUser = must("DB_USER")
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    }
    return cfg
}

// ConsumerConfig is the subset of Config the standalone reservation log
// consumer needs.  It requires no database or JWT settings.
type ConsumerConfig struct {
    AMQPURL string
    LogDir  string
}

func LoadConsumerConfig() ConsumerConfig {
    return ConsumerConfig{AMQPURL: amqpURL(), LogDir: envStr("LOG_DIR", "logs")}
}

// amqpURL honours both RABBITMQ_URL and the older AMQP_URL.
func amqpURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
