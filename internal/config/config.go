package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "time"    // time parses the session idle timeout

    "github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env            string        // application environment (e.g. "dev", "prod")
    Port           string        // HTTP port to listen on
    DBDriver       string        // "mysql" or "sqlite"
    DBUser         string        // database username
    DBPass         string        // database password (optional)
    DBHost         string        // database host address
    DBPort         string        // database port number
    DBName         string        // database name
    DBPath         string        // sqlite database file
    JWTSecret      string        // secret used to verify owner JWTs
    SessionIdleTTL time.Duration // editor sessions idle longer than this are closed
    RabbitURL      string        // AMQP url; empty disables seatmap.saved events
    EditorConfig   string        // optional YAML file with editor defaults
}

// Load reads a .env file if one exists, then builds a Config from the
// environment.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) { // a missing .env is normal outside development
        log.Printf("config: .env not loaded: %v", err)
    }
    cfg := Config{
        Env:            getenv("APP_ENV", "dev"),                  // environment (dev/test/prod)
        Port:           getenv("APP_PORT", "8080"),                // port to bind the HTTP server
        DBDriver:       getenv("DB_DRIVER", "mysql"),              // storage backend
        DBPass:         os.Getenv("DB_PASS"),                      // database password (empty allowed)
        DBPath:         getenv("DB_PATH", "seatmap.db"),           // sqlite file
        JWTSecret:      must("JWT_SECRET"),                        // secret used for verifying JWTs
        SessionIdleTTL: envDur("SESSION_IDLE_TTL", 30*time.Minute), // idle editor sessions are swept
        RabbitURL:      os.Getenv("RABBITMQ_URL"),                 // empty disables publishing
        EditorConfig:   os.Getenv("EDITOR_CONFIG"),                // optional editor defaults
    }
    if cfg.DBDriver == "mysql" { // the network settings only matter for mysql
        cfg.DBUser = must("DB_USER")
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = getenv("DB_PORT", "3306")
        cfg.DBName = must("DB_NAME")
    }
    return cfg
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
