package config // package config loads application configuration from environment variables

import (
    "fmt"
    "os"
    "strconv"
    "strings"
)

// Config holds the core runtime configuration values.  Each field
// corresponds to an environment variable.  Concern-specific settings
// (logging, Redis, rate limiting, caching, billing, queue) are loaded by
// their own Load*Config functions.
type Config struct {
    Env            string // application environment (e.g. "dev", "production")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    DBAutoMigrate  bool   // create missing tables on startup
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables.  Every
// missing or malformed required variable is reported in the returned
// error so that a misconfigured deployment fails with one message.
func Load() (Config, error) {
    var r reader
    cfg := Config{
        Env:            r.must("APP_ENV"),
        Port:           r.must("APP_PORT"),
        DBUser:         r.must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         r.must("DB_HOST"),
        DBPort:         r.must("DB_PORT"),
        DBName:         r.must("DB_NAME"),
        DBAutoMigrate:  envBool("DB_AUTO_MIGRATE", false),
        JWTSecret:      r.must("JWT_SECRET"),
        AccessTTLMin:   r.mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: r.mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     r.mustInt("BCRYPT_COST"),
    }
    if len(r.problems) > 0 {
        return Config{}, fmt.Errorf("config: %s", strings.Join(r.problems, "; "))
    }
    return cfg, nil
}

// reader accumulates problems with required variables.
type reader struct {
    problems []string
}

// must retrieves the value of a required environment variable.
func (r *reader) must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        r.problems = append(r.problems, "missing required env var: "+key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (r *reader) mustInt(key string) int {
    s := r.must(key)
    if s == "" {
        return 0
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        r.problems = append(r.problems, fmt.Sprintf("invalid int for %s: %q", key, s))
    }
    return n
}
