package config

// LogConfig holds logging configuration.
type LogConfig struct {
    Level  string // debug, info, warn, error
    Format string // json, console
    Output string // stdout, stderr, or file path
}

// LoadLogConfig defaults to JSON output in production and colored console
// output elsewhere.
func LoadLogConfig(env string) LogConfig {
    format := "console"
    if env == "production" || env == "prod" {
        format = "json"
    }
    return LogConfig{
        Level:  envStr("LOG_LEVEL", "info"),
        Format: envStr("LOG_FORMAT", format),
        Output: envStr("LOG_OUTPUT", "stdout"),
    }
}
