package config

import "time"

// BillingConfig tunes the bill-generation guard.  LockTTL bounds how long a
// crashed request can block regeneration for the same reading.
type BillingConfig struct {
    LockTTL    time.Duration
    LockPrefix string
}

func LoadBillingConfig() BillingConfig {
    cfg := BillingConfig{
        LockTTL:    envDur("BILLING_LOCK_TTL", 30*time.Second),
        LockPrefix: envStr("BILLING_LOCK_PREFIX", "billing:reading:"),
    }
    if cfg.LockTTL <= 0 {
        cfg.LockTTL = 30 * time.Second
    }
    return cfg
}
