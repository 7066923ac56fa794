package resilience

import "time"

// FromStoreConfig builds a RetryConfig from the store.retry_* settings.
// Non-positive values keep the defaults.
func FromStoreConfig(attempts, backoffMs int) RetryConfig {
	cfg := DefaultRetryConfig()
	if attempts > 0 {
		cfg.MaxAttempts = attempts
	}
	if backoffMs > 0 {
		cfg.InitialBackoff = time.Duration(backoffMs) * time.Millisecond
	}
	return cfg
}
