package config

import (
	"os"
	"time"
)

// Timeouts holds transport-level timeout values. The provisioning steps
// themselves are not individually deadlined; these only bound the HTTP
// client and the keytab subprocess so a dead server cannot hang the run
// forever.
type Timeouts struct {
	HTTP    time.Duration // FreeIPA HTTP client timeout
	Keytab  time.Duration // ipa-getkeytab subprocess timeout
	Connect time.Duration // initial connect + ping budget
}

// LoadTimeouts loads timeout configuration from environment variables,
// falling back to defaults when unset or unparsable.
//
// Environment variables:
//   - IPA_TIMEOUT_HTTP (default: 1m)
//   - IPA_TIMEOUT_KEYTAB (default: 2m)
//   - IPA_TIMEOUT_CONNECT (default: 1m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		HTTP:    parseDuration("IPA_TIMEOUT_HTTP", time.Minute),
		Keytab:  parseDuration("IPA_TIMEOUT_KEYTAB", 2*time.Minute),
		Connect: parseDuration("IPA_TIMEOUT_CONNECT", time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
