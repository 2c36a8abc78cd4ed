// Package config provides process configuration for the teleop bridge.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the bridge process. Parameters
// that shape the mapping engine itself (axis maps, calibration, overlays)
// live in the parameter store, not here.
type Config struct {
	// Namespace prefixes bus topics and parameter keys.
	Namespace string

	// MQTT bus
	BrokerURL string
	ClientID  string

	// Parameter store
	ParamDBURL string

	// Sample queue depth between the transports and the strategy loop
	SampleBuffer int

	// Arming request timeout
	ArmingTimeout time.Duration

	// Status HTTP server
	StatusEnabled bool
	StatusPort    string
	CORSOrigin    string

	// Optional iBus UDP mirror for RC override frames ("host:port", empty disables)
	IBusTarget string

	// Verbose enables per-sample debug logging
	Verbose bool
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Namespace: getEnv("TELEOP_NAMESPACE", "mavros"),

		BrokerURL: getEnv("TELEOP_BROKER_URL", "tcp://localhost:1883"),
		ClientID:  getEnv("TELEOP_CLIENT_ID", "mavteleop"),

		ParamDBURL: getEnv("TELEOP_PARAM_DB", "file:./teleop.db"),

		SampleBuffer: getEnvInt("TELEOP_SAMPLE_BUFFER", 16),

		ArmingTimeout: time.Duration(getEnvInt("TELEOP_ARMING_TIMEOUT_MS", 2000)) * time.Millisecond,

		StatusEnabled: getEnvBool("TELEOP_STATUS_ENABLED", true),
		StatusPort:    getEnv("TELEOP_STATUS_PORT", "4000"),
		CORSOrigin:    getEnv("TELEOP_CORS_ORIGIN", "http://localhost:3000"),

		IBusTarget: getEnv("TELEOP_IBUS_TARGET", ""),

		Verbose: getEnvBool("TELEOP_VERBOSE", false),
	}
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
