package config

var (
	DefaultServerPort    = "8545"
	DefaultTelemetryPort = "9090"
	DefaultLogLevel      = "info"
	DefaultNonceGuardTTL = "1h"
)
