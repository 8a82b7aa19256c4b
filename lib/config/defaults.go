package config

import (
	"time"
)

// DefaultRPCPort is the port the JSON-RPC server listens on unless configured otherwise.
const DefaultRPCPort = 7651

// Config contains every configuration value for cipherlab.
// Defaults() and CurrentConfig() both return this type so the two can be
// compared field by field.
type Config struct {
	Caesar CaesarConfig
	RSA    RSAConfig
	RPC    RPCConfig
	UI     UIConfig
}

// CaesarConfig holds Caesar cipher settings.
type CaesarConfig struct {
	// Shift is the shift used when none is given.
	// Default: 3
	Shift int
}

// RSAConfig holds key generation settings.
type RSAConfig struct {
	// KeyBits is the width of each generated prime.
	// Default: 32
	KeyBits int

	// MaxBits is the largest prime width callers may request.
	// Default: 40
	MaxBits int

	// DistinctPrimes makes key generation redraw q when it equals p.
	// Default: false
	DistinctPrimes bool
}

// RPCConfig holds configuration for the JSON-RPC server.
type RPCConfig struct {
	// Enabled determines if the server should start.
	// Default: true
	Enabled bool

	// Address is the listen address, "host:port".
	// Default: "localhost:7651"
	Address string

	// Password is used for token-based authentication.
	// Default: "cipherlab"
	Password string

	// PasswordHash is a bcrypt hash of the password. When set, Password is ignored.
	PasswordHash string

	// UseHTTPS enables TLS.
	// Default: false
	UseHTTPS bool

	// CertFile is the PEM certificate path, required when UseHTTPS is true.
	CertFile string

	// KeyFile is the PEM private key path, required when UseHTTPS is true.
	KeyFile string

	// TokenExpiration is how long authentication tokens remain valid.
	// Default: 10 minutes
	TokenExpiration time.Duration

	// RateLimit is the sustained number of requests per second. 0 disables limiting.
	// Default: 20
	RateLimit float64

	// RateBurst is the number of requests allowed above RateLimit in a burst.
	// Default: 40
	RateBurst int
}

// UIConfig holds front-end settings shared by the CLI and the TUI.
type UIConfig struct {
	// Language is a BCP 47 tag; "en" and "ar" ship with the binary.
	// Default: "en"
	Language string

	// ToastDuration is how long transient notifications stay visible.
	// Default: 2 seconds
	ToastDuration time.Duration
}

// Defaults returns a Config with all default values set.
// This is the single source of truth for all configuration defaults.
func Defaults() Config {
	return Config{
		Caesar: CaesarConfig{Shift: 3},
		RSA:    buildRSADefaults(),
		RPC:    buildRPCDefaults(),
		UI: UIConfig{
			Language:      "en",
			ToastDuration: 2 * time.Second,
		},
	}
}

func buildRSADefaults() RSAConfig {
	return RSAConfig{
		KeyBits:        32,
		MaxBits:        40,
		DistinctPrimes: false,
	}
}

// buildRPCDefaults favours local development: localhost only, plain HTTP,
// a well-known password.
func buildRPCDefaults() RPCConfig {
	return RPCConfig{
		Enabled:         true,
		Address:         "localhost:7651",
		Password:        "cipherlab",
		PasswordHash:    "",
		UseHTTPS:        false,
		CertFile:        "",
		KeyFile:         "",
		TokenExpiration: 10 * time.Minute,
		RateLimit:       20,
		RateBurst:       40,
	}
}
