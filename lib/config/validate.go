package config

import (
	"fmt"

	"github.com/go-i2p/cipherlab/lib/util"
	"github.com/go-i2p/logger"
)

// MinKeyBits is the smallest prime width that can produce a prime at all.
const MinKeyBits = 2

// ValidationError describes a configuration value that is out of range.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "config: " + e.Message
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// Validate checks if the provided configuration values are reasonable.
// Returns an error describing the first invalid value found.
func Validate(cfg Config) error {
	validators := []func() error{
		func() error { return validateRSA(cfg.RSA) },
		func() error { return validateRPC(cfg.RPC) },
		func() error { return validateUI(cfg.UI) },
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			log.WithError(err).Error("Configuration validation failed")
			return err
		}
	}
	log.WithFields(logger.Fields{
		"at":     "Validate",
		"reason": "all_validators_passed",
	}).Debug("configuration validated")
	return nil
}

// CheckKeyBits reports whether bits is an acceptable prime width under cfg.
func (cfg RSAConfig) CheckKeyBits(bits int) error {
	if bits < MinKeyBits || bits > cfg.MaxBits {
		return newValidationError(fmt.Sprintf("key size must be between %d and %d bits, got %d",
			MinKeyBits, cfg.MaxBits, bits))
	}
	return nil
}

func validateRSA(rsa RSAConfig) error {
	if rsa.MaxBits < MinKeyBits {
		return newValidationError(fmt.Sprintf("RSA.MaxBits must be at least %d", MinKeyBits))
	}
	if err := rsa.CheckKeyBits(rsa.KeyBits); err != nil {
		return newValidationError("RSA.KeyBits: " + err.(*ValidationError).Message)
	}
	if rsa.DistinctPrimes && rsa.KeyBits < 3 {
		return newValidationError("RSA.KeyBits must be at least 3 when RSA.DistinctPrimes is set")
	}
	return nil
}

func validateRPC(rpc RPCConfig) error {
	if !rpc.Enabled {
		return nil
	}
	if rpc.Address == "" {
		return newValidationError("RPC.Address must not be empty")
	}
	if rpc.Password == "" && rpc.PasswordHash == "" {
		return newValidationError("RPC.Password or RPC.PasswordHash must be set")
	}
	if rpc.TokenExpiration <= 0 {
		return newValidationError("RPC.TokenExpiration must be positive")
	}
	if rpc.RateLimit < 0 {
		return newValidationError("RPC.RateLimit must not be negative")
	}
	if rpc.RateLimit > 0 && rpc.RateBurst < 1 {
		return newValidationError("RPC.RateBurst must be at least 1 when rate limiting is enabled")
	}
	if rpc.UseHTTPS {
		if !util.CheckFileExists(rpc.CertFile) {
			return newValidationError(fmt.Sprintf("RPC.CertFile %q does not exist", rpc.CertFile))
		}
		if !util.CheckFileExists(rpc.KeyFile) {
			return newValidationError(fmt.Sprintf("RPC.KeyFile %q does not exist", rpc.KeyFile))
		}
	}
	return nil
}

func validateUI(ui UIConfig) error {
	if ui.Language == "" {
		return newValidationError("UI.Language must not be empty")
	}
	if ui.ToastDuration < 0 {
		return newValidationError("UI.ToastDuration must not be negative")
	}
	return nil
}
