// Package config provides configuration management for cipherlab.
//
// # Sources
//
// Values are resolved by viper in the usual order: explicit Set calls and
// bound command-line flags, then CIPHERLAB_* environment variables (dots
// become underscores, so rsa.key_bits is CIPHERLAB_RSA_KEY_BITS), then the
// YAML config file, then the defaults returned by Defaults().
//
// The config file lives at $HOME/.cipherlab/config.yaml unless CfgFile is
// set. When the default file does not exist it is written out with the
// default values so there is something to edit.
//
// # Sections
//
//	caesar:
//	  shift: 3
//	rsa:
//	  key_bits: 32          # width of each prime
//	  max_bits: 40          # upper bound accepted from callers
//	  distinct_primes: false
//	rpc:
//	  enabled: true
//	  address: "localhost:7651"
//	  password: "cipherlab"
//	  password_hash: ""     # bcrypt hash, takes precedence over password
//	  use_https: false
//	  cert_file: ""
//	  key_file: ""
//	  token_expiration: 10m
//	  rate_limit: 20        # requests per second, 0 disables
//	  rate_burst: 40
//	ui:
//	  language: en
//	  toast_duration: 2s
//
// Prime search uses trial division, so rsa.max_bits is what keeps a caller
// from asking for a key that takes minutes to generate.
package config
