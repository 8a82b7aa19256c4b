package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-i2p/cipherlab/lib/util"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetGoI2PLogger()
)

const CIPHERLAB_BASE_DIR = ".cipherlab"

// InitConfig points viper at the config file, registers defaults and
// environment overrides, and reads the file. A missing default config file
// is created; a missing explicit CfgFile is an error.
func InitConfig() error {
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		viper.AddConfigPath(BuildConfigDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CIPHERLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	return handleConfigFile()
}

func setDefaults() {
	d := Defaults()

	viper.SetDefault("caesar.shift", d.Caesar.Shift)

	viper.SetDefault("rsa.key_bits", d.RSA.KeyBits)
	viper.SetDefault("rsa.max_bits", d.RSA.MaxBits)
	viper.SetDefault("rsa.distinct_primes", d.RSA.DistinctPrimes)

	viper.SetDefault("rpc.enabled", d.RPC.Enabled)
	viper.SetDefault("rpc.address", d.RPC.Address)
	viper.SetDefault("rpc.password", d.RPC.Password)
	viper.SetDefault("rpc.password_hash", d.RPC.PasswordHash)
	viper.SetDefault("rpc.use_https", d.RPC.UseHTTPS)
	viper.SetDefault("rpc.cert_file", d.RPC.CertFile)
	viper.SetDefault("rpc.key_file", d.RPC.KeyFile)
	viper.SetDefault("rpc.token_expiration", d.RPC.TokenExpiration)
	viper.SetDefault("rpc.rate_limit", d.RPC.RateLimit)
	viper.SetDefault("rpc.rate_burst", d.RPC.RateBurst)

	viper.SetDefault("ui.language", d.UI.Language)
	viper.SetDefault("ui.toast_duration", d.UI.ToastDuration)
}

// CurrentConfig builds a Config from the current viper settings.
func CurrentConfig() Config {
	return Config{
		Caesar: CaesarConfig{
			Shift: viper.GetInt("caesar.shift"),
		},
		RSA: RSAConfig{
			KeyBits:        viper.GetInt("rsa.key_bits"),
			MaxBits:        viper.GetInt("rsa.max_bits"),
			DistinctPrimes: viper.GetBool("rsa.distinct_primes"),
		},
		RPC: buildRPCConfig(),
		UI: UIConfig{
			Language:      viper.GetString("ui.language"),
			ToastDuration: viper.GetDuration("ui.toast_duration"),
		},
	}
}

func buildRPCConfig() RPCConfig {
	return RPCConfig{
		Enabled:         viper.GetBool("rpc.enabled"),
		Address:         viper.GetString("rpc.address"),
		Password:        viper.GetString("rpc.password"),
		PasswordHash:    viper.GetString("rpc.password_hash"),
		UseHTTPS:        viper.GetBool("rpc.use_https"),
		CertFile:        viper.GetString("rpc.cert_file"),
		KeyFile:         viper.GetString("rpc.key_file"),
		TokenExpiration: viper.GetDuration("rpc.token_expiration"),
		RateLimit:       viper.GetFloat64("rpc.rate_limit"),
		RateBurst:       viper.GetInt("rpc.rate_burst"),
	}
}

func createDefaultConfig(defaultConfigDir string) error {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		return oops.Wrapf(err, "could not create config directory %s", defaultConfigDir)
	}

	if err := viper.SafeWriteConfigAs(defaultConfigFile); err != nil {
		return oops.Wrapf(err, "could not write default config file %s", defaultConfigFile)
	}

	log.Debugf("Created default configuration at: %s", defaultConfigFile)
	return nil
}

func handleConfigFile() error {
	err := viper.ReadInConfig()
	if err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
		return nil
	}

	if _, ok := err.(viper.ConfigFileNotFoundError); ok && CfgFile == "" {
		return createDefaultConfig(BuildConfigDirPath())
	}
	if CfgFile != "" && !util.CheckFileExists(CfgFile) {
		return oops.Errorf("config file %s is not found: %w", CfgFile, err)
	}
	return oops.Wrapf(err, "error reading config file")
}

// BuildConfigDirPath returns $HOME/.cipherlab.
func BuildConfigDirPath() string {
	return filepath.Join(util.UserHome(), CIPHERLAB_BASE_DIR)
}
