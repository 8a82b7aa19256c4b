package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/crypto/rsa"
	"github.com/go-i2p/cipherlab/lib/i18n"
	"github.com/go-i2p/cipherlab/lib/session"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRSACmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsa",
		Short: "Textbook RSA with small primes",
		Long: `Textbook RSA over UTF-16 code units. Ciphertext is the encrypted code of
every unit as a decimal number, joined with ".". Keys are decimal strings.`,
	}
	cmd.AddCommand(
		newRSAKeygenCmd(cfg),
		newRSAEncryptCmd(),
		newRSADecryptCmd(),
	)
	return cmd
}

func newRSAKeygenCmd(cfg *config.Config) *cobra.Command {
	var (
		bits   int
		format string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair and print it as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("bits") {
				bits = cfg.RSA.KeyBits
			}
			if err := cfg.RSA.CheckKeyBits(bits); err != nil {
				return err
			}
			if format != "json" && format != "yaml" {
				return oops.Errorf("unknown format %q, want json or yaml", format)
			}

			var src rand.Source
			if seed != 0 {
				src = rand.NewSource(seed)
			}
			gen := rsa.NewKeyGenerator(src)
			gen.DistinctPrimes = cfg.RSA.DistinctPrimes

			kp, err := session.Generate(cmd.Context(), gen, bits)
			if err != nil {
				return oops.Wrapf(err, "failed to generate keys")
			}
			if err := writeKeyPair(cmd, kp, format); err != nil {
				return err
			}
			cmd.PrintErrln(i18n.T("cli.keys_generated", bits))
			return nil
		},
	}
	cmd.Flags().IntVarP(&bits, "bits", "b", config.Defaults().RSA.KeyBits, "prime size in bits; rsa.key_bits when unset")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible key pair; 0 seeds from the clock")
	return cmd
}

func writeKeyPair(cmd *cobra.Command, kp *rsa.KeyPair, format string) error {
	out := cmd.OutOrStdout()
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(kp); err != nil {
			return oops.Wrapf(err, "failed to encode key pair")
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(kp); err != nil {
		return oops.Wrapf(err, "failed to encode key pair")
	}
	return nil
}

// readKeyPair loads a key pair written by keygen. YAML is a superset of
// JSON, so one decoder reads both formats.
func readKeyPair(path string) (*rsa.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to read key file")
	}
	var kp rsa.KeyPair
	if err := yaml.Unmarshal(data, &kp); err != nil {
		return nil, oops.Wrapf(err, "failed to parse key file %s", path)
	}
	return &kp, nil
}

func newRSAEncryptCmd() *cobra.Command {
	var e, n, keyFile string

	cmd := &cobra.Command{
		Use:   "encrypt [text]",
		Short: "Encrypt text with a public key (e, n)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyFile != "" {
				kp, err := readKeyPair(keyFile)
				if err != nil {
					return err
				}
				e = flagOr(cmd, "e", e, kp.PublicKey.E)
				n = flagOr(cmd, "n", n, kp.PublicKey.N)
			}
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			out, err := rsa.Encrypt(text, e, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&e, "e", "e", "", "public exponent")
	cmd.Flags().StringVarP(&n, "n", "n", "", "modulus")
	cmd.Flags().StringVarP(&keyFile, "keys", "k", "", "key pair file written by keygen")
	return cmd
}

func newRSADecryptCmd() *cobra.Command {
	var d, n, keyFile string

	cmd := &cobra.Command{
		Use:   "decrypt [ciphertext]",
		Short: "Decrypt ciphertext with a private key (d, n)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyFile != "" {
				kp, err := readKeyPair(keyFile)
				if err != nil {
					return err
				}
				d = flagOr(cmd, "d", d, kp.PrivateKey.D)
				n = flagOr(cmd, "n", n, kp.PrivateKey.N)
			}
			cipher, err := readText(cmd, args)
			if err != nil {
				return err
			}
			out, err := rsa.Decrypt(cipher, d, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&d, "d", "d", "", "private exponent")
	cmd.Flags().StringVarP(&n, "n", "n", "", "modulus")
	cmd.Flags().StringVarP(&keyFile, "keys", "k", "", "key pair file written by keygen")
	return cmd
}

// flagOr prefers an explicitly set flag over the value from a key file.
func flagOr(cmd *cobra.Command, name, flagValue, fileValue string) string {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return fileValue
}
