package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/i18n"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Subcommands share cfg, which the root
// fills in before any of them runs.
func newRootCmd() *cobra.Command {
	cfg := &config.Config{}
	var lang string

	root := &cobra.Command{
		Use:   "cipherlab",
		Short: "Caesar and textbook RSA encryption for the classroom",
		Long: `cipherlab encrypts and decrypts text with a Caesar shift or with
small-prime textbook RSA. It is a teaching tool: the RSA keys it makes are
deliberately tiny and offer no security.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cfg, lang)
		},
	}

	root.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file (default is $HOME/.cipherlab/config.yaml)")
	root.PersistentFlags().StringVar(&lang, "lang", "", "message language (en, ar); overrides ui.language")

	root.AddCommand(
		newCaesarCmd(cfg),
		newRSACmd(cfg),
		newServeCmd(cfg),
		newTUICmd(cfg),
	)
	return root
}

func loadConfig(cfg *config.Config, lang string) error {
	if err := config.InitConfig(); err != nil {
		return oops.Wrapf(err, "failed to load configuration")
	}
	loaded := config.CurrentConfig()
	if lang != "" {
		loaded.UI.Language = lang
	}
	if err := config.Validate(loaded); err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}
	i18n.Init(loaded.UI.Language)
	*cfg = loaded
	return nil
}

// readText returns the positional argument, or all of standard input when
// there is none. A single trailing newline from stdin is dropped.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		cmd.PrintErrln(i18n.T("cli.reading_stdin"))
	}
	data, err := io.ReadAll(bufio.NewReader(in))
	if err != nil {
		return "", oops.Wrapf(err, "failed to read standard input")
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
