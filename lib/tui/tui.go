package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/session"
	"github.com/samber/oops"
)

// Run shows the form until the user quits. The session, and with it the
// key pair, lives only as long as the program.
func Run(cfg config.Config) error {
	sess := session.New(cfg.RSA)
	if _, err := tea.NewProgram(New(sess, cfg), tea.WithAltScreen()).Run(); err != nil {
		return oops.Wrapf(err, "TUI run error")
	}
	return nil
}
