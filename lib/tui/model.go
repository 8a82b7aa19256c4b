// Package tui is the terminal front-end: pick an algorithm and a
// direction, type text, run it, and copy results to the clipboard.
//
// RSA keys are generated as soon as RSA is first selected and stay for the
// rest of the session until regenerated.
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/crypto/rsa"
	"github.com/go-i2p/cipherlab/lib/i18n"
	"github.com/go-i2p/cipherlab/lib/session"
	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// defaultInput is the sample text the form starts with.
const defaultInput = "مرحباً بالعالم!"

const (
	focusInput = iota
	focusShift
)

// keysGeneratedMsg carries the result of a background key generation.
type keysGeneratedMsg struct {
	keys *rsa.KeyPair
	err  error
}

// toastExpiredMsg hides the toast with the given id, unless a newer one replaced it.
type toastExpiredMsg struct {
	id int
}

// Model is the bubbletea model of the cipher form.
type Model struct {
	sess *session.Session

	algorithm session.Algorithm
	mode      session.Mode

	input  textarea.Model
	shift  textinput.Model
	focus  int
	output string

	generating bool
	spinner    spinner.Model

	err     string
	toast   string
	toastID int

	toastDuration time.Duration
	copy          func(string) error

	width, height int
}

// New returns the form in its initial state: Caesar, encrypt, the
// configured default shift.
func New(sess *session.Session, cfg config.Config) Model {
	in := textarea.New()
	in.Placeholder = i18n.T("input.placeholder")
	in.ShowLineNumbers = false
	in.SetWidth(48)
	in.SetHeight(6)
	in.SetValue(defaultInput)
	in.Focus()

	sh := textinput.New()
	sh.Placeholder = "3"
	sh.CharLimit = 12
	sh.Width = 12
	sh.SetValue(strconv.Itoa(cfg.Caesar.Shift))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		sess:          sess,
		algorithm:     session.Caesar,
		mode:          session.Encrypt,
		input:         in,
		shift:         sh,
		focus:         focusInput,
		spinner:       sp,
		toastDuration: cfg.UI.ToastDuration,
		copy:          clipboard.WriteAll,
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles key presses and background results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case keysGeneratedMsg:
		m.generating = false
		if msg.err != nil {
			log.WithError(msg.err).Warn("key generation failed")
			m.err = i18n.T("error.keygen_failed")
			return m, nil
		}
		m.err = ""
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateFocused(msg)
}

// handleKey runs the form-level shortcuts. Anything else goes to the
// focused field.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m, tea.Quit, true

	case "tab", "shift+tab":
		return m.toggleFocus(), nil, true

	case "ctrl+a":
		return m.toggleAlgorithm()

	case "ctrl+e":
		m.mode = m.mode.Opposite()
		return m, nil, true

	case "ctrl+g":
		next, cmd := m.generateKeys()
		return next, cmd, true

	case "ctrl+r":
		return m.process(), nil, true

	case "ctrl+s":
		next, cmd := m.swap()
		return next, cmd, true

	case "ctrl+y":
		next, cmd := m.copyText(m.output, i18n.T("output.name"))
		return next, cmd, true

	case "ctrl+p":
		if kp := m.sess.Keys(); kp != nil {
			next, cmd := m.copyText(publicKeyText(kp), i18n.T("keys.public_name"))
			return next, cmd, true
		}
		return m, nil, true

	case "ctrl+k":
		if kp := m.sess.Keys(); kp != nil {
			next, cmd := m.copyText(privateKeyText(kp), i18n.T("keys.private_name"))
			return next, cmd, true
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusShift && m.algorithm == session.Caesar {
		m.shift, cmd = m.shift.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.focus == focusInput && m.algorithm == session.Caesar {
		m.focus = focusShift
		m.input.Blur()
		m.shift.Focus()
		return m
	}
	m.focus = focusInput
	m.shift.Blur()
	m.input.Focus()
	return m
}

// toggleAlgorithm switches between Caesar and RSA. Selecting RSA without
// a key pair starts generating one.
func (m Model) toggleAlgorithm() (Model, tea.Cmd, bool) {
	if m.algorithm == session.Caesar {
		m.algorithm = session.RSA
		if m.focus == focusShift {
			m = m.toggleFocus()
		}
		if m.sess.Keys() == nil && !m.generating {
			next, cmd := m.generateKeys()
			return next, cmd, true
		}
		return m, nil, true
	}
	m.algorithm = session.Caesar
	return m, nil, true
}

func (m Model) generateKeys() (Model, tea.Cmd) {
	if m.generating {
		return m, nil
	}
	m.generating = true
	m.err = ""
	sess := m.sess
	gen := func() tea.Msg {
		kp, err := sess.GenerateKeys(context.Background())
		return keysGeneratedMsg{keys: kp, err: err}
	}
	return m, tea.Batch(gen, m.spinner.Tick)
}

// process runs the selected operation on the input text. RSA needs a key
// pair; it is never generated here so the form does not block.
func (m Model) process() Model {
	m.err = ""
	if m.algorithm == session.RSA && m.sess.Keys() == nil {
		m.err = i18n.T("error.keys_required")
		return m
	}

	out, err := m.sess.Process(context.Background(), m.request())
	if err != nil {
		m.err = i18n.T("error.generic", err.Error())
		m.output = ""
		return m
	}
	m.output = out
	return m
}

func (m Model) request() session.Request {
	return session.Request{
		Algorithm: m.algorithm,
		Mode:      m.mode,
		Text:      m.input.Value(),
		Shift:     session.ParseShift(m.shift.Value()),
	}
}

// swap moves the output into the input and flips the direction.
func (m Model) swap() (Model, tea.Cmd) {
	if m.output == "" {
		return m, nil
	}
	req := session.Swap(m.request(), m.output)
	m.input.SetValue(req.Text)
	m.mode = req.Mode
	m.output = ""
	return m.showToast(i18n.T("toast.swapped"))
}

func (m Model) copyText(text, name string) (Model, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	if err := m.copy(text); err != nil {
		m.err = i18n.T("error.clipboard", err.Error())
		return m, nil
	}
	return m.showToast(i18n.T("toast.copied", name))
}

func (m Model) showToast(text string) (Model, tea.Cmd) {
	m.toastID++
	m.toast = text
	id := m.toastID
	return m, tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func publicKeyText(kp *rsa.KeyPair) string {
	return kp.PublicKey.E + ", " + kp.PublicKey.N
}

func privateKeyText(kp *rsa.KeyPair) string {
	return kp.PrivateKey.D + ", " + kp.PrivateKey.N
}
