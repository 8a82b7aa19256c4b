package tui

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/crypto/rsa"
	"github.com/go-i2p/cipherlab/lib/i18n"
	"github.com/go-i2p/cipherlab/lib/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *[]string) {
	t.Helper()
	i18n.Init("en")

	cfg := config.Defaults()
	cfg.RSA.KeyBits = 12
	cfg.RSA.DistinctPrimes = true
	cfg.UI.ToastDuration = time.Millisecond

	sess := session.NewWithGenerator(cfg.RSA, rsa.NewKeyGenerator(rand.NewSource(99)))
	m := New(sess, cfg)

	copied := &[]string{}
	m.copy = func(s string) error {
		*copied = append(*copied, s)
		return nil
	}
	return m, copied
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// drain runs cmd and feeds every resulting message back into the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case nil:
	default:
		var next tea.Cmd
		m, next = update(t, m, msg)
		if _, isKeys := msg.(keysGeneratedMsg); isKeys {
			return m
		}
		// spinner ticks reschedule themselves while generating
		if m.generating {
			return drain(t, m, next)
		}
	}
	return m
}

func setInput(m Model, text string) Model {
	m.input.SetValue(text)
	return m
}

func TestInitialState(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, session.Caesar, m.algorithm)
	assert.Equal(t, session.Encrypt, m.mode)
	assert.Equal(t, defaultInput, m.input.Value())
	assert.Equal(t, "3", m.shift.Value())
	assert.NotNil(t, m.Init())
}

func TestCaesarProcess(t *testing.T) {
	m, _ := newTestModel(t)
	m = setInput(m, "Hello, World!")

	m, _ = update(t, m, key(tea.KeyCtrlR))
	assert.Equal(t, "Khoor, Zruog!", m.output)
	assert.Empty(t, m.err)

	m, _ = update(t, m, key(tea.KeyCtrlE))
	assert.Equal(t, session.Decrypt, m.mode)
	m = setInput(m, m.output)
	m, _ = update(t, m, key(tea.KeyCtrlR))
	assert.Equal(t, "Hello, World!", m.output)
}

func TestShiftFieldNonNumericCountsAsZero(t *testing.T) {
	m, _ := newTestModel(t)
	m = setInput(m, "abc")
	m.shift.SetValue("x")

	m, _ = update(t, m, key(tea.KeyCtrlR))
	assert.Equal(t, "abc", m.output)
}

func TestTabMovesFocusToShift(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusShift, m.focus)

	m.shift.SetValue("")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	assert.Equal(t, "5", m.shift.Value())

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusInput, m.focus)
}

func TestSelectingRSAGeneratesKeys(t *testing.T) {
	m, _ := newTestModel(t)
	require.Nil(t, m.sess.Keys())

	m, cmd := update(t, m, key(tea.KeyCtrlA))
	assert.Equal(t, session.RSA, m.algorithm)
	assert.True(t, m.generating)
	require.NotNil(t, cmd)

	m = drain(t, m, cmd)
	assert.False(t, m.generating)
	assert.NotNil(t, m.sess.Keys())

	// switching away and back keeps the pair
	kp := m.sess.Keys()
	m, _ = update(t, m, key(tea.KeyCtrlA))
	m, cmd = update(t, m, key(tea.KeyCtrlA))
	assert.Nil(t, cmd)
	assert.Same(t, kp, m.sess.Keys())
}

func TestRSAProcessWithoutKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m.algorithm = session.RSA

	m, _ = update(t, m, key(tea.KeyCtrlR))
	assert.Equal(t, i18n.T("error.keys_required"), m.err)
	assert.Nil(t, m.sess.Keys(), "processing never generates keys itself")
}

func TestRSARoundTripWithSwap(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, key(tea.KeyCtrlA))
	m = drain(t, m, cmd)

	m, _ = update(t, m, key(tea.KeyCtrlR))
	require.Empty(t, m.err)
	ciphertext := m.output
	assert.Contains(t, ciphertext, rsa.Delimiter)

	m, cmd = update(t, m, key(tea.KeyCtrlS))
	assert.Equal(t, session.Decrypt, m.mode)
	assert.Equal(t, ciphertext, m.input.Value())
	assert.Empty(t, m.output)
	assert.Equal(t, i18n.T("toast.swapped"), m.toast)
	assert.NotNil(t, cmd)

	m, _ = update(t, m, key(tea.KeyCtrlR))
	require.Empty(t, m.err)
	assert.Equal(t, defaultInput, m.output)
}

func TestRegenerateReplacesKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, key(tea.KeyCtrlA))
	m = drain(t, m, cmd)
	first := m.sess.Keys()

	m, cmd = update(t, m, key(tea.KeyCtrlG))
	m = drain(t, m, cmd)
	assert.NotSame(t, first, m.sess.Keys())
}

func TestProcessErrorClearsOutput(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, key(tea.KeyCtrlA))
	m = drain(t, m, cmd)

	m.output = "stale"
	m.mode = session.Decrypt
	m = setInput(m, "12.abc")
	m, _ = update(t, m, key(tea.KeyCtrlR))
	assert.Empty(t, m.output)
	assert.True(t, strings.HasPrefix(m.err, "An error occurred: "), m.err)
}

func TestKeygenFailure(t *testing.T) {
	m, _ := newTestModel(t)
	m.generating = true
	m, _ = update(t, m, keysGeneratedMsg{err: errors.New("boom")})
	assert.False(t, m.generating)
	assert.Equal(t, i18n.T("error.keygen_failed"), m.err)
}

func TestCopyOutputShowsToast(t *testing.T) {
	m, copied := newTestModel(t)

	// nothing to copy yet
	m, cmd := update(t, m, key(tea.KeyCtrlY))
	assert.Nil(t, cmd)
	assert.Empty(t, *copied)

	m = setInput(m, "abc")
	m, _ = update(t, m, key(tea.KeyCtrlR))
	m, cmd = update(t, m, key(tea.KeyCtrlY))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"def"}, *copied)
	assert.Equal(t, "Copied output text!", m.toast)

	// the tick fires after the toast duration and hides it
	m, _ = update(t, m, cmd())
	assert.Empty(t, m.toast)
}

func TestStaleToastExpiryIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.showToast("first")
	m, _ = m.showToast("second")

	m, _ = update(t, m, toastExpiredMsg{id: 1})
	assert.Equal(t, "second", m.toast)
	m, _ = update(t, m, toastExpiredMsg{id: 2})
	assert.Empty(t, m.toast)
}

func TestCopyKeys(t *testing.T) {
	m, copied := newTestModel(t)
	m, cmd := update(t, m, key(tea.KeyCtrlP))
	assert.Nil(t, cmd, "no keys yet")

	m, cmd = update(t, m, key(tea.KeyCtrlA))
	m = drain(t, m, cmd)
	kp := m.sess.Keys()

	m, _ = update(t, m, key(tea.KeyCtrlP))
	_, _ = update(t, m, key(tea.KeyCtrlK))
	assert.Equal(t, []string{
		kp.PublicKey.E + ", " + kp.PublicKey.N,
		kp.PrivateKey.D + ", " + kp.PrivateKey.N,
	}, *copied)
}

func TestClipboardError(t *testing.T) {
	m, _ := newTestModel(t)
	m.output = "x"
	m.copy = func(string) error { return errors.New("no clipboard") }

	m, cmd := update(t, m, key(tea.KeyCtrlY))
	assert.Nil(t, cmd)
	assert.Contains(t, m.err, "no clipboard")
	assert.Empty(t, m.toast)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := update(t, m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "Cipher Tool")
	assert.Contains(t, out, "Shift amount")
	assert.Contains(t, out, "Encrypt now")

	m, cmd := update(t, m, key(tea.KeyCtrlA))
	m = drain(t, m, cmd)
	out = m.View()
	assert.Contains(t, out, "Public key (E, N)")
	assert.Contains(t, out, m.sess.Keys().PublicKey.N)

	i18n.SetLang("ar")
	t.Cleanup(func() { i18n.Init("en") })
	assert.Contains(t, m.View(), "أداة التشفير")
}
