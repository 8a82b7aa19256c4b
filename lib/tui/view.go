package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-i2p/cipherlab/lib/i18n"
	"github.com/go-i2p/cipherlab/lib/session"
)

// View renders the form: controls on the left, text on the right.
func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(i18n.T("app.title")),
		subtitleStyle.Render(i18n.T("app.subtitle")),
	)

	controls := lipgloss.JoinVertical(lipgloss.Left,
		group(i18n.T("step.algorithm"), segmented(
			[]string{i18n.T("algorithm.caesar"), i18n.T("algorithm.rsa")},
			boolIndex(m.algorithm == session.RSA),
		)),
		group(i18n.T("step.mode"), segmented(
			[]string{i18n.T("mode.encrypt"), i18n.T("mode.decrypt")},
			boolIndex(m.mode == session.Decrypt),
		)),
		group(i18n.T("step.keys"), m.keysView()),
		buttonStyle.Render(m.actionLabel()),
	)

	output := m.output
	if output == "" {
		output = subtitleStyle.Render(i18n.T("output.placeholder"))
	}
	text := []string{
		labelStyle.Render(i18n.T("input.label")),
		m.input.View(),
		"",
		labelStyle.Render(i18n.T("output.label")),
		outputStyle.Render(output),
	}
	if m.err != "" {
		text = append(text, errorStyle.Render(m.err))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		controls,
		"  ",
		lipgloss.JoinVertical(lipgloss.Left, text...),
	)

	parts := []string{header, "", body, ""}
	if m.toast != "" {
		parts = append(parts, toastStyle.Render(m.toast))
	}
	parts = append(parts, helpStyle.Render(i18n.T("help.keys")))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) keysView() string {
	if m.algorithm == session.Caesar {
		return lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render(i18n.T("shift.label")),
			m.shift.View(),
		)
	}

	button := i18n.T("keys.generate")
	if m.generating {
		button = m.spinner.View() + " " + i18n.T("keys.generating")
	}
	lines := []string{
		buttonStyle.Render(button),
		labelStyle.Render(i18n.T("keys.bits", m.sess.Bits())),
	}

	if kp := m.sess.Keys(); kp != nil {
		lines = append(lines,
			labelStyle.Render(i18n.T("keys.public")),
			keyValueStyle.Render(publicKeyText(kp)),
			labelStyle.Render(i18n.T("keys.private")),
			keyValueStyle.Render(privateKeyText(kp)),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) actionLabel() string {
	if m.mode == session.Decrypt {
		return i18n.T("action.decrypt")
	}
	return i18n.T("action.encrypt")
}

func group(title, content string) string {
	return groupStyle.Render(groupTitleStyle.Render(title) + "\n" + content)
}

func segmented(options []string, active int) string {
	rendered := make([]string, len(options))
	for i, opt := range options {
		if i == active {
			rendered[i] = activeSegmentStyle.Render(opt)
		} else {
			rendered[i] = segmentStyle.Render(opt)
		}
	}
	return strings.Join(rendered, "")
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}
