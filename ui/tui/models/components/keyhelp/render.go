// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keyhelp renders the bindings announced by the focused input.
package keyhelp

import (
	"github.com/bobg/go-generics/v4/slices"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/util/slicest"
)

func enabled(b key.Binding) bool { return b.Enabled() }

// ShortHelpView renders the enabled bindings on one line. Separators are
// placed after disabled bindings are dropped.
func ShortHelpView(m help.Model, bindings []key.Binding) string {
	items := slicest.Map(slices.Filter(bindings, enabled), func(kb key.Binding) string {
		return m.Styles.ShortKey.Inline(true).Render(kb.Help().Key) + " " +
			m.Styles.ShortDesc.Inline(true).Render(kb.Help().Desc)
	})
	sep := m.Styles.ShortSeparator.Inline(true).Render(m.ShortSeparator)
	return lipgloss.JoinHorizontal(lipgloss.Top, fit(m, items, func(part string) string {
		return sep + part
	})...)
}

// FullHelpView renders one column per group that has an enabled binding.
func FullHelpView(m help.Model, groups [][]key.Binding) string {
	var cols []string
	for _, group := range groups {
		group = slices.Filter(group, enabled)
		if len(group) == 0 {
			continue
		}
		keys := slicest.Map(group, func(kb key.Binding) string { return kb.Help().Key })
		descs := slicest.Map(group, func(kb key.Binding) string { return kb.Help().Desc })
		cols = append(cols, lipgloss.JoinHorizontal(lipgloss.Top,
			m.Styles.FullKey.Render(lipgloss.JoinVertical(lipgloss.Left, keys...)),
			" ",
			m.Styles.FullDesc.Render(lipgloss.JoinVertical(lipgloss.Left, descs...)),
		))
	}
	sep := m.Styles.FullSeparator.Inline(true).Render(m.FullSeparator)
	return lipgloss.JoinHorizontal(lipgloss.Top, fit(m, cols, func(col string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, sep, col)
	})...)
}

// fit keeps parts as long as they fit into m.Width, prefixing every part but
// the first with withSep. When a part does not fit, an ellipsis is appended
// instead if there is room for it.
func fit(m help.Model, parts []string, withSep func(string) string) []string {
	tail := " " + m.Styles.Ellipsis.Inline(true).Render(m.Ellipsis)
	tailLen := lipgloss.Width(tail)

	var out []string
	used := 0
	for i, part := range parts {
		if i > 0 {
			part = withSep(part)
		}
		w := lipgloss.Width(part)
		reserve := tailLen
		if i == len(parts)-1 {
			reserve = 0
		}
		if used+w+reserve <= m.Width {
			out = append(out, part)
			used += w
			continue
		}
		if used+tailLen <= m.Width {
			out = append(out, tail)
		}
		break
	}
	return out
}
