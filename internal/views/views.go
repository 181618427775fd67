package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cardview/internal/source"
	"cardview/internal/state"
)

var sourceOrder = []source.Kind{
	source.KindFolder,
	source.KindTag,
	source.KindSearch,
}

var sourcePrefixMap = map[source.Kind]string{
	source.KindFolder: "[1] Folder",
	source.KindTag:    "[2] Tag",
	source.KindSearch: "[3] Search",
}

var bindingPrefixMap = map[state.Binding]string{
	state.BindingActive: "[A] Active",
	state.BindingFixed:  "[F] Fixed",
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true)
	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0AF")).
			Padding(0, 1)
	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 1)
	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			SetString("│")
	selectorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true)
)

// StatusHeader renders the two-line source/binding banner shown above card
// listings.
func StatusHeader(src source.Source, binding state.Binding) string {
	var sourceStatus []string
	for _, kind := range sourceOrder {
		prefix := sourcePrefixMap[kind]
		if kind == src.Kind {
			sourceStatus = append(sourceStatus, activeStyle.Render(prefix))
		} else {
			sourceStatus = append(sourceStatus, inactiveStyle.Render(prefix))
		}
	}

	var bindingStatus []string
	for _, b := range []state.Binding{state.BindingActive, state.BindingFixed} {
		prefix := bindingPrefixMap[b]
		if b == binding {
			bindingStatus = append(bindingStatus, activeStyle.Render(prefix))
		} else {
			bindingStatus = append(bindingStatus, inactiveStyle.Render(prefix))
		}
	}

	sourceLine := fmt.Sprintf("%s %s",
		titleStyle.Render("Source:"),
		strings.Join(sourceStatus, dividerStyle.String()),
	)

	selector := src.Selector()
	if selector == "" && src.Kind == source.KindFolder {
		selector = "/"
	}

	bindingLine := fmt.Sprintf("%s %s %s %s",
		titleStyle.Render("Set:"),
		selectorStyle.Render(selector),
		dividerStyle.String(),
		strings.Join(bindingStatus, dividerStyle.String()),
	)

	return fmt.Sprintf("%s\n%s", sourceLine, bindingLine)
}
