package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrPickerCancelled is returned when the user leaves the picker without
// choosing a version.
var ErrPickerCancelled = errors.New("version selection cancelled")

const pickerWindow = 10

type versionPickerModel struct {
	versions  []string
	latest    string
	installed string
	cursor    int
	done      bool
	cancelled bool
}

// newVersionPickerModel lists versions newest first with latest focused.
func newVersionPickerModel(versions []string, latest, installed string) versionPickerModel {
	ordered := make([]string, len(versions))
	for i, v := range versions {
		ordered[len(versions)-1-i] = v
	}
	m := versionPickerModel{versions: ordered, latest: latest, installed: installed}
	for i, v := range ordered {
		if v == latest {
			m.cursor = i
			break
		}
	}
	return m
}

func (m versionPickerModel) Init() tea.Cmd {
	return nil
}

func (m versionPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.versions)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.versions) - 1
	case "enter":
		if len(m.versions) > 0 {
			m.done = true
		} else {
			m.cancelled = true
		}
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m versionPickerModel) View() string {
	if m.done {
		return fmt.Sprintf("  %s %s\n", faintStyle.Render("selected"), m.selected())
	}
	if m.cancelled {
		return faintStyle.Render("  cancelled") + "\n"
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(HeaderStyle.Render("  Select an oscal-cli version"))
	sb.WriteString("\n\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		v := m.versions[i]
		var tags []string
		if v == m.latest {
			tags = append(tags, "latest")
		}
		if v == m.installed {
			tags = append(tags, "installed")
		}
		label := fmt.Sprintf("%-24s", v)
		suffix := ""
		if len(tags) > 0 {
			suffix = faintStyle.Render("(" + strings.Join(tags, ", ") + ")")
		}
		if i == m.cursor {
			sb.WriteString("▸ " + focusedStyle.Render(label) + " " + suffix + "\n")
		} else {
			sb.WriteString("  " + label + " " + suffix + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(faintStyle.Render("  [↑↓] Navigate  [Enter] Select  [Esc] Cancel"))
	sb.WriteString("\n")
	return sb.String()
}

// visibleRange keeps the cursor inside a fixed-height window.
func (m versionPickerModel) visibleRange() (int, int) {
	if len(m.versions) <= pickerWindow {
		return 0, len(m.versions)
	}
	start := m.cursor - pickerWindow/2
	if start < 0 {
		start = 0
	}
	end := start + pickerWindow
	if end > len(m.versions) {
		end = len(m.versions)
		start = end - pickerWindow
	}
	return start, end
}

func (m versionPickerModel) selected() string {
	if len(m.versions) == 0 {
		return ""
	}
	return m.versions[m.cursor]
}

// PickVersion runs the interactive version picker. versions are in index
// order, oldest first. It returns ErrPickerCancelled when the user backs out.
func PickVersion(in io.Reader, out io.Writer, versions []string, latest, installed string) (string, error) {
	model := newVersionPickerModel(versions, latest, installed)
	p := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	m := finalModel.(versionPickerModel)
	if m.cancelled || !m.done {
		return "", ErrPickerCancelled
	}
	return m.selected(), nil
}
