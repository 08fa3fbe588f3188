package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/lineCode/import-weapp-component/internal/config"
)

type state int

const (
	stateMenu state = iota
	stateForm
	stateConfirm
	stateSaved
	stateError
)

// Model is the bubbletea model of the configuration editor: a category menu
// opening one huh form at a time, saved through Options.SaveFunc.
type Model struct {
	state      state
	values     *ConfigValues
	cursor     int
	form       *huh.Form
	help       help.Model
	err        error
	dirty      bool
	saveFunc   func(*config.Config) error
	accessible bool
	path       string
}

type Options struct {
	Config     *config.Config
	SaveFunc   func(*config.Config) error
	Accessible bool
	// Path is shown in the header
	Path string
	// Input and Output default to the terminal
	Input  io.Reader
	Output io.Writer
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	return Model{
		state:      stateMenu,
		values:     FromConfig(cfg),
		help:       help.New(),
		saveFunc:   opts.SaveFunc,
		accessible: opts.Accessible,
		path:       opts.Path,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// saveIndex is the cursor position of the save entry below the categories
func (m Model) saveIndex() int {
	return len(Categories)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.help.Width = size.Width
	}

	switch m.state {
	case stateForm:
		return m.updateForm(msg)
	case stateMenu:
		if k, ok := msg.(tea.KeyMsg); ok {
			return m.updateMenu(k)
		}
	case stateConfirm:
		if k, ok := msg.(tea.KeyMsg); ok {
			return m.updateConfirm(k)
		}
	case stateSaved, stateError:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.dirty {
			m.state = stateConfirm
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < m.saveIndex() {
			m.cursor++
		}

	case key.Matches(msg, keys.Save):
		return m.save()

	case key.Matches(msg, keys.Select):
		if m.cursor == m.saveIndex() {
			return m.save()
		}
		return m.openForm(Categories[m.cursor].ID)
	}
	return m, nil
}

func (m Model) openForm(category string) (tea.Model, tea.Cmd) {
	form := GetFormForCategory(category, m.values)
	if form == nil {
		return m, nil
	}
	if m.accessible {
		form = form.WithTheme(GetAccessibleTheme()).WithAccessible(true)
	}
	m.form = form
	m.state = stateForm
	return m, form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		m.state = stateMenu
		return m, nil
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.dirty = true
		fallthrough
	case huh.StateAborted:
		m.form = nil
		m.state = stateMenu
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.save()
	case "n", "N", "esc":
		return m, tea.Quit
	case "c":
		m.state = stateMenu
	}
	return m, nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	cfg, err := m.values.ToConfig()
	if err == nil && m.saveFunc != nil {
		err = m.saveFunc(cfg)
	}
	if err != nil {
		m.state = stateError
		m.err = err
		return m, nil
	}

	m.state = stateSaved
	m.dirty = false
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("wxcomp configuration"))
	if m.path != "" {
		b.WriteString("\n")
		b.WriteString(DescriptionStyle.Render(m.path))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateMenu:
		b.WriteString(m.menuView())
	case stateForm:
		b.WriteString(m.form.View())
	case stateConfirm:
		b.WriteString(ConfirmStyle.Render("You have unsaved changes.\n\nSave before quitting?\n\n[y] Yes  [n] No  [c] Cancel"))
	case stateSaved:
		b.WriteString(SuccessStyle.Render("Configuration saved successfully!"))
		b.WriteString("\n\nPress any key to exit.")
	case stateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\nPress any key to exit.")
	}

	return b.String()
}

func (m Model) menuView() string {
	var b strings.Builder

	line := func(i int, label, desc string) {
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> " + label))
			if desc != "" {
				b.WriteString(DescriptionStyle.Render("  " + desc))
			}
		} else {
			b.WriteString(UnselectedStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	for i, cat := range Categories {
		line(i, cat.Name, cat.Description)
	}

	save := "Save Configuration"
	if m.dirty {
		save += " *"
	}
	b.WriteString("\n")
	line(m.saveIndex(), save, "")

	b.WriteString(HelpStyle.Render(m.help.View(keys)))
	return b.String()
}

// Saved reports whether the last save succeeded
func (m Model) Saved() bool {
	return m.state == stateSaved
}

// Err returns the error shown to the user, if any
func (m Model) Err() error {
	return m.err
}

// Run starts the editor and blocks until the user quits
func Run(opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(NewModel(opts), programOpts...).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
