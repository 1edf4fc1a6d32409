package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user aborts the API key prompt.
var ErrCancelled = errors.New("cancelled")

type apiKeyModel struct {
	input     textinput.Model
	value     string
	done      bool
	cancelled bool
	style     *styles
}

func newAPIKeyModel(out io.Writer) apiKeyModel {
	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "Enter your API key..."
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.EchoCharacter = '•'
	apiKeyInput.Focus()

	return apiKeyModel{
		input: apiKeyInput,
		style: newStyles(out),
	}
}

func (m apiKeyModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m apiKeyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m apiKeyModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	s := m.style
	return s.title.Render("OpenAI API key not found") + "\n" +
		s.label.Render("It will be saved for future runs.") + "\n\n" +
		m.input.View() + "\n\n" +
		s.instruction.Render("enter: save • esc: cancel") + "\n"
}

// AskAPIKey reads an API key from in, echoing prompts to out. A terminal gets
// a masked input field; anything else is read as a single line.
func AskAPIKey(in io.Reader, out io.Writer) (string, error) {
	if IsTerminal(in) {
		return askInteractive(in, out)
	}
	return readLine(in, out)
}

func askInteractive(in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newAPIKeyModel(out), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	m := final.(apiKeyModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.value, nil
}

func readLine(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter your OpenAI API key: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
