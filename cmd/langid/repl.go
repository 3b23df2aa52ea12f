package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"langid/internal/driver"
	"langid/internal/tagfmt"
	"langid/internal/tokenize"
	"langid/internal/viterbi"
)

var replCmd = &cobra.Command{
	Use:   "repl [flags]",
	Short: "Interactively tag sentences as you type them",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	replCmd.Flags().String("models", "", "model directory (default: [model].dir from langid.toml)")
	replCmd.Flags().String("config", "", "path to langid.toml")
	replCmd.Flags().Float64("stay-prob", viterbi.DefaultStayProb, "probability that adjacent words share a language")
	replCmd.Flags().String("start-prior", "", "start distribution over languages (lexicon|uniform)")
}

func runRepl(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("repl needs a terminal; use identify for piped input")
	}
	set, stayProb, prior, err := loadModelSet(cmd)
	if err != nil {
		return err
	}
	trans, err := driver.Transition(set, stayProb, prior)
	if err != nil {
		return err
	}

	model := newReplModel(set, trans)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("repl failed: %w", err)
	}
	return nil
}

var (
	replTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	replErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	replDimStyle   = lipgloss.NewStyle().Faint(true)
)

type replModel struct {
	set       viterbi.ModelSet
	trans     viterbi.TransitionModel
	tokenizer tokenize.Tokenizer
	styles    map[string]lipgloss.Style
	input     textinput.Model
	history   []string
}

func newReplModel(set viterbi.ModelSet, trans viterbi.TransitionModel) *replModel {
	ti := textinput.New()
	ti.Placeholder = "type a sentence and press enter"
	ti.Focus()
	ti.CharLimit = 512
	return &replModel{
		set:       set,
		trans:     trans,
		tokenizer: tokenize.Whitespace{},
		styles:    tagfmt.Styles(set.Languages()),
		input:     ti,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				m.history = append(m.history, m.renderLine(line))
			}
			m.input.Reset()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) View() string {
	var b strings.Builder
	b.WriteString(replTitleStyle.Render("langid repl"))
	b.WriteString(" ")
	b.WriteString(replDimStyle.Render("(" + strings.Join(m.set.Languages(), " ") + ", esc to quit)"))
	b.WriteString("\n\n")
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

// renderLine decodes one sentence and colors every word by its assigned
// language.
func (m *replModel) renderLine(line string) string {
	tokens := m.tokenizer.Tokenize(line)
	res, err := viterbi.Decode(tokens, m.set, m.trans)
	if err != nil {
		return replErrStyle.Render(fmt.Sprintf("error: %v", err))
	}
	parts := make([]string, len(res.Tags))
	for i, tag := range res.Tags {
		word := tag.Word
		if style, ok := m.styles[tag.Language]; ok {
			word = style.Render(word)
		}
		parts[i] = word
	}
	return strings.Join(parts, " ") + " " + replDimStyle.Render(fmt.Sprintf("(%.2f)", res.LogProb))
}
