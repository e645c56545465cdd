package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jaminalder/timetravel-tic-tac-toe/internal/domain"
)

// Model is a bubbletea program playing one game in the terminal.
type Model struct {
	game   *domain.Game
	cursor int
	keys   KeyMap
	help   help.Model
	log    *slog.Logger
	width  int
}

// New returns a model playing g. A nil g starts a fresh game.
func New(g *domain.Game, log *slog.Logger) Model {
	if g == nil {
		g = domain.New()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Model{
		game:   g,
		cursor: 4,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		log:    log.With("component", "tui"),
	}
}

// Game returns the session the model drives.
func (m Model) Game() *domain.Game { return m.game }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-3)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(3)
		case key.Matches(msg, m.keys.Left):
			if m.cursor%3 > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Right):
			if m.cursor%3 < 2 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Place):
			m.play(m.cursor)
		case key.Matches(msg, m.keys.Cell):
			cell := int(msg.String()[0] - '1')
			m.cursor = cell
			m.play(cell)
		case key.Matches(msg, m.keys.Back):
			m.jump(m.game.StepNumber() - 1)
		case key.Matches(msg, m.keys.Forward):
			m.jump(m.game.StepNumber() + 1)
		case key.Matches(msg, m.keys.Start):
			m.jump(0)
		case key.Matches(msg, m.keys.Latest):
			m.jump(m.game.Len() - 1)
		case key.Matches(msg, m.keys.New):
			m.game = domain.New()
			m.cursor = 4
			m.log.Info("new game")
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if next := m.cursor + delta; domain.ValidIndex(next) {
		m.cursor = next
	}
}

func (m *Model) play(cell int) {
	if !m.game.Play(cell) {
		m.log.Debug("move ignored", "cell", cell)
		return
	}
	m.log.Debug("move", "cell", cell, "step", m.game.StepNumber(), "status", m.game.Status().String())
}

// jump ignores steps outside history: [ at the start and ] at the end do nothing.
func (m *Model) jump(step int) {
	if err := m.game.JumpTo(step); err != nil {
		m.log.Debug("jump ignored", "error", err)
	}
}

func (m Model) View() string {
	board := m.renderBoard()

	status := m.game.Status()
	st := statusStyle
	if status.Winner != domain.Empty {
		st = winnerStyle
	}
	left := lipgloss.JoinVertical(lipgloss.Left, board, st.Render(status.String()))

	var moves strings.Builder
	for _, mv := range m.game.Moves() {
		line := fmt.Sprintf("%d. %s", mv.Step, mv.Label)
		if mv.Current {
			moves.WriteString(currentMoveStyle.Render("> " + line))
		} else {
			moves.WriteString(moveStyle.Render(line))
		}
		moves.WriteString("\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), moves.String())
	return titleStyle.Render("Tic-Tac-Toe") + "\n\n" + body + "\n" + m.help.View(m.keys) + "\n"
}

func (m Model) renderBoard() string {
	squares := m.game.Current().Squares
	rows := make([]string, 0, 5)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 5)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			cells = append(cells, m.renderCell(i, squares[i]))
			if c < 2 {
				cells = append(cells, "│")
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if r < 2 {
			rows = append(rows, "───┼───┼───")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(i int, c domain.Cell) string {
	mark := c.String()
	switch c {
	case domain.X:
		mark = xStyle.Render(mark)
	case domain.O:
		mark = oStyle.Render(mark)
	default:
		mark = " "
	}
	if i == m.cursor {
		return cursorStyle.Render(mark)
	}
	return cellStyle.Render(mark)
}
