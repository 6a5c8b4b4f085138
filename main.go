package main

import (
	"flag"
	"fmt"
	"io"
	"log"

	"go-tetris/internal/board"
	"go-tetris/internal/game"
	"go-tetris/internal/piece"
	"go-tetris/internal/scoring"
	"go-tetris/internal/state"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Game over
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // New high score
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Panel values
	boldStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	flashStyle  = lipgloss.NewStyle().Background(lipgloss.Color("15"))
	panelStyle  = lipgloss.NewStyle().Padding(0, 2)
)

// cellStyles maps locked colors to terminal backgrounds.
var cellStyles = map[piece.Color]lipgloss.Style{
	piece.Cyan:    lipgloss.NewStyle().Background(lipgloss.Color("14")),
	piece.Yellow:  lipgloss.NewStyle().Background(lipgloss.Color("11")),
	piece.Magenta: lipgloss.NewStyle().Background(lipgloss.Color("13")),
	piece.Green:   lipgloss.NewStyle().Background(lipgloss.Color("10")),
	piece.Red:     lipgloss.NewStyle().Background(lipgloss.Color("9")),
	piece.Blue:    lipgloss.NewStyle().Background(lipgloss.Color("12")),
	piece.Orange:  lipgloss.NewStyle().Background(lipgloss.Color("208")),
}

var menuItems = []string{"New game", "Reset high score", "Quit"}

type screen int

const (
	menuScreen screen = iota
	gameScreen
)

type gameKeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Rotate   key.Binding
	SoftDrop key.Binding
	HardDrop key.Binding
	Pause    key.Binding
	Restart  key.Binding
	Menu     key.Binding
	Quit     key.Binding
}

func (k gameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Rotate, k.SoftDrop, k.HardDrop, k.Pause, k.Restart, k.Menu, k.Quit}
}

func (k gameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Rotate},
		{k.SoftDrop, k.HardDrop},
		{k.Pause, k.Restart, k.Menu, k.Quit},
	}
}

type menuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var gameKeys = gameKeyMap{
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Rotate:   key.NewBinding(key.WithKeys("up", "k", "x"), key.WithHelp("↑/x", "rotate")),
	SoftDrop: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "soft drop")),
	HardDrop: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hard drop")),
	Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Menu:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var menuKeys = menuKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type LocalState struct {
	Session *game.Session

	screen     screen
	menuCursor int
	help       help.Model
	ascii      bool
	tick       time.Duration

	clearStart time.Time // when the running clear animation was first seen
	overLogged bool
	err        error
}

type TickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func initialModel(ascii bool, tick time.Duration, opts ...game.Option) (*LocalState, error) {
	sess, err := game.NewSession(scoring.NewMemoryStorage(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &LocalState{
		Session: sess,
		help:    help.New(),
		ascii:   ascii,
		tick:    tick,
	}, nil
}

func (s *LocalState) Init() tea.Cmd {
	return tickCmd(s.tick)
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if s.screen == gameScreen {
			s.advance(time.Time(msg))
		}
		return s, tickCmd(s.tick)
	case tea.WindowSizeMsg:
		s.help.Width = msg.Width
	case tea.KeyMsg:
		if s.screen == menuScreen {
			return s.updateMenu(msg)
		}
		return s.updateGame(msg)
	}
	return s, nil
}

func (s *LocalState) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, menuKeys.Quit):
		return s, tea.Quit
	case key.Matches(msg, menuKeys.Up):
		s.menuCursor = (s.menuCursor + len(menuItems) - 1) % len(menuItems)
	case key.Matches(msg, menuKeys.Down):
		s.menuCursor = (s.menuCursor + 1) % len(menuItems)
	case key.Matches(msg, menuKeys.Select):
		switch s.menuCursor {
		case 0:
			s.restart()
			s.screen = gameScreen
		case 1:
			s.setErr(s.Session.ResetHighScore())
			log.Printf("high score reset")
		case 2:
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *LocalState) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, gameKeys.Quit):
		return s, tea.Quit
	case key.Matches(msg, gameKeys.Menu):
		s.screen = menuScreen
	case key.Matches(msg, gameKeys.Restart):
		s.restart()
	case key.Matches(msg, gameKeys.Pause):
		log.Printf("paused: %v", s.Session.TogglePause())
	case key.Matches(msg, gameKeys.Left):
		s.Session.Move(-1)
	case key.Matches(msg, gameKeys.Right):
		s.Session.Move(1)
	case key.Matches(msg, gameKeys.Rotate):
		s.Session.Rotate()
	case key.Matches(msg, gameKeys.SoftDrop):
		_, err := s.Session.SoftDrop()
		s.setErr(err)
	case key.Matches(msg, gameKeys.HardDrop):
		_, err := s.Session.HardDrop()
		s.setErr(err)
	}
	s.logGameOver()
	return s, nil
}

// advance drives gravity and the clear animation from the tick loop.
func (s *LocalState) advance(now time.Time) {
	if s.Session.Paused() {
		return
	}
	snap := s.Session.Snapshot()
	if !snap.Clearing {
		s.clearStart = time.Time{}
		_, err := s.Session.Tick()
		s.setErr(err)
		s.logGameOver()
		return
	}

	if s.clearStart.IsZero() {
		s.clearStart = now
	}
	progress := state.Progress(now.Sub(s.clearStart))
	s.Session.UpdateAnimation(progress)
	if progress < 1 {
		return
	}
	n, err := s.Session.CompleteLineClear()
	s.setErr(err)
	s.clearStart = time.Time{}
	log.Printf("cleared %d lines (rows %v)", n, snap.Animation.Lines)
	s.logGameOver()
}

func (s *LocalState) restart() {
	s.Session.Restart()
	s.clearStart = time.Time{}
	s.overLogged = false
	s.err = nil
	log.Printf("new game")
}

func (s *LocalState) logGameOver() {
	if s.overLogged {
		return
	}
	snap := s.Session.Snapshot()
	if snap.GameOver {
		s.overLogged = true
		log.Printf("game over: score=%d level=%d lines=%d", snap.Score, snap.Level, snap.Lines)
	}
}

func (s *LocalState) setErr(err error) {
	if err != nil {
		s.err = err
		log.Printf("error: %v", err)
	}
}

func (s *LocalState) renderCell(snap game.Snapshot, row, col int) string {
	c := snap.Grid[row][col]
	if s.ascii {
		switch {
		case snap.Flashing(row):
			return "##"
		case c == piece.None:
			return " ."
		default:
			return "[]"
		}
	}
	if snap.Flashing(row) {
		return flashStyle.Render("  ")
	}
	if style, ok := cellStyles[c]; ok {
		return style.Render("  ")
	}
	return "  "
}

func (s *LocalState) RenderBoard(snap game.Snapshot) string {
	var b strings.Builder
	for row := 0; row < board.Height; row++ {
		for col := 0; col < board.Width; col++ {
			b.WriteString(s.renderCell(snap, row, col))
		}
		if row < board.Height-1 {
			b.WriteString("\n")
		}
	}

	border := lipgloss.RoundedBorder()
	if s.ascii {
		border = lipgloss.ASCIIBorder()
	}
	return lipgloss.NewStyle().Border(border).Render(b.String())
}

func (s *LocalState) renderPanel(snap game.Snapshot) string {
	lines := []string{
		boldStyle.Render("SCORE"),
		scoreStyle.Render(fmt.Sprint(snap.Score)),
		"",
		boldStyle.Render("LEVEL"),
		scoreStyle.Render(fmt.Sprint(snap.Level)),
		"",
		boldStyle.Render("LINES"),
		scoreStyle.Render(fmt.Sprint(snap.Lines)),
		"",
		boldStyle.Render("HIGH"),
		scoreStyle.Render(fmt.Sprint(s.Session.HighScore())),
	}

	switch {
	case snap.GameOver:
		lines = append(lines, "", redStyle.Render("GAME OVER"), "press r to play again")
		if s.Session.NewHighScore() {
			lines = append(lines, greenStyle.Render("New high score!"))
		}
	case s.Session.Paused():
		lines = append(lines, "", boldStyle.Render("PAUSED"))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (s *LocalState) viewMenu() string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("TETRIS") + "\n\n")
	for i, item := range menuItems {
		if i == s.menuCursor {
			b.WriteString(cursorStyle.Render("> "+item) + "\n")
		} else {
			b.WriteString("  " + item + "\n")
		}
	}
	b.WriteString("\nHigh score: " + scoreStyle.Render(fmt.Sprint(s.Session.HighScore())) + "\n")

	top := s.Session.TopScores(5)
	if len(top) > 0 {
		b.WriteString("\nTop scores:")
		for _, entry := range top {
			b.WriteString(fmt.Sprintf("\n  * %d (level %d, %d lines) on %s", entry.Score, entry.Level, entry.Lines, entry.Timestamp))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + s.help.View(menuKeys))
	return b.String()
}

func (s *LocalState) View() string {
	if s.screen == menuScreen {
		return s.viewMenu()
	}

	snap := s.Session.Snapshot()
	display := lipgloss.JoinHorizontal(lipgloss.Top, s.RenderBoard(snap), s.renderPanel(snap))
	if s.err != nil {
		display += "\n" + redStyle.Render(s.err.Error())
	}
	return display + "\n" + s.help.View(gameKeys)
}

type strictIntFlag int

func (i *strictIntFlag) String() string {
	return fmt.Sprint(int(*i))
}

func (i *strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("value must not be negative: %d", v)
	}
	*i = strictIntFlag(v)
	return nil
}

func (i *strictIntFlag) IsBoolFlag() bool { return true }

func main() {
	var seed strictIntFlag
	var debugPath string
	var ascii bool
	var tick time.Duration

	flag.Var(&seed, "seed", "Seed the piece sequence (0 picks a random seed)")
	flag.StringVar(&debugPath, "debug", "", "Write a debug log to the given file")
	flag.BoolVar(&ascii, "ascii", false, "Draw the board without colors")
	flag.DurationVar(&tick, "tick", 16*time.Millisecond, "Polling interval for gravity and animation")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "  -seed=N         Seed the piece sequence (0 picks a random seed)\n")
		fmt.Fprintf(os.Stderr, "  -debug=PATH     Write a debug log to PATH\n")
		fmt.Fprintf(os.Stderr, "  -ascii          Draw the board without colors\n")
		fmt.Fprintf(os.Stderr, "  -tick=DURATION  Polling interval for gravity and animation (default 16ms)\n")
		fmt.Fprintf(os.Stderr, "  -h, --help      Show this help message\n")
	}

	flag.Parse()

	if err := run(int(seed), debugPath, ascii, tick); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run plays until the player quits. Deferred cleanup runs before main exits.
func run(seed int, debugPath string, ascii bool, tick time.Duration) error {
	if tick <= 0 {
		return fmt.Errorf("invalid tick interval: %v", tick)
	}

	if debugPath != "" {
		f, err := tea.LogToFile(debugPath, "tetris")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var opts []game.Option
	if seed != 0 {
		opts = append(opts, game.WithSeed(uint64(seed)))
	}

	model, err := initialModel(ascii, tick, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize model: %w", err)
	}
	log.Printf("starting (seed=%d)", seed)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("program error: %v", err)
		return fmt.Errorf("failed to run the program: %w", err)
	}

	fmt.Printf("Thanks for playing! High score: %d\n", model.Session.HighScore())
	return nil
}
