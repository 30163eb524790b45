package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go-ttt/internal/apperror"
	"go-ttt/internal/config"
	"go-ttt/internal/game"
	"go-ttt/internal/scoring"
	"go-ttt/internal/state"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Errors, time running out
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Wins, resets
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	xStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117")) // Light blue
	oStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("210")) // Light red
	helpStyle   = lipgloss.NewStyle().Faint(true)
	cellStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type LocalState struct {
	Session     *game.Session
	Inputs      [2]textinput.Model
	Focus       int
	Row, Col    int
	Notice      string
	NoticeStyle lipgloss.Style
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func initialModel(sess *game.Session, names config.Players) *LocalState {
	s := &LocalState{Session: sess, Row: 1, Col: 1}

	for i, name := range []string{names.One, names.Two} {
		ti := textinput.New()
		ti.Placeholder = fmt.Sprintf("Player %d Name", i+1)
		ti.CharLimit = 24
		ti.Width = 24
		ti.SetValue(name)
		s.Inputs[i] = ti
	}
	s.Inputs[0].Focus()

	return s
}

func (s *LocalState) Init() tea.Cmd {
	return textinput.Blink
}

func (s *LocalState) setNotice(msg string, style lipgloss.Style) {
	s.Notice = msg
	s.NoticeStyle = style
}

func (s *LocalState) focusInput(i int) tea.Cmd {
	s.Inputs[s.Focus].Blur()
	s.Focus = i
	return s.Inputs[i].Focus()
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if out := s.Session.Tick(); out.Kind == state.TimeExpired {
			s.setNotice(out.String(), redStyle)
		}
		return s, tickCmd()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return s, tea.Quit
		}
		if s.Session.Snapshot().Phase == state.StateAwaitingNames {
			return s.updateNaming(msg)
		}
		return s.updatePlaying(msg)
	}

	return s, nil
}

func (s *LocalState) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, tea.Quit
	case "tab", "shift+tab", "up", "down":
		return s, s.focusInput(1 - s.Focus)
	case "enter":
		if s.Focus == 0 && s.Inputs[1].Value() == "" {
			return s, s.focusInput(1)
		}
		if err := s.Session.Start(s.Inputs[0].Value(), s.Inputs[1].Value()); err != nil {
			s.setNotice("Please enter names for both players!", redStyle)
			return s, nil
		}
		s.Notice = ""
		// The clock only runs once a match exists.
		return s, tickCmd()
	}

	var cmd tea.Cmd
	s.Inputs[s.Focus], cmd = s.Inputs[s.Focus].Update(msg)
	return s, cmd
}

func (s *LocalState) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "esc":
		return s, tea.Quit
	case "up", "k":
		s.Row = (s.Row + state.BoardSize - 1) % state.BoardSize
	case "down", "j":
		s.Row = (s.Row + 1) % state.BoardSize
	case "left", "h":
		s.Col = (s.Col + state.BoardSize - 1) % state.BoardSize
	case "right", "l":
		s.Col = (s.Col + 1) % state.BoardSize
	case "enter", " ":
		s.place(s.Row, s.Col)
	case "r":
		s.Session.ResetMatch()
		s.setNotice("Match reset.", greenStyle)
	case "n":
		if err := s.Session.ResetBoard(); err == nil {
			s.setNotice("Board cleared.", greenStyle)
		}
	default:
		// 1-9 address the cells like a phone keypad.
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
			s.Row, s.Col = (n-1)/state.BoardSize, (n-1)%state.BoardSize
			s.place(s.Row, s.Col)
		}
	}

	return s, nil
}

func (s *LocalState) place(row, col int) {
	out, err := s.Session.Move(row, col)

	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		s.setNotice("That cell is already taken.", redStyle)
	case err != nil:
		s.setNotice(err.Error(), redStyle)
	case out.Kind == state.Won:
		s.setNotice("Game Over: "+out.String(), greenStyle)
	case out.Kind == state.Draw:
		s.setNotice("Game Over: "+out.String(), scoreStyle)
	default:
		s.Notice = ""
	}
}

func renderMark(m state.Mark) string {
	switch m {
	case state.X:
		return xStyle.Render("X")
	case state.O:
		return oStyle.Render("O")
	default:
		return " "
	}
}

func (s *LocalState) RenderBoard(board state.Board) string {
	rows := make([]string, 0, 2*state.BoardSize-1)

	for r, row := range board {
		cells := make([]string, 0, state.BoardSize)
		for c, mark := range row {
			style := cellStyle
			if r == s.Row && c == s.Col {
				style = style.Inherit(cursorStyle)
			}
			cells = append(cells, style.Render(renderMark(mark)))
		}
		rows = append(rows, strings.Join(cells, "│"))
		if r < state.BoardSize-1 {
			rows = append(rows, strings.Repeat("─", 5)+"┼"+strings.Repeat("─", 5)+"┼"+strings.Repeat("─", 5))
		}
	}

	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s *LocalState) viewNaming() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tic Tac Toe") + "\n\n")
	b.WriteString("Player 1 Name (X):\n" + s.Inputs[0].View() + "\n\n")
	b.WriteString("Player 2 Name (O):\n" + s.Inputs[1].View() + "\n\n")
	if s.Notice != "" {
		b.WriteString(s.NoticeStyle.Render(s.Notice) + "\n\n")
	}
	b.WriteString(helpStyle.Render("tab: switch field • enter: start game • esc: quit"))

	return b.String()
}

func (s *LocalState) View() string {
	snap := s.Session.Snapshot()
	if snap.Phase == state.StateAwaitingNames {
		return s.viewNaming()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Tic Tac Toe") + "\n\n")
	b.WriteString(fmt.Sprintf("%s's Turn (%s)\n", snap.Turn, renderMark(snap.TurnMark)))

	timeStyle := scoreStyle
	if float64(snap.TimeRemaining) <= float64(snap.TimeLimit)/3.0 {
		timeStyle = redStyle
	}
	b.WriteString(timeStyle.Render(fmt.Sprintf("Time Left: %ds", snap.TimeRemaining)) + "\n")

	scoreLine := fmt.Sprintf("%s: %d Wins   |   %s: %d Wins   |   Draws: %d",
		snap.Players[0].Name, snap.PlayerOneWins,
		snap.Players[1].Name, snap.PlayerTwoWins,
		snap.Draws)
	b.WriteString(scoreStyle.Render(scoreLine) + "\n")
	b.WriteString(fmt.Sprintf("Match %d, Round %d", snap.Match, snap.Round))
	if name, n := s.Session.Engine.State.Score.Streak(); n > 1 {
		b.WriteString(fmt.Sprintf(" | %s has won %d in a row", name, n))
	}
	b.WriteString("\n")

	b.WriteString(s.RenderBoard(snap.Board) + "\n")

	if s.Notice != "" {
		b.WriteString(s.NoticeStyle.Render(s.Notice) + "\n")
	}
	b.WriteString(helpStyle.Render("arrows/hjkl: move • enter/space or 1-9: place • n: new board • r: reset game • q: quit"))

	return b.String()
}

// turnFlag accepts a turn length in seconds or as MM:SS.
type turnFlag int

func (t *turnFlag) String() string {
	return fmt.Sprint(int(*t))
}

func (t *turnFlag) Set(s string) error {
	// Try parsing as simple integer first
	if val, err := strconv.Atoi(s); err == nil {
		*t = turnFlag(val)
		return nil
	}

	// Try parsing MM:SS
	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		min, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			*t = turnFlag(min*60 + sec)
			return nil
		}
	}

	return fmt.Errorf("invalid turn length: %s (use 'MM:SS' or seconds)", s)
}

// initialize logger. The TUI owns the terminal, so logs only go to a file
// unless fallback says otherwise.
func initLogger(conf *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	out := fallback
	closer := func() {}
	if conf.LogFile != "" {
		f, err := os.OpenFile(conf.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = f
		closer = func() { _ = f.Close() }
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})), closer, nil
}

func runScript(sess *game.Session, paths []string, names config.Players) error {
	cmds, err := game.LoadScripts(paths)
	if err != nil {
		return err
	}

	if names.One != "" && names.Two != "" {
		if err := sess.Start(names.One, names.Two); err != nil {
			return err
		}
	}

	for _, res := range sess.Run(cmds) {
		prefix := fmt.Sprintf("%s:%d  %-16s", res.Command.Source, res.Command.Line, res.Command)
		switch {
		case res.Err != nil:
			fmt.Println(prefix + redStyle.Render(res.Err.Error()))
		case len(res.Outcomes) == 0:
			fmt.Println(prefix + "ok")
		default:
			for _, out := range res.Outcomes {
				fmt.Println(prefix + greenStyle.Render(out.String()))
			}
		}
	}

	snap := sess.Snapshot()
	if snap.Phase != state.StateAwaitingNames {
		fmt.Println(scoreStyle.Render(fmt.Sprintf("%s: %d Wins | %s: %d Wins | Draws: %d",
			snap.Players[0].Name, snap.PlayerOneWins,
			snap.Players[1].Name, snap.PlayerTwoWins,
			snap.Draws)))
	}

	return nil
}

func main() {
	var configPath string
	var turn turnFlag
	var player1, player2 string
	var scriptMode bool
	var reportPath string
	var logFile string
	var debug bool

	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&configPath, "c", "", "Path to a YAML config file (shorthand)")

	flag.Var(&turn, "timer", "Seconds per turn (e.g. 30 or 0:30)")
	flag.Var(&turn, "t", "Seconds per turn (shorthand)")

	flag.StringVar(&player1, "player1", "", "Name of player one (X)")
	flag.StringVar(&player1, "p1", "", "Name of player one (shorthand)")
	flag.StringVar(&player2, "player2", "", "Name of player two (O)")
	flag.StringVar(&player2, "p2", "", "Name of player two (shorthand)")

	flag.BoolVar(&scriptMode, "script", false, "Replay the given script files instead of opening the board")
	flag.BoolVar(&scriptMode, "s", false, "Replay script files (shorthand)")

	flag.StringVar(&reportPath, "report", "", "Write finished rounds as JSON lines to this file on exit")
	flag.StringVar(&reportPath, "r", "", "Write a round report (shorthand)")

	flag.StringVar(&logFile, "log", "", "Write JSON logs to this file")
	flag.BoolVar(&debug, "debug", false, "Log every engine event")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [-s script-file...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "    -c, --config=FILE      Load settings from a YAML file (default: TTT_* environment)\n")
		fmt.Fprintf(os.Stderr, "    -t, --timer=VALUE      Seconds per turn (e.g. 30 or 0:30). Default 30.\n")
		fmt.Fprintf(os.Stderr, "   -p1, --player1=NAME     Name of player one (X)\n")
		fmt.Fprintf(os.Stderr, "   -p2, --player2=NAME     Name of player two (O)\n")
		fmt.Fprintf(os.Stderr, "    -s, --script           Replay script files or directories given as arguments\n")
		fmt.Fprintf(os.Stderr, "    -r, --report=FILE      Write finished rounds as JSON lines on exit\n")
		fmt.Fprintf(os.Stderr, "        --log=FILE         Write JSON logs to FILE\n")
		fmt.Fprintf(os.Stderr, "        --debug            Log every engine event\n")
		fmt.Fprintf(os.Stderr, "    -h, --help             Show this help message\n")
	}

	flag.Parse()

	conf, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the config file and environment.
	if turn != 0 {
		conf.TurnSeconds = int(turn)
	}
	if player1 != "" {
		conf.Players.One = player1
	}
	if player2 != "" {
		conf.Players.Two = player2
	}
	if reportPath != "" {
		conf.ReportPath = reportPath
	}
	if logFile != "" {
		conf.LogFile = logFile
	}
	if debug {
		conf.LogLevel = "debug"
	}
	if err := conf.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if scriptMode && len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	var fallback io.Writer = io.Discard
	if scriptMode {
		fallback = os.Stderr
	}
	logger, closeLog, err := initLogger(conf, fallback)
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	var storage scoring.ReportStorage
	if conf.ReportPath != "" {
		jfs, err := scoring.NewJSONFileStorage(conf.ReportPath)
		if err != nil {
			fmt.Printf("Error initializing report: %v\n", err)
			closeLog()
			os.Exit(1)
		}
		storage = jfs
	}

	sess := game.NewSession(state.Options{TurnSeconds: conf.TurnSeconds}, storage, logger)

	if scriptMode {
		err = runScript(sess, args, conf.Players)
	} else {
		p := tea.NewProgram(initialModel(sess, conf.Players))
		_, err = p.Run()
	}

	if ferr := sess.Finish(); ferr != nil && err == nil {
		err = ferr
	}
	closeLog()

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
