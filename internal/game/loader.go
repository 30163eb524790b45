package game

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdMove
	CmdTick
	CmdResetBoard
	CmdResetMatch
)

func (k CommandKind) String() string {
	switch k {
	case CmdStart:
		return "start"
	case CmdMove:
		return "move"
	case CmdTick:
		return "tick"
	case CmdResetBoard:
		return "reset-board"
	case CmdResetMatch:
		return "reset"
	default:
		return "unknown"
	}
}

// Command is one line of a match script.
type Command struct {
	Kind     CommandKind
	Names    [2]string
	Row, Col int
	Count    int
	Source   string
	Line     int
}

func (c Command) String() string {
	switch c.Kind {
	case CmdStart:
		return fmt.Sprintf("start %s %s", c.Names[0], c.Names[1])
	case CmdMove:
		return fmt.Sprintf("move %d %d", c.Row, c.Col)
	case CmdTick:
		return fmt.Sprintf("tick %d", c.Count)
	default:
		return c.Kind.String()
	}
}

var (
	startRe = regexp.MustCompile(`^start\s+(\S+)\s+(\S+)$`)
	moveRe  = regexp.MustCompile(`^(?:move\s+)?(-?\d+)\s*[,\s]\s*(-?\d+)$`)
	tickRe  = regexp.MustCompile(`^tick(?:\s+(\d+))?$`)
)

// LoadScripts loads commands from a list of paths (files or directories).
// Files in a directory are read in name order.
func LoadScripts(paths []string) ([]Command, error) {
	var cmds []Command

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
			}
			for _, entry := range files {
				if !entry.IsDir() {
					c, err := loadFile(filepath.Join(path, entry.Name()))
					if err != nil {
						return nil, err
					}
					cmds = append(cmds, c...)
				}
			}
		} else {
			c, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, c...)
		}
	}

	return cmds, nil
}

func loadFile(path string) ([]Command, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return ParseScript(file, path)
}

// ParseScript reads one command per line. Blank lines and lines starting
// with '#' are skipped.
func ParseScript(r io.Reader, source string) ([]Command, error) {
	var cmds []Command

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cmd, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, line, err)
		}
		cmd.Source = source
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", source, err)
	}

	return cmds, nil
}

func parseLine(text string) (Command, error) {
	switch {
	case text == "reset":
		return Command{Kind: CmdResetMatch}, nil
	case text == "reset-board":
		return Command{Kind: CmdResetBoard}, nil
	}

	if m := startRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: CmdStart, Names: [2]string{m[1], m[2]}}, nil
	}

	if m := moveRe.FindStringSubmatch(text); m != nil {
		row, err1 := strconv.Atoi(m[1])
		col, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			return Command{}, fmt.Errorf("invalid move %q", text)
		}
		return Command{Kind: CmdMove, Row: row, Col: col}, nil
	}

	if m := tickRe.FindStringSubmatch(text); m != nil {
		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil || n == 0 {
				return Command{}, fmt.Errorf("invalid tick count %q", m[1])
			}
			count = n
		}
		return Command{Kind: CmdTick, Count: count}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q", text)
}
