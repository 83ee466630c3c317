// Package repl provides the interactive query shell.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/expocli/expocli/internal/eql"
	"github.com/expocli/expocli/internal/executor"
	"github.com/expocli/expocli/internal/render"
)

const prompt = "eql> "

var completions = []string{
	".exit",
	".format ",
	".help",
	".quit",
	".stats",
	"SELECT ",
}

// Shell evaluates EQL lines interactively. Dispatch carries the whole
// evaluation so the line-editor loop stays a thin wrapper around it.
type Shell struct {
	exec    *executor.Executor
	out     io.Writer
	errOut  io.Writer
	format  render.Format
	stats   bool
	history string
}

// New returns a shell that renders tables until .format changes it.
func New(exec *executor.Executor, out, errOut io.Writer) *Shell {
	return &Shell{
		exec:    exec,
		out:     out,
		errOut:  errOut,
		format:  render.FormatTable,
		history: defaultHistoryPath(),
	}
}

// Run owns the terminal until the user exits with .exit, ctrl-c, or ctrl-d.
func (s *Shell) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)
	s.loadHistory(line)
	defer s.saveHistory(line)

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if s.Dispatch(input) {
			return nil
		}
	}
}

// Dispatch evaluates one line and reports whether the shell should exit.
func (s *Shell) Dispatch(input string) bool {
	if strings.HasPrefix(input, ".") {
		return s.dotCommand(input)
	}

	q, err := eql.ParseQuery(input)
	if err != nil {
		fmt.Fprintf(s.errOut, "error: %v\n", err)
		return false
	}
	if !filepath.IsAbs(q.FromPath) {
		if abs, err := filepath.Abs(q.FromPath); err == nil {
			q.FromPath = abs
		}
	}

	rows, stats := s.exec.Execute(q)
	if err := render.Write(s.out, s.format, q.Columns(), rows); err != nil {
		fmt.Fprintf(s.errOut, "error: %v\n", err)
		return false
	}
	if s.stats {
		_ = render.Stats(s.out, stats)
	}
	return false
}

func (s *Shell) dotCommand(input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ".exit", ".quit":
		return true
	case ".help":
		s.printHelp()
	case ".format":
		if len(fields) != 2 {
			fmt.Fprintln(s.errOut, "usage: .format table|csv|json")
			break
		}
		f, err := render.ParseFormat(fields[1])
		if err != nil {
			fmt.Fprintf(s.errOut, "error: %v\n", err)
			break
		}
		if f == render.FormatSQLite {
			fmt.Fprintln(s.errOut, "sqlite output is file-backed; use the query command with --output")
			break
		}
		s.format = f
	case ".stats":
		s.stats = !s.stats
		state := "off"
		if s.stats {
			state = "on"
		}
		fmt.Fprintf(s.out, "stats %s\n", state)
	default:
		fmt.Fprintf(s.errOut, "unknown command: %s (try .help)\n", fields[0])
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Enter an EQL query, for example:
  SELECT name, price FROM ./menus WHERE calories < 700 ORDER BY price

Commands:
  .format <name>   set the output format (table, csv, json)
  .stats           toggle the execution summary line
  .help            show this help
  .exit            leave the shell
`)
}

func complete(line string) []string {
	if line == "" {
		return completions
	}
	var out []string
	for _, c := range completions {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "expocli-history")
	}
	return filepath.Join(home, ".expocli", "history")
}

func (s *Shell) loadHistory(line *liner.State) {
	f, err := os.Open(s.history)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		fmt.Fprintf(s.errOut, "read history: %v\n", err)
	}
}

func (s *Shell) saveHistory(line *liner.State) {
	if err := os.MkdirAll(filepath.Dir(s.history), 0o755); err != nil {
		fmt.Fprintf(s.errOut, "save history: %v\n", err)
		return
	}
	f, err := os.Create(s.history)
	if err != nil {
		fmt.Fprintf(s.errOut, "save history: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		fmt.Fprintf(s.errOut, "write history: %v\n", err)
	}
}
