package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineLength = 1024 * 1024

// Line is a parsed command with the source line it came from
type Line struct {
	Number  int
	Command Command
}

// Script is an ordered, parsed script. Source order is execution order.
type Script struct {
	Name        string
	Lines       []Line
	Diagnostics []*ParseError
}

// Commands returns the commands in execution order
func (s *Script) Commands() []Command {
	cmds := make([]Command, len(s.Lines))
	for i, l := range s.Lines {
		cmds[i] = l.Command
	}
	return cmds
}

// Valid reports whether every line parsed
func (s *Script) Valid() bool {
	return len(s.Diagnostics) == 0
}

// Load reads a script, one command per line. Blank lines are skipped and a
// malformed line becomes the fallback command with a recorded diagnostic.
// Only read failures are returned as errors.
func Load(r io.Reader, name string) (*Script, error) {
	s := &Script{Name: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if lineNum == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		cmd, err := ParseLine(text)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNum
				s.Diagnostics = append(s.Diagnostics, perr)
			}
			parserLog.Warn("Ignoring malformed script line",
				"script", name,
				"line", lineNum,
				"text", text,
				"reason", errors.Unwrap(err))
		}
		s.Lines = append(s.Lines, Line{Number: lineNum, Command: cmd})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script %s: %w", name, err)
	}

	parserLog.Debug("Script loaded",
		"script", name,
		"commands", len(s.Lines),
		"diagnostics", len(s.Diagnostics))
	return s, nil
}

// LoadFile opens and loads a script file
func LoadFile(path string) (*Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening script file: %w", err)
	}
	defer file.Close()

	return Load(file, path)
}
