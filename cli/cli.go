// Package cli runs an interactive play session on a terminal: it reads
// commands, lets the engine execute them, consults the interpreter for
// rejected input, and persists the session on exit.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mkraus/polyquest/engine"
	"github.com/mkraus/polyquest/engine/save"
	"github.com/mkraus/polyquest/llm"
	"github.com/mkraus/polyquest/loader"
)

// Session drives one play session.
type Session struct {
	Engine *engine.Engine
	Interp llm.Interpreter
	Saves  *save.Manager
	In     Reader
	Out    io.Writer
}

// Run plays until the player quits, input ends, or an ending fires. The
// session is saved on quit and on end of input; a finished game removes
// the save instead.
func (s *Session) Run(ctx context.Context) error {
	s.print(s.Engine.Opening()...)

	for {
		line, err := s.In.ReadCommand()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				s.print(s.message("farewell"))
				return s.persist()
			}
			return fmt.Errorf("reading command: %w", err)
		}

		lines, ok := s.Engine.Execute(line)
		if !ok {
			lines = s.consult(ctx, line)
		}
		s.print(lines...)

		if s.Engine.Finished {
			s.Saves.Cleanup()
			return nil
		}
		if s.Engine.Quit {
			return s.persist()
		}
	}
}

// consult hands a rejected line to the interpreter and acts on its
// answer: run a confident mapping, show a suggestion, or admit defeat.
func (s *Session) consult(ctx context.Context, line string) []string {
	s.Interp.SetContext(llm.Context{
		Verbs:    s.Engine.Verbs(),
		Nouns:    s.Engine.Nouns(),
		Scene:    s.Engine.Scene(),
		Recent:   s.recentCommands(3),
		Language: s.Engine.Locale.Language,
	})
	// The prompt scaffolding follows the active locale across language
	// switches.
	if c, ok := s.Interp.(interface{ SetConfig(loader.LLMConfig) }); ok {
		c.SetConfig(s.Engine.Locale.LLM)
	}

	out := s.Interp.Interpret(ctx, line)
	switch {
	case out == llm.UnknownToken:
		return []string{s.message("unknown_command")}
	case strings.HasPrefix(out, llm.SuggestPrefix):
		suggested := strings.TrimPrefix(out, llm.SuggestPrefix)
		return []string{s.messageWith("llm_suggest", "command", suggested)}
	default:
		lines, ok := s.Engine.Execute(out)
		if !ok {
			return []string{s.message("unknown_command")}
		}
		return lines
	}
}

func (s *Session) recentCommands(n int) []string {
	log := s.Engine.Log
	if len(log) > n {
		log = log[len(log)-n:]
	}
	cmds := make([]string, 0, len(log))
	for _, entry := range log {
		cmds = append(cmds, entry.Command)
	}
	return cmds
}

func (s *Session) persist() error {
	if err := s.Saves.Save(s.Engine.SaveData()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *Session) print(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(s.Out, line)
	}
}

func (s *Session) message(key string) string {
	if text, ok := s.Engine.Locale.Messages[key]; ok {
		return text
	}
	return key
}

func (s *Session) messageWith(key, placeholder, value string) string {
	return strings.ReplaceAll(s.message(key), "{"+placeholder+"}", value)
}
