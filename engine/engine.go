// Package engine dispatches matched commands against the world: it wires
// the matcher, the resolver, the rule system and the dialog machine
// together, tracks the transcript log and the clock, and polls the
// endings. One Engine drives one play session.
package engine

import (
	"fmt"
	"strings"

	"github.com/mkraus/polyquest/engine/dialog"
	"github.com/mkraus/polyquest/engine/parser"
	"github.com/mkraus/polyquest/engine/resolve"
	"github.com/mkraus/polyquest/engine/rules"
	"github.com/mkraus/polyquest/engine/save"
	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/loader"
	"github.com/mkraus/polyquest/types"
)

// command pairs a side-effect-free acceptance check with the handler
// proper. validate answers "would this input be accepted", for probing
// without mutating anything; run produces output and mutates the world.
type command struct {
	validate func(e *Engine, args map[string]string) bool
	run      func(e *Engine, args map[string]string) bool
}

// Engine is the command dispatcher for one session.
type Engine struct {
	World    *world.World
	Locale   *loader.Locale
	Matcher  *parser.Matcher
	Resolver *resolve.Resolver

	// Log is the transcript of state-changing commands, in order.
	Log []types.LogEntry

	// Finished is set once an ending has been announced.
	Finished bool
	// Quit is set when the player asked to leave.
	Quit bool

	dataDir  string
	registry map[string]command
	dialog   *dialog.Session
	restored bool

	out          []string
	lastDuration int
}

// New builds an Engine from a loaded world and locale. dataDir is kept for
// in-session language switching.
func New(w *world.World, loc *loader.Locale, dataDir string) (*Engine, error) {
	m, err := parser.Compile(loc.Info, loc.Phrases)
	if err != nil {
		return nil, fmt.Errorf("compiling command templates: %w", err)
	}
	e := &Engine{
		World:    w,
		Locale:   loc,
		Matcher:  m,
		Resolver: resolve.New(loc.Articles, loc.Contractions),
		dataDir:  dataDir,
	}
	e.registry = buildRegistry()
	return e, nil
}

// say appends output lines for the command being executed.
func (e *Engine) say(lines ...string) {
	e.out = append(e.out, lines...)
}

// msg renders a locale message, substituting {key} pairs.
func (e *Engine) msg(key string, pairs ...string) string {
	text, ok := e.Locale.Messages[key]
	if !ok {
		return key
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		text = strings.ReplaceAll(text, "{"+pairs[i]+"}", pairs[i+1])
	}
	return text
}

// Execute runs one input line. It reports false, producing no output and
// changing nothing, when the line did not match any command template or
// its arguments did not resolve; the caller decides what to do with
// unhandled input. On true, the returned lines are the command's output,
// already appended to the transcript log if the command changed state.
func (e *Engine) Execute(input string) ([]string, bool) {
	norm := parser.Normalize(input)
	cmd, args, ok := e.Matcher.Match(norm)
	if !ok {
		return nil, false
	}
	c, ok := e.registry[cmd]
	if !ok {
		return nil, false
	}

	before := save.Visible(e.World)
	prevClock := e.World.Clock
	e.out = nil
	e.lastDuration = 0

	if !c.run(e, args) {
		return nil, false
	}
	lines := e.out
	e.out = nil

	after := save.Visible(e.World)
	changed := save.Changed(before, after)

	e.World.AdvanceTime(e.lastDuration)
	if world.Hour(e.World.Clock) != world.Hour(prevClock) {
		lines = append(lines, e.msg("time", "time", e.World.FormatClock()))
	}

	if changed {
		if text, over := rules.CheckEndings(e.World); over {
			lines = append(lines, "", text)
			e.Finished = true
		}
		e.Log = append(e.Log, types.LogEntry{Command: norm, Output: lines})
	}
	return lines, true
}

// Probe reports whether the input would be accepted by Execute, without
// running it. The world is not touched.
func (e *Engine) Probe(input string) bool {
	cmd, args, ok := e.Matcher.Match(parser.Normalize(input))
	if !ok {
		return false
	}
	c, ok := e.registry[cmd]
	if !ok {
		return false
	}
	if c.validate == nil {
		return true
	}
	return c.validate(e, args)
}

// Opening renders the session opening: title, intro, clock and the
// starting room.
func (e *Engine) Opening() []string {
	var lines []string
	if e.World.Title != "" {
		lines = append(lines, e.World.Title, "")
	}
	if e.World.Intro != "" && !e.restored {
		lines = append(lines, e.World.Intro, "")
	}
	lines = append(lines, e.msg("time", "time", e.World.FormatClock()))
	lines = append(lines, e.enterRoom()...)
	return lines
}

// SwitchLanguage reloads world and locale for lang, replaying the current
// session state onto the fresh world. The world pointer changes; callers
// holding e.World must re-read it.
func (e *Engine) SwitchLanguage(lang string) error {
	diff := save.Capture(e.World)

	w, loc, err := loader.Load(e.dataDir, lang)
	if err != nil {
		return err
	}
	m, err := parser.Compile(loc.Info, loc.Phrases)
	if err != nil {
		return fmt.Errorf("compiling command templates: %w", err)
	}
	save.Apply(w, diff)
	w.Debug = e.World.Debug

	e.World = w
	e.Locale = loc
	e.Matcher = m
	e.Resolver = resolve.New(loc.Articles, loc.Contractions)
	e.dialog = nil
	return nil
}

// SaveData captures the session as a diff record, including the transcript
// log and the active language.
func (e *Engine) SaveData() *save.Data {
	d := save.Capture(e.World)
	d.Language = e.Locale.Language
	d.Log = e.Log
	return d
}

// RestoreLog adopts the transcript from a loaded save. The session then
// counts as restored and Opening skips the intro text.
func (e *Engine) RestoreLog(log []types.LogEntry) {
	e.Log = append([]types.LogEntry{}, log...)
	e.restored = true
}
