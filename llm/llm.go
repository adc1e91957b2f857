// Package llm is the natural-language fallback boundary: input the
// matcher rejects can be handed to an interpreter that maps it onto a
// canonical command, suggests one, or gives up. The engine itself never
// talks to a model; the session loop decides when to consult one.
package llm

import "context"

// Markers returned by an Interpreter instead of a command line.
const (
	// SuggestPrefix precedes a command the interpreter is not confident
	// enough to run; the session shows it to the player instead.
	SuggestPrefix = "__SUGGEST__"
	// UnknownToken means the interpreter could not map the input at all.
	UnknownToken = "__UNKNOWN__"
)

// Context is the scene information an interpreter grounds on. It is
// refreshed by the session before each consultation.
type Context struct {
	Verbs    []string // canonical command ids
	Nouns    []string // display names currently referable
	Scene    []string // rendered room view and inventory
	Recent   []string // last few accepted commands
	Language string
}

// Interpreter maps rejected input to a canonical command line, a
// SuggestPrefix-marked suggestion, or UnknownToken. Implementations must
// degrade to UnknownToken on any internal failure; play never breaks
// because a model is unreachable.
type Interpreter interface {
	SetContext(c Context)
	Interpret(ctx context.Context, input string) string
}

// NoOp rejects everything. It is the interpreter when no model is
// configured.
type NoOp struct{}

func (NoOp) SetContext(Context) {}

func (NoOp) Interpret(context.Context, string) string { return UnknownToken }
