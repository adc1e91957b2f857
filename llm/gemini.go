package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mkraus/polyquest/loader"
)

// Gemini interprets rejected input with a Gemini model, prompted by the
// locale's interpreter configuration.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    loader.LLMConfig
	game   Context
}

// NewGemini builds a Gemini interpreter. The locale configuration supplies
// the prompt scaffolding in the player's language.
func NewGemini(ctx context.Context, apiKey string, cfg loader.LLMConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating interpreter client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel("gemini-2.5-flash"),
		cfg:    cfg,
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() {
	g.client.Close()
}

// SetContext replaces the scene information for the next consultation.
func (g *Gemini) SetContext(c Context) { g.game = c }

// SetConfig replaces the locale prompt configuration, for language
// switches mid-session.
func (g *Gemini) SetConfig(cfg loader.LLMConfig) { g.cfg = cfg }

// Interpret asks the model to map the input onto a canonical command. Any
// transport or parse failure degrades to UnknownToken.
func (g *Gemini) Interpret(ctx context.Context, input string) string {
	resp, err := g.model.GenerateContent(ctx, genai.Text(g.prompt(input)))
	if err != nil {
		return UnknownToken
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return UnknownToken
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return UnknownToken
	}
	return decodeReply(string(text))
}

// prompt renders the full consultation prompt from the locale scaffolding
// and the current scene.
func (g *Gemini) prompt(input string) string {
	var b strings.Builder
	b.WriteString(g.cfg.Prompt)
	b.WriteString("\n\n")
	b.WriteString(g.cfg.Context)
	b.WriteString("\n")
	b.WriteString(strings.Join(g.game.Scene, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "verbs: %s\n", strings.Join(g.game.Verbs, ", "))
	fmt.Fprintf(&b, "nouns: %s\n", strings.Join(g.game.Nouns, ", "))
	if len(g.cfg.SecondObjectPreps) > 0 {
		fmt.Fprintf(&b, "second object prepositions: %s\n", strings.Join(g.cfg.SecondObjectPreps, ", "))
	}
	if len(g.game.Recent) > 0 {
		fmt.Fprintf(&b, "recent: %s\n", strings.Join(g.game.Recent, "; "))
	}
	b.WriteString("\n")
	b.WriteString(g.cfg.Guidance)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "input: %s\n", input)
	return b.String()
}

// reply is the JSON contract with the model. Confidence 2 means "run
// this", 1 means "suggest it", 0 means "cannot map".
type reply struct {
	Confidence int    `json:"confidence"`
	Verb       string `json:"verb"`
	Object     string `json:"object"`
	Additional string `json:"additional"`
}

// decodeReply parses the model output, tolerating code fences, and turns
// it into a command line or a marker.
func decodeReply(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return UnknownToken
	}
	if r.Verb == "" {
		return UnknownToken
	}

	parts := []string{r.Verb}
	if r.Object != "" {
		parts = append(parts, r.Object)
	}
	if r.Additional != "" {
		parts = append(parts, r.Additional)
	}
	cmd := strings.Join(parts, " ")

	switch r.Confidence {
	case 2:
		return cmd
	case 1:
		return SuggestPrefix + cmd
	default:
		return UnknownToken
	}
}
