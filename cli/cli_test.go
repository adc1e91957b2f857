package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkraus/polyquest/engine"
	"github.com/mkraus/polyquest/engine/save"
	"github.com/mkraus/polyquest/llm"
	"github.com/mkraus/polyquest/loader"
)

const testData = "../data"

func runScript(t *testing.T, saveDir, script string) (string, *engine.Engine) {
	t.Helper()
	w, loc, err := loader.Load(testData, "en")
	if err != nil {
		t.Fatalf("loading world: %v", err)
	}
	eng, err := engine.New(w, loc, testData)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	s := &Session{
		Engine: eng,
		Interp: llm.NoOp{},
		Saves:  save.NewManager(saveDir),
		In:     NewDirectReader(strings.NewReader(script)),
		Out:    &out,
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), eng
}

func TestQuitSavesSession(t *testing.T) {
	dir := t.TempDir()
	out, _ := runScript(t, dir, "take lantern\nquit\n")

	if !strings.Contains(out, "You take the lantern.") {
		t.Errorf("output missing take: %q", out)
	}
	if !strings.Contains(out, "Goodbye.") {
		t.Errorf("output missing farewell: %q", out)
	}

	d, err := save.NewManager(dir).Load()
	if err != nil || d == nil {
		t.Fatalf("save after quit: %v %v", d, err)
	}
	if d.Language != "en" {
		t.Errorf("saved language = %q", d.Language)
	}
	if d.Inventory == nil || len(*d.Inventory) != 2 {
		t.Errorf("saved inventory = %v", d.Inventory)
	}
}

func TestEndOfInputSavesSession(t *testing.T) {
	dir := t.TempDir()
	out, _ := runScript(t, dir, "look\n")

	if !strings.Contains(out, "Goodbye.") {
		t.Errorf("no farewell on end of input: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "save.yaml")); err != nil {
		t.Errorf("no save written on end of input: %v", err)
	}
}

func TestUnknownInputFallsBack(t *testing.T) {
	dir := t.TempDir()
	out, _ := runScript(t, dir, "dance wildly\nquit\n")

	if !strings.Contains(out, "I don't understand that.") {
		t.Errorf("no fallback message: %q", out)
	}
}

func TestEndingRemovesSave(t *testing.T) {
	dir := t.TempDir()
	script := strings.Join([]string{
		"take lantern",
		"use lantern",
		"go to forest path",
		"take key",
		"talk to hermit",
		"say h1",
		"go to ruins",
		"use key on chest",
	}, "\n") + "\n"

	out, eng := runScript(t, dir, script)
	if !eng.Finished {
		t.Fatal("game did not finish")
	}
	if !strings.Contains(out, "your journey ends here") {
		t.Errorf("ending not printed: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "save.yaml")); !os.IsNotExist(err) {
		t.Error("save survived the ending")
	}
}

func TestDirectReaderSkipsBlanks(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\n\n  \nlook\n"))
	line, err := r.ReadCommand()
	if err != nil || line != "look" {
		t.Errorf("ReadCommand = %q %v, want look", line, err)
	}
}

type suggestingInterp struct{ reply string }

func (s *suggestingInterp) SetContext(llm.Context)                    {}
func (s *suggestingInterp) Interpret(context.Context, string) string { return s.reply }

func TestInterpreterSuggestion(t *testing.T) {
	dir := t.TempDir()
	w, loc, err := loader.Load(testData, "en")
	if err != nil {
		t.Fatalf("loading world: %v", err)
	}
	eng, err := engine.New(w, loc, testData)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	s := &Session{
		Engine: eng,
		Interp: &suggestingInterp{reply: llm.SuggestPrefix + "take lantern"},
		Saves:  save.NewManager(dir),
		In:     NewDirectReader(strings.NewReader("grab me that light thing\nquit\n")),
		Out:    &out,
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Did you mean: take lantern?") {
		t.Errorf("suggestion missing: %q", out.String())
	}
}

func TestInterpreterConfidentMapping(t *testing.T) {
	dir := t.TempDir()
	w, loc, err := loader.Load(testData, "en")
	if err != nil {
		t.Fatalf("loading world: %v", err)
	}
	eng, err := engine.New(w, loc, testData)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	s := &Session{
		Engine: eng,
		Interp: &suggestingInterp{reply: "take lantern"},
		Saves:  save.NewManager(dir),
		In:     NewDirectReader(strings.NewReader("grab me that light thing\nquit\n")),
		Out:    &out,
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "You take the lantern.") {
		t.Errorf("mapped command not executed: %q", out.String())
	}
	if !eng.World.InInventory("lantern") {
		t.Error("mapped command had no effect")
	}
}
