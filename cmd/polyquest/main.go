// Polyquest is a deterministic, localizable engine for narrative-branching
// text adventures.
// Usage: polyquest [--lang <code>] [--llm gemini] [--tui] <data_directory>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/mkraus/polyquest/cli"
	"github.com/mkraus/polyquest/engine"
	"github.com/mkraus/polyquest/engine/save"
	"github.com/mkraus/polyquest/llm"
	"github.com/mkraus/polyquest/loader"
	"github.com/mkraus/polyquest/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	lang := pflag.String("lang", "en", "language to play in")
	forceLang := pflag.Bool("force-language", false, "ignore the language stored in the save")
	debug := pflag.Bool("debug", false, "print world mutations to stderr")
	llmKind := pflag.String("llm", "off", "natural-language fallback: off or gemini")
	useTUI := pflag.Bool("tui", false, "run the full-screen terminal frontend")
	showVersion := pflag.Bool("version", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("polyquest %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: polyquest [flags] <data_directory>")
		pflag.PrintDefaults()
		os.Exit(1)
	}
	dataDir := pflag.Arg(0)

	if err := run(dataDir, *lang, *forceLang, *debug, *llmKind, *useTUI); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dataDir, lang string, forceLang, debug bool, llmKind string, useTUI bool) error {
	saves := save.NewManager(dataDir)
	saved, err := saves.Load()
	if err != nil {
		return err
	}
	if saved != nil && saved.Language != "" && !forceLang {
		lang = saved.Language
	}

	w, loc, err := loader.Load(dataDir, lang)
	if err != nil {
		return err
	}
	if debug {
		w.Debug = func(line string) { fmt.Fprintln(os.Stderr, "[debug] "+line) }
	}
	save.Apply(w, saved)

	eng, err := engine.New(w, loc, dataDir)
	if err != nil {
		return err
	}
	if saved != nil {
		eng.RestoreLog(saved.Log)
	}

	interp, err := newInterpreter(llmKind, loc)
	if err != nil {
		return err
	}
	if closer, ok := interp.(interface{ Close() }); ok {
		defer closer.Close()
	}

	if useTUI {
		return tui.Run(eng, interp, saves)
	}

	in, err := newReader()
	if err != nil {
		return err
	}
	defer in.Close()

	session := &cli.Session{
		Engine: eng,
		Interp: interp,
		Saves:  saves,
		In:     in,
		Out:    os.Stdout,
	}
	return session.Run(context.Background())
}

func newInterpreter(kind string, loc *loader.Locale) (llm.Interpreter, error) {
	switch kind {
	case "off":
		return llm.NoOp{}, nil
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("--llm gemini requires GEMINI_API_KEY")
		}
		return llm.NewGemini(context.Background(), apiKey, loc.LLM)
	default:
		return nil, fmt.Errorf("unknown --llm mode %q", kind)
	}
}

func newReader() (cli.Reader, error) {
	stat, err := os.Stdin.Stat()
	if err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		return cli.NewDirectReader(os.Stdin), nil
	}
	return cli.NewInteractiveReader()
}
