package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mkraus/polyquest/types"
	"gopkg.in/yaml.v3"
)

// Locale bundles everything language-dependent outside the world itself:
// UI messages, command phrase templates, command metadata, and the tuning
// data for argument stripping and the LLM fallback.
type Locale struct {
	Language     string
	Messages     map[string]string
	Phrases      map[string][]string
	Info         map[string]types.CommandInfo
	Articles     []string
	Contractions []string
	LLM          LLMConfig
}

// LLMConfig is the per-locale interpreter configuration. Prompt, Context,
// Guidance, IgnoreArticles and SecondObjectPreps are required; a locale
// shipping without them would silently degrade the fallback, so loading
// fails instead.
type LLMConfig struct {
	Prompt             string   `yaml:"prompt"`
	Context            string   `yaml:"context"`
	Guidance           string   `yaml:"guidance"`
	IgnoreArticles     []string `yaml:"ignore_articles"`
	IgnoreContractions []string `yaml:"ignore_contractions"`
	SecondObjectPreps  []string `yaml:"second_object_preps"`
}

func readYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// loadLocale reads the per-language YAML files under dataDir/<lang>/ plus
// the language-independent command metadata under dataDir/generic/.
func loadLocale(dataDir, lang string) (*Locale, error) {
	loc := &Locale{Language: lang}

	langDir := filepath.Join(dataDir, lang)

	if err := readYAML(filepath.Join(langDir, "messages."+lang+".yaml"), &loc.Messages); err != nil {
		return nil, fmt.Errorf("locale %s: %w", lang, err)
	}

	// Phrase values may be a single template or a list of them.
	var phrases map[string]phraseList
	if err := readYAML(filepath.Join(langDir, "commands."+lang+".yaml"), &phrases); err != nil {
		return nil, fmt.Errorf("locale %s: %w", lang, err)
	}
	loc.Phrases = map[string][]string{}
	for id, list := range phrases {
		loc.Phrases[id] = list
	}

	if err := readYAML(filepath.Join(dataDir, "generic", "commands.yaml"), &loc.Info); err != nil {
		return nil, fmt.Errorf("command metadata: %w", err)
	}
	for id := range loc.Phrases {
		if _, ok := loc.Info[id]; !ok {
			return nil, fmt.Errorf("locale %s: phrases for unknown command %q", lang, id)
		}
	}

	if err := readYAML(filepath.Join(langDir, "llm."+lang+".yaml"), &loc.LLM); err != nil {
		return nil, fmt.Errorf("locale %s: %w", lang, err)
	}
	if err := loc.LLM.check(lang); err != nil {
		return nil, err
	}
	loc.Articles = loc.LLM.IgnoreArticles
	loc.Contractions = loc.LLM.IgnoreContractions

	return loc, nil
}

func (c *LLMConfig) check(lang string) error {
	missing := func(field string) error {
		return fmt.Errorf("locale %s: llm.%s.yaml is missing required field %q", lang, lang, field)
	}
	switch {
	case c.Prompt == "":
		return missing("prompt")
	case c.Context == "":
		return missing("context")
	case c.Guidance == "":
		return missing("guidance")
	case len(c.IgnoreArticles) == 0:
		return missing("ignore_articles")
	case len(c.SecondObjectPreps) == 0:
		return missing("second_object_preps")
	}
	return nil
}

// phraseList accepts either a scalar template or a list of templates.
type phraseList []string

func (p *phraseList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*p = []string{s}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// Languages lists the locales available under dataDir: every subdirectory
// except generic, sorted.
func Languages(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory %s: %w", dataDir, err)
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "generic" {
			langs = append(langs, e.Name())
		}
	}
	sort.Strings(langs)
	return langs, nil
}
