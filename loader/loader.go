package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mkraus/polyquest/engine/world"
	lua "github.com/yuin/gopher-lua"
)

// Load builds the world for one language: it executes the Lua structure
// files under dataDir/generic/, merges the language's YAML overlay on top,
// validates every cross-reference, and loads the locale bundle. The
// returned world is initialized and ready for play.
func Load(dataDir, lang string) (*world.World, *Locale, error) {
	w, err := loadBase(filepath.Join(dataDir, "generic"))
	if err != nil {
		return nil, nil, err
	}

	o, err := loadOverlay(filepath.Join(dataDir, lang, "world."+lang+".yaml"))
	if err != nil {
		return nil, nil, fmt.Errorf("locale %s: %w", lang, err)
	}
	if err := applyOverlay(w, o); err != nil {
		return nil, nil, fmt.Errorf("locale %s: %w", lang, err)
	}

	if err := validate(w); err != nil {
		return nil, nil, err
	}

	loc, err := loadLocale(dataDir, lang)
	if err != nil {
		return nil, nil, err
	}

	w.Init()
	return w, loc, nil
}

// loadBase executes every .lua file in dir in a sandboxed VM and compiles
// the collected declarations. world.lua runs first, the rest alphabetical.
func loadBase(dir string) (*world.World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading structure directory %s: %w", dir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Slice(luaFiles, func(i, j int) bool {
		if luaFiles[i] == "world.lua" {
			return true
		}
		if luaFiles[j] == "world.lua" {
			return false
		}
		return luaFiles[i] < luaFiles[j]
	})

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	w, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling world structure: %w", err)
	}
	return w, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that could touch the host or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
