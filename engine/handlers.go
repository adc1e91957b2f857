package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mkraus/polyquest/engine/dialog"
	"github.com/mkraus/polyquest/engine/resolve"
	"github.com/mkraus/polyquest/engine/rules"
	"github.com/mkraus/polyquest/loader"
	"github.com/mkraus/polyquest/types"
)

// buildRegistry wires every canonical command id to its handler. A handler
// returning false means "this input is not for me after all": Execute then
// treats the line as unhandled, with no output, no log entry and no time.
func buildRegistry() map[string]command {
	return map[string]command{
		"look":      {run: cmdLook},
		"go":        {validate: valGo, run: cmdGo},
		"take":      {validate: valKnownItem, run: cmdTake},
		"drop":      {validate: valKnownItem, run: cmdDrop},
		"examine":   {validate: valKnownThing, run: cmdExamine},
		"inventory": {run: cmdInventory},
		"use":       {validate: valUse, run: cmdUse},
		"show":      {validate: valShow, run: cmdShow},
		"talk":      {validate: valKnownNPC, run: cmdTalk},
		"say":       {validate: valSay, run: cmdSay},
		"destroy":   {validate: valKnownItem, run: cmdDestroy},
		"wear":      {validate: valKnownItem, run: cmdWear},
		"help":      {run: cmdHelp},
		"time":      {run: cmdTime},
		"show_log":  {run: cmdShowLog},
		"language":  {validate: needArg, run: cmdLanguage},
		"quit":      {run: cmdQuit},
	}
}

func needArg(e *Engine, args map[string]string) bool {
	return args["a"] != ""
}

func valGo(e *Engine, args map[string]string) bool {
	arg := args["a"]
	if arg == "" {
		return false
	}
	if _, ok := e.Resolver.Direction(e.World, arg); ok {
		return true
	}
	_, ok := e.Resolver.AnyRoom(e.World, arg)
	return ok
}

func valKnownItem(e *Engine, args map[string]string) bool {
	_, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeAny)
	return ok
}

func valKnownNPC(e *Engine, args map[string]string) bool {
	_, ok := e.Resolver.AnyNPC(e.World, args["a"])
	return ok
}

func valKnownThing(e *Engine, args map[string]string) bool {
	return valKnownItem(e, args) || valKnownNPC(e, args)
}

func valUse(e *Engine, args map[string]string) bool {
	if !valKnownItem(e, args) {
		return false
	}
	if b := args["b"]; b != "" {
		return valKnownThing(e, map[string]string{"a": b})
	}
	return true
}

func valShow(e *Engine, args map[string]string) bool {
	if !valKnownItem(e, args) || args["b"] == "" {
		return false
	}
	return valKnownNPC(e, map[string]string{"a": args["b"]})
}

func valSay(e *Engine, args map[string]string) bool {
	return e.dialog != nil && e.dialog.Offers(args["a"])
}

func cmdLook(e *Engine, args map[string]string) bool {
	e.say(e.enterRoom()...)
	return true
}

func cmdGo(e *Engine, args map[string]string) bool {
	arg := args["a"]
	if arg == "" {
		return false
	}
	target, ok := e.Resolver.Direction(e.World, arg)
	if !ok {
		// A known place with no exit here still answers in-game; a name
		// that means nothing goes to the fallback boundary.
		if _, known := e.Resolver.AnyRoom(e.World, arg); !known {
			return false
		}
		e.say(e.msg("cannot_move"))
		return true
	}
	if !rules.CanMove(e.World, target) {
		e.say(e.msg("cannot_move"))
		return true
	}
	e.lastDuration = e.World.ExitDuration(target)
	e.World.Move(target)
	e.dialog = nil
	e.say(e.enterRoom()...)
	return true
}

func cmdTake(e *Engine, args map[string]string) bool {
	if id, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeRoom); ok {
		e.World.TakeItem(id)
		e.say(e.msg("taken", "item", e.World.ItemName(id)))
		return true
	}
	if _, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeAny); ok {
		e.say(e.msg("item_not_present"))
		return true
	}
	return false
}

func cmdDrop(e *Engine, args map[string]string) bool {
	if id, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeInventory); ok {
		e.World.DropItem(id)
		e.say(e.msg("dropped", "item", e.World.ItemName(id)))
		return true
	}
	if _, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeAny); ok {
		e.say(e.msg("not_carrying"))
		return true
	}
	return false
}

func cmdExamine(e *Engine, args map[string]string) bool {
	if id, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeRoomThenInventory); ok {
		e.say(e.World.ItemDescription(id))
		// A closer look can trigger rules; most items have none, so no
		// generic failure line here.
		e.tryAction("examine", id, "")
		return true
	}
	if id, ok := e.Resolver.NPC(e.World, args["a"]); ok {
		if text := e.World.NPCStateText(id).Examine; text != "" {
			e.say(text)
		}
		return true
	}
	if _, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeAny); ok {
		e.say(e.msg("item_not_present"))
		return true
	}
	if _, ok := e.Resolver.AnyNPC(e.World, args["a"]); ok {
		e.say(e.msg("no_npc"))
		return true
	}
	return false
}

func cmdInventory(e *Engine, args map[string]string) bool {
	e.say(e.World.DescribeInventory(e.Locale.Messages))
	return true
}

func cmdUse(e *Engine, args map[string]string) bool {
	itemID, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeRoomThenInventory)
	if !ok {
		if _, known := e.Resolver.Item(e.World, args["a"], resolve.ScopeAny); known {
			e.say(e.msg("item_not_present"))
			return true
		}
		return false
	}

	targetID := ""
	if b := args["b"]; b != "" {
		if id, ok := e.Resolver.Item(e.World, b, resolve.ScopeRoomThenInventory); ok {
			targetID = id
		} else if id, ok := e.Resolver.NPC(e.World, b); ok {
			targetID = id
		} else if _, known := e.Resolver.Item(e.World, b, resolve.ScopeAny); known {
			e.say(e.msg("item_not_present"))
			return true
		} else if _, known := e.Resolver.AnyNPC(e.World, b); known {
			e.say(e.msg("no_npc"))
			return true
		} else {
			return false
		}
	}

	e.dispatchAction("use", itemID, targetID)
	return true
}

func cmdShow(e *Engine, args map[string]string) bool {
	itemID, ok := e.Resolver.Item(e.World, args["a"], resolve.ScopeInventory)
	if !ok {
		if _, known := e.Resolver.Item(e.World, args["a"], resolve.ScopeAny); known {
			e.say(e.msg("not_carrying"))
			return true
		}
		return false
	}
	if args["b"] == "" {
		return false
	}
	npcID, ok := e.Resolver.NPC(e.World, args["b"])
	if !ok {
		if _, known := e.Resolver.AnyNPC(e.World, args["b"]); known {
			e.say(e.msg("no_npc"))
			return true
		}
		return false
	}

	e.dispatchAction("show", itemID, npcID)
	return true
}

// dispatchAction runs the rule system for a trigger and says the outcome:
// the winning rule's success text, a field-matching rule's failure text,
// or the generic failure message.
func (e *Engine) dispatchAction(trigger, itemID, targetID string) {
	if !e.tryAction(trigger, itemID, targetID) {
		e.say(e.msg("use_failure"))
	}
}

// tryAction dispatches a trigger and says the matched rule's success or
// failure text. It reports false when no rule's fields matched at all.
func (e *Engine) tryAction(trigger, itemID, targetID string) bool {
	res, ok := rules.Dispatch(e.World, trigger, itemID, targetID)
	switch {
	case ok:
		if res.Message != "" {
			e.say(res.Message)
		}
		e.lastDuration = res.Duration
		return true
	case res.Message != "":
		e.say(res.Message)
		return true
	default:
		return false
	}
}

func cmdTalk(e *Engine, args map[string]string) bool {
	npcID, ok := e.Resolver.NPC(e.World, args["a"])
	if !ok {
		if _, known := e.Resolver.AnyNPC(e.World, args["a"]); known {
			e.say(e.msg("no_npc"))
			return true
		}
		return false
	}

	if s, lines, done, hasTree := dialog.Start(e.World, npcID); hasTree {
		e.say(lines...)
		if done {
			e.dialog = nil
		} else {
			e.dialog = s
		}
		return true
	}

	if text := e.World.NPCStateText(npcID).Talk; text != "" {
		e.say(text)
	} else {
		e.say(e.msg("no_npc"))
	}
	e.World.HelpNPC(npcID)
	return true
}

func cmdSay(e *Engine, args map[string]string) bool {
	if e.dialog == nil || args["a"] == "" {
		return false
	}
	lines, done, ok := e.dialog.Choose(e.World, args["a"])
	if !ok {
		e.say(e.msg("invalid_choice"))
		return true
	}
	e.say(lines...)
	if done {
		e.dialog = nil
	}
	return true
}

func cmdDestroy(e *Engine, args map[string]string) bool {
	return e.consumeItem(args["a"], types.StateDestroyed, "destroyed")
}

func cmdWear(e *Engine, args map[string]string) bool {
	return e.consumeItem(args["a"], types.StateWorn, "worn")
}

// consumeItem moves a carried item into a terminal state and out of the
// inventory. Items that do not declare the state cannot be consumed.
func (e *Engine) consumeItem(arg string, state types.StateTag, msgKey string) bool {
	id, ok := e.Resolver.Item(e.World, arg, resolve.ScopeInventory)
	if !ok {
		if _, known := e.Resolver.Item(e.World, arg, resolve.ScopeAny); known {
			e.say(e.msg("not_carrying"))
			return true
		}
		return false
	}
	name := e.World.ItemName(id)
	if !e.World.SetItemState(id, state) {
		e.say(e.msg("use_failure"))
		return true
	}
	e.World.RemoveItem(id)
	e.say(e.msg(msgKey, "item", name))
	return true
}

func cmdHelp(e *Engine, args map[string]string) bool {
	byCategory := map[string][]string{}
	for id, info := range e.Locale.Info {
		byCategory[info.Category] = append(byCategory[info.Category], id)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		e.say(cat)
		ids := byCategory[cat]
		sort.Strings(ids)
		for _, id := range ids {
			e.say("  " + e.usage(id))
		}
	}
	return true
}

// usage returns the preferred phrasing of a command in the active locale:
// its first phrase template, or the canonical id when the locale has none.
func (e *Engine) usage(id string) string {
	if phrases := e.Locale.Phrases[id]; len(phrases) > 0 {
		return phrases[0]
	}
	return id
}

func cmdTime(e *Engine, args map[string]string) bool {
	e.say(e.msg("time", "time", e.World.FormatClock()))
	return true
}

func cmdShowLog(e *Engine, args map[string]string) bool {
	entries := e.Log
	if arg := args["a"]; arg != "" {
		// Zero means everything.
		if n, err := strconv.Atoi(arg); err == nil && n > 0 && n < len(entries) {
			entries = entries[len(entries)-n:]
		}
	}
	for _, entry := range entries {
		e.say("|> " + entry.Command)
		for _, line := range entry.Output {
			e.say("| " + line)
		}
	}
	return true
}

func cmdLanguage(e *Engine, args map[string]string) bool {
	lang := strings.ToLower(strings.TrimSpace(args["a"]))
	if lang == "" {
		return false
	}
	if lang == e.Locale.Language {
		e.say(e.msg("language_set", "language", lang))
		return true
	}
	langs, err := loader.Languages(e.dataDir)
	if err != nil || !contains(langs, lang) {
		e.say(e.msg("language_unknown", "language", lang))
		return true
	}
	if err := e.SwitchLanguage(lang); err != nil {
		e.say(e.msg("language_unknown", "language", lang))
		return true
	}
	e.say(e.msg("language_set", "language", lang))
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cmdQuit(e *Engine, args map[string]string) bool {
	e.say(e.msg("farewell"))
	e.Quit = true
	return true
}
