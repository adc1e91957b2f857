// Package loader builds the game world from Lua structure files and YAML
// locale overlays. The Lua VM is discarded after loading.
package loader

import (
	"fmt"

	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds one declared definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// collector accumulates Lua definitions during file execution. Actions and
// endings keep declaration order; it is semantically significant.
type collector struct {
	game    *lua.LTable
	rooms   []rawDef
	items   []rawDef
	npcs    []rawDef
	actions []rawDef
	endings []rawDef
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList converts a Lua array of strings.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compileClauses converts a Lua array of clause helper tables.
func compileClauses(tbl *lua.LTable) ([]types.Clause, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.Clause
	for i := 1; i <= tbl.MaxN(); i++ {
		ct, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("clause %d: not a clause table", i)
		}
		c, err := compileClause(ct)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func compileClause(tbl *lua.LTable) (types.Clause, error) {
	switch kind := getString(tbl, "clause"); kind {
	case "location":
		return types.Clause{Kind: types.ClauseLocation, Room: getString(tbl, "room")}, nil
	case "item":
		return types.Clause{
			Kind:      types.ClauseItem,
			Item:      getString(tbl, "item"),
			ItemState: types.StateTag(getString(tbl, "state")),
			ItemAt:    types.Place(getString(tbl, "at")),
		}, nil
	case "npc":
		return types.Clause{
			Kind:     types.ClauseNPC,
			NPC:      getString(tbl, "npc"),
			NPCState: types.StateTag(getString(tbl, "state")),
		}, nil
	default:
		return types.Clause{}, fmt.Errorf("unknown clause kind %q", kind)
	}
}

// compileEffect converts a Lua array of instruction helper tables.
func compileEffect(tbl *lua.LTable) ([]types.Instruction, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.Instruction
	for i := 1; i <= tbl.MaxN(); i++ {
		it, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("instruction %d: not an instruction table", i)
		}
		in, err := compileInstruction(it)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func compileInstruction(tbl *lua.LTable) (types.Instruction, error) {
	switch kind := getString(tbl, "instr"); kind {
	case "item":
		return types.Instruction{
			Kind:     types.InstrItem,
			Item:     getString(tbl, "item"),
			SetState: types.StateTag(getString(tbl, "state")),
			MoveTo:   types.Place(getString(tbl, "to")),
		}, nil
	case "npc":
		return types.Instruction{
			Kind:     types.InstrNPC,
			NPC:      getString(tbl, "npc"),
			SetState: types.StateTag(getString(tbl, "state")),
			MoveTo:   types.Place(getString(tbl, "to")),
		}, nil
	case "exit":
		in := types.Instruction{
			Kind:     types.InstrExit,
			ExitFrom: getString(tbl, "from"),
			ExitTo:   getString(tbl, "to"),
		}
		if opts := getTable(tbl, "opts"); opts != nil {
			pre, err := compileClauses(getTable(opts, "pre"))
			if err != nil {
				return types.Instruction{}, err
			}
			in.ExitPre = pre
			in.ExitDuration = getInt(opts, "duration")
		}
		return in, nil
	default:
		return types.Instruction{}, fmt.Errorf("unknown instruction kind %q", kind)
	}
}

// compile converts the collected Lua definitions into a structural world.
// Display text is absent here; the locale overlay fills it in afterwards.
func compile(coll *collector) (*world.World, error) {
	w := &world.World{
		Rooms: map[string]*types.Room{},
		Items: map[string]*types.Item{},
		NPCs:  map[string]*types.NPC{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game declaration")
	}
	w.StartRoom = getString(coll.game, "start")
	w.StartTime = getInt(coll.game, "start_time")
	w.StartInventory = stringList(getTable(coll.game, "inventory"))

	for _, r := range coll.rooms {
		room, err := compileRoom(r.table)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", r.id, err)
		}
		if _, dup := w.Rooms[r.id]; dup {
			return nil, fmt.Errorf("room %s: declared twice", r.id)
		}
		w.Rooms[r.id] = room
	}
	for _, it := range coll.items {
		item, err := compileItem(it.table)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", it.id, err)
		}
		if _, dup := w.Items[it.id]; dup {
			return nil, fmt.Errorf("item %s: declared twice", it.id)
		}
		w.Items[it.id] = item
	}
	for _, n := range coll.npcs {
		npc, err := compileNPC(n.table)
		if err != nil {
			return nil, fmt.Errorf("npc %s: %w", n.id, err)
		}
		if _, dup := w.NPCs[n.id]; dup {
			return nil, fmt.Errorf("npc %s: declared twice", n.id)
		}
		w.NPCs[n.id] = npc
	}
	for _, a := range coll.actions {
		action, err := compileAction(a.id, a.table)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", a.id, err)
		}
		w.Actions = append(w.Actions, action)
	}
	for _, e := range coll.endings {
		pre, err := compileClauses(getTable(e.table, "pre"))
		if err != nil {
			return nil, fmt.Errorf("ending %s: %w", e.id, err)
		}
		w.Endings = append(w.Endings, types.Ending{ID: e.id, Pre: pre})
	}

	return w, nil
}

func compileRoom(tbl *lua.LTable) (*types.Room, error) {
	room := &types.Room{
		Items:     stringList(getTable(tbl, "items")),
		Occupants: stringList(getTable(tbl, "occupants")),
		Exits:     map[string]types.Exit{},
	}
	if exits := getTable(tbl, "exits"); exits != nil {
		var err error
		exits.ForEach(func(k, v lua.LValue) {
			if err != nil {
				return
			}
			target, ok := k.(lua.LString)
			if !ok {
				err = fmt.Errorf("exit key %v: not a room id", k)
				return
			}
			exit := types.Exit{}
			if et, ok := v.(*lua.LTable); ok {
				pre, perr := compileClauses(getTable(et, "pre"))
				if perr != nil {
					err = fmt.Errorf("exit %s: %w", target, perr)
					return
				}
				exit.Pre = pre
				exit.Duration = getInt(et, "duration")
			}
			room.Exits[string(target)] = exit
		})
		if err != nil {
			return nil, err
		}
	}
	return room, nil
}

func compileItem(tbl *lua.LTable) (*types.Item, error) {
	item := &types.Item{
		State:  types.StateTag(getString(tbl, "state")),
		States: map[types.StateTag]types.ItemState{},
	}
	for _, s := range stringList(getTable(tbl, "states")) {
		item.States[types.StateTag(s)] = types.ItemState{}
	}
	if item.State != "" {
		if _, ok := item.States[item.State]; !ok {
			return nil, fmt.Errorf("initial state %q not declared", item.State)
		}
	}
	return item, nil
}

func compileNPC(tbl *lua.LTable) (*types.NPC, error) {
	npc := &types.NPC{
		State:  types.StateTag(getString(tbl, "state")),
		States: map[types.StateTag]types.NPCState{},
	}
	if npc.State == "" {
		npc.State = types.StateUnknown
	}
	states := stringList(getTable(tbl, "states"))
	if len(states) == 0 {
		states = []string{string(types.StateUnknown), string(types.StateMet), string(types.StateHelped)}
	}
	for _, s := range states {
		npc.States[types.StateTag(s)] = types.NPCState{}
	}

	if meet := getTable(tbl, "meet"); meet != nil {
		pre, err := compileClauses(getTable(meet, "pre"))
		if err != nil {
			return nil, fmt.Errorf("meet: %w", err)
		}
		npc.Meet = types.Meet{Room: getString(meet, "room"), Pre: pre}
	}

	if dialog := getTable(tbl, "dialog"); dialog != nil {
		npc.Dialog = map[string]types.DialogNode{}
		var err error
		dialog.ForEach(func(k, v lua.LValue) {
			if err != nil {
				return
			}
			nodeID, ok := k.(lua.LString)
			if !ok {
				err = fmt.Errorf("dialog node key %v: not a string", k)
				return
			}
			nt, ok := v.(*lua.LTable)
			if !ok {
				err = fmt.Errorf("dialog node %s: not a table", nodeID)
				return
			}
			node, nerr := compileDialogNode(nt)
			if nerr != nil {
				err = fmt.Errorf("dialog node %s: %w", nodeID, nerr)
				return
			}
			npc.Dialog[string(nodeID)] = node
		})
		if err != nil {
			return nil, err
		}
	}
	return npc, nil
}

func compileDialogNode(tbl *lua.LTable) (types.DialogNode, error) {
	effect, err := compileEffect(getTable(tbl, "effect"))
	if err != nil {
		return types.DialogNode{}, err
	}
	node := types.DialogNode{Effect: effect}
	if options := getTable(tbl, "options"); options != nil {
		for i := 1; i <= options.MaxN(); i++ {
			ot, ok := options.RawGetInt(i).(*lua.LTable)
			if !ok {
				return types.DialogNode{}, fmt.Errorf("option %d: not a table", i)
			}
			oeffect, err := compileEffect(getTable(ot, "effect"))
			if err != nil {
				return types.DialogNode{}, fmt.Errorf("option %d: %w", i, err)
			}
			node.Options = append(node.Options, types.DialogOption{
				Next:   getString(ot, "next"),
				Effect: oeffect,
			})
		}
	}
	return node, nil
}

func compileAction(id string, tbl *lua.LTable) (types.Action, error) {
	pre, err := compileClauses(getTable(tbl, "pre"))
	if err != nil {
		return types.Action{}, err
	}
	effect, err := compileEffect(getTable(tbl, "effect"))
	if err != nil {
		return types.Action{}, err
	}
	return types.Action{
		ID:         id,
		Trigger:    getString(tbl, "trigger"),
		Item:       getString(tbl, "item"),
		TargetItem: getString(tbl, "target_item"),
		TargetNPC:  getString(tbl, "target_npc"),
		Pre:        pre,
		Effect:     effect,
		Duration:   getInt(tbl, "duration"),
	}, nil
}
