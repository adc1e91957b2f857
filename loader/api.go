package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua constructors and helpers used by base
// world files as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerClauseHelpers(L)
	registerInstructionHelpers(L)

	// Symbolic place tags.
	L.SetGlobal("INVENTORY", lua.LString("INVENTORY"))
	L.SetGlobal("CURRENT_ROOM", lua.LString("CURRENT_ROOM"))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", start_time = 480, inventory = {...} }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Room "id" { ... } is curried: Room("id") returns a function that
	// takes the definition table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.rooms = append(coll.rooms, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Item "id" { ... }
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.items = append(coll.items, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// NPC "id" { ... }
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.npcs = append(coll.npcs, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Action "id" { ... }; declaration order is the dispatch order.
	L.SetGlobal("Action", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.actions = append(coll.actions, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Ending "id" { ... }; declaration order is the poll order.
	L.SetGlobal("Ending", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.endings = append(coll.endings, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))
}

func clauseTable(L *lua.LState, kind string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("clause", lua.LString(kind))
	return tbl
}

func registerClauseHelpers(L *lua.LState) {
	// IsLocation("room_id")
	L.SetGlobal("IsLocation", L.NewFunction(func(L *lua.LState) int {
		tbl := clauseTable(L, "location")
		tbl.RawSetString("room", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// ItemState("item", "state")
	L.SetGlobal("ItemState", L.NewFunction(func(L *lua.LState) int {
		tbl := clauseTable(L, "item")
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("state", lua.LString(L.CheckString(2)))
		L.Push(tbl)
		return 1
	}))

	// ItemAt("item", INVENTORY | CURRENT_ROOM | "room_id")
	L.SetGlobal("ItemAt", L.NewFunction(func(L *lua.LState) int {
		tbl := clauseTable(L, "item")
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("at", lua.LString(L.CheckString(2)))
		L.Push(tbl)
		return 1
	}))

	// ItemStateAt("item", "state", place)
	L.SetGlobal("ItemStateAt", L.NewFunction(func(L *lua.LState) int {
		tbl := clauseTable(L, "item")
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("state", lua.LString(L.CheckString(2)))
		tbl.RawSetString("at", lua.LString(L.CheckString(3)))
		L.Push(tbl)
		return 1
	}))

	// NPCState("npc", "state")
	L.SetGlobal("NPCState", L.NewFunction(func(L *lua.LState) int {
		tbl := clauseTable(L, "npc")
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		tbl.RawSetString("state", lua.LString(L.CheckString(2)))
		L.Push(tbl)
		return 1
	}))

	// Met("npc") and Helped("npc") are shorthands for NPCState.
	L.SetGlobal("Met", L.NewFunction(func(L *lua.LState) int {
		tbl := clauseTable(L, "npc")
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		tbl.RawSetString("state", lua.LString("met"))
		L.Push(tbl)
		return 1
	}))
	L.SetGlobal("Helped", L.NewFunction(func(L *lua.LState) int {
		tbl := clauseTable(L, "npc")
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		tbl.RawSetString("state", lua.LString("helped"))
		L.Push(tbl)
		return 1
	}))
}

func instrTable(L *lua.LState, kind string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("instr", lua.LString(kind))
	return tbl
}

func registerInstructionHelpers(L *lua.LState) {
	// SetItemState("item", "state")
	L.SetGlobal("SetItemState", L.NewFunction(func(L *lua.LState) int {
		tbl := instrTable(L, "item")
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("state", lua.LString(L.CheckString(2)))
		L.Push(tbl)
		return 1
	}))

	// MoveItem("item", place)
	L.SetGlobal("MoveItem", L.NewFunction(func(L *lua.LState) int {
		tbl := instrTable(L, "item")
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("to", lua.LString(L.CheckString(2)))
		L.Push(tbl)
		return 1
	}))

	// SetNPCState("npc", "state")
	L.SetGlobal("SetNPCState", L.NewFunction(func(L *lua.LState) int {
		tbl := instrTable(L, "npc")
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		tbl.RawSetString("state", lua.LString(L.CheckString(2)))
		L.Push(tbl)
		return 1
	}))

	// MoveNPC("npc", "room_id")
	L.SetGlobal("MoveNPC", L.NewFunction(func(L *lua.LState) int {
		tbl := instrTable(L, "npc")
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		tbl.RawSetString("to", lua.LString(L.CheckString(2)))
		L.Push(tbl)
		return 1
	}))

	// AddExit("from", "to") or AddExit("from", "to", { pre = {...}, duration = n })
	L.SetGlobal("AddExit", L.NewFunction(func(L *lua.LState) int {
		tbl := instrTable(L, "exit")
		tbl.RawSetString("from", lua.LString(L.CheckString(1)))
		tbl.RawSetString("to", lua.LString(L.CheckString(2)))
		if opts := L.Get(3); opts != lua.LNil {
			tbl.RawSetString("opts", L.CheckTable(3))
		}
		L.Push(tbl)
		return 1
	}))
}
