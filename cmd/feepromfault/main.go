// feepromfault runs a Lua fault-injection script against an in-memory
// feeprom.Store, exposing the store and its Mock backend as Lua globals
// so a scenario can script a sequence of writes and erases interleaved
// with induced flash faults, then assert on the resulting logical
// contents.
package main

import (
	"flag"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/nvmsim/feeprom"
	"github.com/nvmsim/feeprom/backend"
)

func main() {
	var (
		script    = flag.String("script", "", "path to a Lua fault-injection scenario")
		pageSize  = flag.Uint("page-size", 4096, "flash erase page size, in bytes")
		pageCount = flag.Uint("pages", 4, "number of pages to allocate for snapshot + log")
		density   = flag.Uint("density", 0, "logical EEPROM size in bytes (0 = half the allocated pages)")
	)
	flag.Parse()
	if *script == "" {
		fmt.Fprintln(os.Stderr, "feepromfault: -script is required")
		os.Exit(2)
	}

	cfg := feeprom.Config{
		PageSize:     uint32(*pageSize),
		PageCount:    uint32(*pageCount),
		DensityBytes: uint32(*density),
	}
	layout, err := feeprom.NewLayout(cfg, feeprom.NopTracer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feepromfault: %v\n", err)
		os.Exit(1)
	}

	mock := backend.NewMock(layout.PageCount*layout.PageSize, layout.PageSize)
	store := feeprom.New(layout, mock)
	if _, err := store.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "feepromfault: init: %v\n", err)
		os.Exit(1)
	}

	L := lua.NewState()
	defer L.Close()
	registerAPI(L, store, mock)

	if err := L.DoFile(*script); err != nil {
		fmt.Fprintf(os.Stderr, "feepromfault: script error: %v\n", err)
		os.Exit(1)
	}
}

// registerAPI exposes the store and mock backend as a "feeprom" Lua
// table, each entry a thin wrapper that turns a Go error into a Lua
// (nil-on-success, message-on-failure) single return value.
func registerAPI(L *lua.LState, store *feeprom.Store, mock *backend.Mock) {
	tbl := L.NewTable()

	L.SetField(tbl, "write_byte", L.NewFunction(func(L *lua.LState) int {
		addr := uint32(L.CheckNumber(1))
		value := uint8(L.CheckNumber(2))
		return pushErr(L, store.WriteByte(addr, value))
	}))

	L.SetField(tbl, "write_word", L.NewFunction(func(L *lua.LState) int {
		addr := uint32(L.CheckNumber(1))
		value := uint16(L.CheckNumber(2))
		return pushErr(L, store.WriteWord(addr, value))
	}))

	L.SetField(tbl, "read_byte", L.NewFunction(func(L *lua.LState) int {
		addr := uint32(L.CheckNumber(1))
		L.Push(lua.LNumber(store.ReadByte(addr)))
		return 1
	}))

	L.SetField(tbl, "erase", L.NewFunction(func(L *lua.LState) int {
		return pushErr(L, store.Erase())
	}))

	L.SetField(tbl, "reinit", L.NewFunction(func(L *lua.LState) int {
		_, err := store.Init()
		return pushErr(L, err)
	}))

	L.SetField(tbl, "fail_after", L.NewFunction(func(L *lua.LState) int {
		mock.FailAfter = int(L.CheckNumber(1))
		return 0
	}))

	L.SetField(tbl, "fail_never", L.NewFunction(func(L *lua.LState) int {
		mock.FailAfter = -1
		return 0
	}))

	L.SetField(tbl, "erase_count", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(mock.ErasePages))
		return 1
	}))

	L.SetGlobal("feeprom", tbl)
}

func pushErr(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LString(err.Error()))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}
