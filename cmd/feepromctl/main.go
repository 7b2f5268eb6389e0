// feepromctl is an interactive monitor for a feeprom.Store backed by a
// host file, standing in for the on-device debug console the Store's
// C ancestor is normally driven from over a serial link.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/nvmsim/feeprom"
	"github.com/nvmsim/feeprom/backend"
)

func main() {
	var (
		imagePath = flag.String("image", "feeprom.img", "backing file for the emulated flash region")
		pageSize  = flag.Uint("page-size", 4096, "flash erase page size, in bytes")
		pageCount = flag.Uint("pages", 4, "number of pages to allocate for snapshot + log")
		density   = flag.Uint("density", 0, "logical EEPROM size in bytes (0 = half the allocated pages)")
	)
	flag.Parse()

	cfg := feeprom.Config{
		PageSize:     uint32(*pageSize),
		PageCount:    uint32(*pageCount),
		DensityBytes: uint32(*density),
	}
	layout, err := feeprom.NewLayout(cfg, feeprom.NopTracer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feepromctl: %v\n", err)
		os.Exit(1)
	}

	prog, err := backend.OpenFile(*imagePath, layout.PageCount*layout.PageSize, layout.PageSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feepromctl: %v\n", err)
		os.Exit(1)
	}
	defer prog.Close()

	store := feeprom.New(layout, prog, feeprom.WithTracer(stderrTracer{}))
	if _, err := store.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "feepromctl: init: %v\n", err)
		os.Exit(1)
	}

	runREPL(store)
}

type stderrTracer struct{}

func (stderrTracer) Tracef(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "feepromctl: "+format+"\n", args...)
}

// monitorCommand is a parsed command line: a name and its raw arguments.
type monitorCommand struct {
	name string
	args []string
}

func parseCommand(input string) monitorCommand {
	input = strings.TrimSpace(input)
	if input == "" {
		return monitorCommand{}
	}
	parts := strings.Fields(input)
	return monitorCommand{name: strings.ToLower(parts[0]), args: parts[1:]}
}

// parseAddress accepts $hex, 0xhex, bare hex, or #decimal, matching the
// monitor address syntax this tool's interactive style is grounded on.
func parseAddress(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		v, err := strconv.ParseUint(s[1:], 10, 32)
		return uint32(v), err == nil
	case strings.HasPrefix(s, "$"):
		v, err := strconv.ParseUint(s[1:], 16, 32)
		return uint32(v), err == nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		return uint32(v), err == nil
	default:
		v, err := strconv.ParseUint(s, 16, 32)
		return uint32(v), err == nil
	}
}

func runREPL(store *feeprom.Store) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("feepromctl — type 'help' for commands, 'quit' to exit")
	}

	var line strings.Builder
	buf := make([]byte, 1)
	prompt := func() {
		if interactive {
			fmt.Print("> ")
		}
	}

	prompt()
	for {
		n, err := os.Stdin.Read(buf)
		if n == 0 || err != nil {
			fmt.Println()
			return
		}
		if buf[0] == '\n' {
			cmd := parseCommand(line.String())
			line.Reset()
			if cmd.name == "" {
				prompt()
				continue
			}
			if execute(store, cmd) {
				return
			}
			prompt()
			continue
		}
		line.WriteByte(buf[0])
	}
}

// execute dispatches a parsed command. It reports whether the REPL
// should exit.
func execute(store *feeprom.Store, cmd monitorCommand) bool {
	switch cmd.name {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		printHelp()
	case "read", "r":
		cmdRead(store, cmd.args)
	case "write", "w":
		cmdWrite(store, cmd.args)
	case "dump", "d":
		if err := store.DumpHex(os.Stdout); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	case "erase":
		if err := store.Erase(); err != nil {
			fmt.Printf("error: %v\n", err)
		} else {
			fmt.Println("erased")
		}
	default:
		fmt.Printf("unknown command %q — try 'help'\n", cmd.name)
	}
	return false
}

func printHelp() {
	fmt.Print(`commands:
  read  <addr> [w|d]        read a byte, word, or dword
  write <addr> <value> [w]  write a byte or word
  dump                      hex dump the logical contents
  erase                     wipe the store and reinitialize
  quit                      exit
`)
}

func cmdRead(store *feeprom.Store, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: read <addr> [w|d]")
		return
	}
	addr, ok := parseAddress(args[0])
	if !ok {
		fmt.Println("bad address")
		return
	}
	width := "b"
	if len(args) > 1 {
		width = args[1]
	}
	switch width {
	case "w":
		report(store.ReadWord(addr))
	case "d":
		report(store.ReadDWord(addr))
	default:
		report(store.ReadByte(addr))
	}
}

func cmdWrite(store *feeprom.Store, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: write <addr> <value> [w]")
		return
	}
	addr, ok := parseAddress(args[0])
	if !ok {
		fmt.Println("bad address")
		return
	}
	val, ok := parseAddress(args[1])
	if !ok {
		fmt.Println("bad value")
		return
	}
	var err error
	if len(args) > 2 && args[2] == "w" {
		err = store.WriteWord(addr, uint16(val))
	} else {
		err = store.WriteByte(addr, uint8(val))
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("ok")
}

func report[T uint8 | uint16 | uint32](v T) {
	fmt.Printf("0x%X\n", v)
}
