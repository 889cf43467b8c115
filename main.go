package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/rv64imc/sim/config"
	"github.com/rv64imc/sim/debugger"
	"github.com/rv64imc/sim/parser"
	"github.com/rv64imc/sim/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		bigEndian   = flag.Bool("big-endian", false, "Load memory as big-endian instead of little-endian")
		dataBase    = flag.String("data-base", "", "Data segment base address (hex or decimal, default: 0x400000)")
		stackSize   = flag.Uint64("stack-size", vm.DefaultStackSize, "Stack size in bytes")
		spPos       = flag.String("sp-pos", "stack_top", "Initial stack pointer position: zero, stack_bottom, stack_top")

		dumpSymbols = flag.Bool("dump-symbols", false, "Dump symbol table and exit")
		symbolsFile = flag.String("symbols-file", "", "Symbol dump output file (default: stdout)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("rv64imc-sim %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	asmFile := flag.Arg(0)
	source, err := os.ReadFile(asmFile) // #nosec G304 -- user-specified assembly file path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", asmFile, err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Parsing assembly file: %s\n", asmFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *bigEndian {
		cfg.Memory.BigEndian = true
	}
	if *stackSize != vm.DefaultStackSize {
		cfg.Memory.StackSize = *stackSize
	}
	if *spPos != "stack_top" {
		cfg.Execution.SpPos = *spPos
	}
	if *dataBase != "" {
		var base uint64
		if _, err := fmt.Sscanf(*dataBase, "0x%x", &base); err != nil {
			if _, err := fmt.Sscanf(*dataBase, "%d", &base); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -data-base value: %s\n", *dataBase)
				os.Exit(1)
			}
		}
		cfg.Memory.DataBase = base
	}

	vmConfig := cfg.VMConfig()

	parseResult := parser.Parse(string(source))
	instructions, buildErr := parseResult.Resolve(vmConfig.Layout.DataBase)
	if buildErr != nil {
		fmt.Fprintf(os.Stderr, "Assembly error (line %d): %s\n", buildErr.Line, buildErr.Error())
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Resolved %d instruction slots, %d symbols\n", len(instructions), parseResult.Symbols.Len())
	}

	symbols := make(map[string]uint64, parseResult.Symbols.Len())
	for _, sym := range parseResult.Symbols.All() {
		symbols[sym.Name] = sym.Address + vmConfig.Layout.DataBase
	}

	if *dumpSymbols {
		if err := dumpSymbolTable(symbols, *symbolsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping symbols: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	machine := vm.NewVM(vmConfig, vm.DefaultHooks())
	if err := machine.LoadProgram(instructions); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		layout := machine.GetMemoryLayout()
		fmt.Printf("Data base: 0x%016X\n", layout.DataBase)
		fmt.Printf("Stack: 0x%016X, size %d bytes\n", layout.StackBase, layout.StackSize)
		fmt.Printf("Symbols: %d labels defined\n", len(symbols))
	}

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(machine, cfg.Debugger.HistorySize)
		dbg.LoadSymbols(symbols)
		dbg.LoadSourceMap(sourceMapFromInstructions(instructions, string(source), vmConfig.Layout.DataBase))

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("RV64IMC Simulator Debugger - Type 'help' for commands")
			fmt.Printf("Program loaded: %s\n", asmFile)
			fmt.Println()

			if err := debugger.RunCLI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	if *verboseMode {
		fmt.Println("\nStarting execution...")
		fmt.Println("----------------------------------------")
	}

	machine.RunUntilStop()

	switch machine.GetState() {
	case vm.Error:
		fmt.Fprintf(os.Stderr, "\nRuntime error at pc=0x%016X\n", machine.PC())
		os.Exit(1)
	case vm.Breakpoint:
		fmt.Printf("\nStopped at ebreak, pc=0x%016X\n", machine.PC())
	}

	if *verboseMode {
		fmt.Println("\n----------------------------------------")
		fmt.Println("Execution complete")
		fmt.Printf("Exit code: %d\n", machine.ExitCode())
	}

	os.Exit(int(machine.ExitCode()))
}

// sourceMapFromInstructions maps each instruction's address to its raw
// source line, split out of the original text by line number.
func sourceMapFromInstructions(instructions parser.ParsedInstVec, source string, dataBase uint64) map[uint64]string {
	lines := splitLines(source)
	sourceMap := make(map[uint64]string, len(instructions))

	addr := dataBase
	for _, entry := range instructions {
		if entry.Line != parser.PaddingLine && entry.Line >= 1 && entry.Line <= len(lines) {
			sourceMap[addr] = lines[entry.Line-1]
		}
		if entry.Line != parser.PaddingLine {
			addr += uint64(entry.Inst.Size())
		} else {
			addr += 2
		}
	}
	return sourceMap
}

func splitLines(source string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, source[start:i])
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, source[start:])
	}
	return lines
}

func printHelp() {
	fmt.Printf(`rv64imc-sim %s

Usage: rv64imc-sim [options] <assembly-file>

Options:
  -help              Show this help message
  -version           Show version information
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -verbose           Enable verbose output
  -big-endian        Load memory as big-endian instead of little-endian
  -data-base ADDR    Data segment base address (default: 0x400000)
  -stack-size N      Set stack size in bytes (default: %d)
  -sp-pos POS        Initial stack pointer: zero, stack_bottom, stack_top (default: stack_top)

Symbol Options:
  -dump-symbols      Dump symbol table and exit
  -symbols-file FILE Symbol dump output file (default: stdout)

Examples:
  # Run a program directly
  rv64imc-sim examples/hello.s

  # Run with debugger
  rv64imc-sim -debug examples/fibonacci.s

  # Run with TUI debugger
  rv64imc-sim -tui examples/bubble_sort.s

  # Run with custom memory layout
  rv64imc-sim -data-base 0x10000 -stack-size 65536 program.s

  # Dump symbol table
  rv64imc-sim -dump-symbols program.s
  rv64imc-sim -dump-symbols -symbols-file symbols.txt program.s

Debugger Commands (when in -debug mode):
  run, r             Start/restart program execution
  continue, c        Continue execution
  step, s            Execute single instruction
  next, n            Step over function calls
  break ADDR         Set breakpoint at address/label
  info registers     Show all registers
  print EXPR         Evaluate and print expression
  help               Show debugger help

Type 'help' at the debugger prompt for the full command list.
`, Version, vm.DefaultStackSize)
}

// dumpSymbolTable outputs the symbol table in a readable format
func dumpSymbolTable(symbols map[string]uint64, filename string) error {
	var writer *os.File
	var err error

	if filename == "" {
		writer = os.Stdout
	} else {
		writer, err = os.Create(filename) // #nosec G304 -- user-specified symbol output path
		if err != nil {
			return fmt.Errorf("failed to create symbol file: %w", err)
		}
		defer func() {
			if cerr := writer.Close(); cerr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close symbol file: %v\n", cerr)
			}
		}()
	}

	if len(symbols) == 0 {
		_, _ = fmt.Fprintln(writer, "No symbols defined")
		return nil
	}

	_, _ = fmt.Fprintln(writer, "Symbol Table")
	_, _ = fmt.Fprintln(writer, "============")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "%-30s %s\n", "Name", "Address")
	_, _ = fmt.Fprintln(writer, "--------------------------------------------------------------")

	type symbolEntry struct {
		name string
		addr uint64
	}
	entries := make([]symbolEntry, 0, len(symbols))
	for name, addr := range symbols {
		entries = append(entries, symbolEntry{name, addr})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].addr < entries[j].addr
	})

	for _, entry := range entries {
		_, _ = fmt.Fprintf(writer, "%-30s 0x%016X\n", entry.name, entry.addr)
	}

	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "Total symbols: %d\n", len(symbols))

	return nil
}
