package debugger

// abiRegisterNames maps x0-x31 to their RISC-V calling-convention names,
// used for register display and as aliases recognized by the breakpoint
// condition / watch / print expression evaluator.
var abiRegisterNames = map[int]string{
	0: "zero", 1: "ra", 2: "sp", 3: "gp", 4: "tp",
	5: "t0", 6: "t1", 7: "t2",
	8: "s0", 9: "s1",
	10: "a0", 11: "a1", 12: "a2", 13: "a3", 14: "a4", 15: "a5", 16: "a6", 17: "a7",
	18: "s2", 19: "s3", 20: "s4", 21: "s5", 22: "s6", 23: "s7", 24: "s8", 25: "s9", 26: "s10", 27: "s11",
	28: "t3", 29: "t4", 30: "t5", 31: "t6",
}

// abiRegisterNumbers is the reverse of abiRegisterNames, plus "fp" as the
// conventional alias for s0/x8 and "pc" handled separately by callers since
// it isn't one of the 32 general registers.
var abiRegisterNumbers = func() map[string]int {
	m := make(map[string]int, len(abiRegisterNames)+1)
	for num, name := range abiRegisterNames {
		m[name] = num
	}
	m["fp"] = 8
	return m
}()

// TUI Display Update Constants
const (
	// DisplayUpdateFrequency controls how often the TUI display updates during continuous execution
	// (every N cycles to keep display responsive without overwhelming the terminal)
	DisplayUpdateFrequency = 100
)

// Code View Context Constants
const (
	// CodeContextLinesBefore is the default number of lines to show before PC in the full code view
	CodeContextLinesBefore = 20

	// CodeContextLinesAfter is the default number of lines to show after PC in the full code view
	CodeContextLinesAfter = 80

	// CodeContextLinesBeforeCompact is the number of lines to show before PC in compact views
	CodeContextLinesBeforeCompact = 5

	// CodeContextLinesAfterCompact is the number of lines to show after PC in compact views
	CodeContextLinesAfterCompact = 10
)

// Memory Display Constants
const (
	// MemoryDisplayRows is the number of rows to show in the memory hex dump view
	MemoryDisplayRows = 16

	// MemoryDisplayColumns is the number of bytes per row in the memory hex dump view
	MemoryDisplayColumns = 16

	// MemoryDisplayBytesPerRow is the number of bytes displayed per row (same as columns)
	MemoryDisplayBytesPerRow = 16
)

// Stack Display Constants
const (
	// StackDisplayWords is the number of 64-bit words to show in the stack view
	StackDisplayWords = 16

	// StackDisplayBytes is the total number of bytes shown in the stack view (16 words * 8 bytes)
	StackDisplayBytes = 128

	// StackInspectionMaxOffset is the maximum byte offset when inspecting stack in debugger commands
	StackInspectionMaxOffset = 16
)

// Register Display Constants
const (
	// RegisterViewRows is the fixed height of the register view panel
	// (8 rows of registers + blank line + status line + borders, with 2
	// rows to spare)
	RegisterViewRows = 14

	// RegisterGroupSize is the number of registers displayed per row
	RegisterGroupSize = 4
)
