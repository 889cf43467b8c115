package vm

// Cpu holds the RV64IMC integer register file and program counter. x0 is
// hard-wired to zero: writes through SetReg are silently dropped, matching
// real RISC-V semantics.
type Cpu struct {
	regs [32]uint64
	pc   uint64

	breakpoints map[int]bool
}

// NewCpu creates a Cpu with all registers and the PC at zero.
func NewCpu() *Cpu {
	return &Cpu{breakpoints: make(map[int]bool)}
}

// Reset zeroes every register and the PC; the breakpoint set is left as it
// is.
func (c *Cpu) Reset() {
	c.regs = [32]uint64{}
	c.pc = 0
}

// Reg returns the raw 64-bit value of register i (x0..x31).
func (c *Cpu) Reg(i int) uint64 {
	return c.regs[i]
}

// RegS returns the signed 64-bit view of register i.
func (c *Cpu) RegS(i int) int64 {
	return int64(c.regs[i])
}

// SetReg writes value to register i. Writes to x0 are no-ops.
func (c *Cpu) SetReg(i int, value uint64) {
	if i == 0 {
		return
	}
	c.regs[i] = value
}

// SetRegSigned sign-extends a signed value into register i.
func (c *Cpu) SetRegSigned(i int, value int64) {
	c.SetReg(i, uint64(value))
}

// PC returns the current program counter.
func (c *Cpu) PC() uint64 { return c.pc }

// SetPC sets the program counter, clearing its low bit (RISC-V instructions
// are at minimum 2-byte aligned).
func (c *Cpu) SetPC(addr uint64) { c.pc = addr &^ 1 }

// MovePC adds a signed offset to the program counter.
func (c *Cpu) MovePC(offset int64) { c.SetPC(uint64(int64(c.pc) + offset)) }

// SetBreakpoint enables or disables a breakpoint at the given source line.
func (c *Cpu) SetBreakpoint(line int, enable bool) {
	if enable {
		c.breakpoints[line] = true
	} else {
		delete(c.breakpoints, line)
	}
}

// HasBreakpoint reports whether a breakpoint is set at line.
func (c *Cpu) HasBreakpoint(line int) bool {
	return c.breakpoints[line]
}

// ClearBreakpoints removes every breakpoint.
func (c *Cpu) ClearBreakpoints() {
	c.breakpoints = make(map[int]bool)
}
