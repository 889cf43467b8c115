package vm

import (
	"fmt"

	"github.com/rv64imc/sim/parser"
)

// pageSize is the lazy-allocation granularity for PagedMemory (spec.md §4.7).
const pageSize = 4096

// PROGRAM_MEM_LIMIT bounds the combined size of loaded program bytes plus
// heap (spec.md §4.6).
const ProgramMemLimit = 8 * 1024 * 1024 // 8 MiB

// DefaultStackSize is the default stack segment size.
const DefaultStackSize = 1024 * 1024 // 1 MiB

// DefaultInitialHeap is the slack reserved past the program image before any
// sbrk call.
const DefaultInitialHeap = 128

// PagedMemory is a byte-addressable store backed by lazily-allocated 4096-
// byte pages: a read from an unallocated page yields zero, a write
// allocates it. Endianness is fixed at construction.
type PagedMemory struct {
	pages    map[uint64][]byte
	size     uint64
	bigEndian bool
}

// NewPagedMemory creates a PagedMemory of the given logical size.
func NewPagedMemory(size uint64, bigEndian bool) *PagedMemory {
	return &PagedMemory{pages: make(map[uint64][]byte), size: size, bigEndian: bigEndian}
}

func (p *PagedMemory) page(addr uint64, alloc bool) []byte {
	idx := addr / pageSize
	pg, ok := p.pages[idx]
	if !ok {
		if !alloc {
			return nil
		}
		pg = make([]byte, pageSize)
		p.pages[idx] = pg
	}
	return pg
}

func (p *PagedMemory) readByte(addr uint64) byte {
	pg := p.page(addr, false)
	if pg == nil {
		return 0
	}
	return pg[addr%pageSize]
}

func (p *PagedMemory) writeByte(addr uint64, v byte) {
	pg := p.page(addr, true)
	pg[addr%pageSize] = v
}

// Load8/Load16/Load32/Load64 read a little/big-endian (per construction)
// value at addr. ok is false if addr+width exceeds the logical size.
func (p *PagedMemory) Load8(addr uint64) (uint8, bool) {
	if addr+1 > p.size {
		return 0, false
	}
	return p.readByte(addr), true
}

func (p *PagedMemory) Load16(addr uint64) (uint16, bool) {
	if addr+2 > p.size {
		return 0, false
	}
	b0, b1 := p.readByte(addr), p.readByte(addr+1)
	if p.bigEndian {
		return uint16(b0)<<8 | uint16(b1), true
	}
	return uint16(b0) | uint16(b1)<<8, true
}

func (p *PagedMemory) Load32(addr uint64) (uint32, bool) {
	if addr+4 > p.size {
		return 0, false
	}
	var v uint32
	for i := 0; i < 4; i++ {
		b := uint32(p.readByte(addr + uint64(i)))
		if p.bigEndian {
			v = v<<8 | b
		} else {
			v |= b << (8 * uint(i))
		}
	}
	return v, true
}

func (p *PagedMemory) Load64(addr uint64) (uint64, bool) {
	if addr+8 > p.size {
		return 0, false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		b := uint64(p.readByte(addr + uint64(i)))
		if p.bigEndian {
			v = v<<8 | b
		} else {
			v |= b << (8 * uint(i))
		}
	}
	return v, true
}

func (p *PagedMemory) Store8(addr uint64, v uint8) bool {
	if addr+1 > p.size {
		return false
	}
	p.writeByte(addr, v)
	return true
}

func (p *PagedMemory) Store16(addr uint64, v uint16) bool {
	if addr+2 > p.size {
		return false
	}
	if p.bigEndian {
		p.writeByte(addr, byte(v>>8))
		p.writeByte(addr+1, byte(v))
	} else {
		p.writeByte(addr, byte(v))
		p.writeByte(addr+1, byte(v>>8))
	}
	return true
}

func (p *PagedMemory) Store32(addr uint64, v uint32) bool {
	if addr+4 > p.size {
		return false
	}
	for i := 0; i < 4; i++ {
		var b byte
		if p.bigEndian {
			b = byte(v >> (8 * uint(3-i)))
		} else {
			b = byte(v >> (8 * uint(i)))
		}
		p.writeByte(addr+uint64(i), b)
	}
	return true
}

func (p *PagedMemory) Store64(addr uint64, v uint64) bool {
	if addr+8 > p.size {
		return false
	}
	for i := 0; i < 8; i++ {
		var b byte
		if p.bigEndian {
			b = byte(v >> (8 * uint(7-i)))
		} else {
			b = byte(v >> (8 * uint(i)))
		}
		p.writeByte(addr+uint64(i), b)
	}
	return true
}

// CopyIn bulk-loads data starting at offset 0, used to seed the assembled
// program image.
func (p *PagedMemory) CopyIn(data []byte) {
	for i, b := range data {
		p.writeByte(uint64(i), b)
	}
}

// SpPos selects where the stack pointer is initialized on program load.
type SpPos int

const (
	SpZero SpPos = iota
	SpStackBottom
	SpStackTop
)

// Layout describes the address-space geometry a VM is configured with.
type Layout struct {
	DataBase        uint64
	StackBase       uint64
	StackSize       uint64
	InitialHeapSize uint64
	BigEndian       bool
}

// DefaultLayout mirrors the reference simulator's default geometry.
func DefaultLayout() Layout {
	return Layout{
		DataBase:        0x400000,
		StackBase:       0x7FF00000,
		StackSize:       DefaultStackSize,
		InitialHeapSize: DefaultInitialHeap,
	}
}

// ValidateLayout rejects an odd data base, an initial heap past the program
// memory limit, or a data/stack region overlap (spec.md §4.6).
func ValidateLayout(l Layout) error {
	if l.DataBase%2 != 0 {
		return fmt.Errorf("data base address must be even")
	}
	if l.InitialHeapSize > ProgramMemLimit {
		return fmt.Errorf("initial heap size exceeds program memory limit")
	}
	dataEnd := l.DataBase + ProgramMemLimit
	stackEnd := l.StackBase + l.StackSize
	if l.DataBase < stackEnd && dataEnd > l.StackBase {
		return fmt.Errorf("data and stack memory regions may overlap (data region may expand up to %d KiB)", ProgramMemLimit/1024)
	}
	return nil
}

// MemErr is the taxonomy of memory-access failures (spec.md §4.6).
type MemErr int

const (
	MemErrNone MemErr = iota
	MemErrSegFault
	MemErrNotTermStr
	MemErrOutOfMemory
	MemErrNegativeHeap
	MemErrInvalidInstructionAddress
	MemErrProgramExit
)

func (e MemErr) String() string {
	switch e {
	case MemErrNone:
		return "no error"
	case MemErrSegFault:
		return "segmentation fault"
	case MemErrNotTermStr:
		return "segfault: string is not null-terminated"
	case MemErrOutOfMemory:
		return "could not allocate memory"
	case MemErrNegativeHeap:
		return "heap size became negative"
	case MemErrInvalidInstructionAddress:
		return "invalid instruction address (between instructions)"
	case MemErrProgramExit:
		return "program exit"
	default:
		return "unknown error"
	}
}

const maxStringLen = 4096

// Memory is the VM's address space: a paged stack region and a paged
// data/heap/program region, addressed by the same 64-bit addresses the CPU
// uses (spec.md §4.6).
type Memory struct {
	layout      Layout
	stackBottom uint64
	heapStart   uint64
	dataSize    uint64

	stack *PagedMemory
	data  *PagedMemory

	instructions parser.ParsedInstVec
}

// NewMemory constructs Memory for the given layout, with optional initial
// program-data bytes already copied into the data segment.
func NewMemory(layout Layout, programData []byte) *Memory {
	m := &Memory{
		layout:      layout,
		stackBottom: layout.StackBase,
		heapStart:   layout.DataBase + uint64(len(programData)),
		dataSize:    uint64(len(programData)) + layout.InitialHeapSize,
		stack:       NewPagedMemory(layout.StackSize, layout.BigEndian),
		data:        NewPagedMemory(ProgramMemLimit, layout.BigEndian),
	}
	m.data.CopyIn(programData)
	return m
}

func (m *Memory) inStack(addr uint64, size uint64) bool {
	return addr >= m.stackBottom && addr+size <= m.stackBottom+m.layout.StackSize
}

func (m *Memory) inData(addr uint64, size uint64) bool {
	return addr >= m.layout.DataBase && addr+size <= m.layout.DataBase+ProgramMemLimit
}

// Load8/16/32/64 read from the stack segment first, then data. Returns
// MemErrSegFault if addr falls in neither.
func (m *Memory) Load8(addr uint64) (uint8, MemErr) {
	if m.inStack(addr, 1) {
		v, _ := m.stack.Load8(addr - m.stackBottom)
		return v, MemErrNone
	}
	if m.inData(addr, 1) {
		v, _ := m.data.Load8(addr - m.layout.DataBase)
		return v, MemErrNone
	}
	return 0, MemErrSegFault
}

func (m *Memory) Load16(addr uint64) (uint16, MemErr) {
	if m.inStack(addr, 2) {
		v, _ := m.stack.Load16(addr - m.stackBottom)
		return v, MemErrNone
	}
	if m.inData(addr, 2) {
		v, _ := m.data.Load16(addr - m.layout.DataBase)
		return v, MemErrNone
	}
	return 0, MemErrSegFault
}

func (m *Memory) Load32(addr uint64) (uint32, MemErr) {
	if m.inStack(addr, 4) {
		v, _ := m.stack.Load32(addr - m.stackBottom)
		return v, MemErrNone
	}
	if m.inData(addr, 4) {
		v, _ := m.data.Load32(addr - m.layout.DataBase)
		return v, MemErrNone
	}
	return 0, MemErrSegFault
}

func (m *Memory) Load64(addr uint64) (uint64, MemErr) {
	if m.inStack(addr, 8) {
		v, _ := m.stack.Load64(addr - m.stackBottom)
		return v, MemErrNone
	}
	if m.inData(addr, 8) {
		v, _ := m.data.Load64(addr - m.layout.DataBase)
		return v, MemErrNone
	}
	return 0, MemErrSegFault
}

func (m *Memory) Store8(addr uint64, v uint8) MemErr {
	if m.inStack(addr, 1) {
		m.stack.Store8(addr-m.stackBottom, v)
		return MemErrNone
	}
	if m.inData(addr, 1) {
		m.data.Store8(addr-m.layout.DataBase, v)
		return MemErrNone
	}
	return MemErrSegFault
}

func (m *Memory) Store16(addr uint64, v uint16) MemErr {
	if m.inStack(addr, 2) {
		m.stack.Store16(addr-m.stackBottom, v)
		return MemErrNone
	}
	if m.inData(addr, 2) {
		m.data.Store16(addr-m.layout.DataBase, v)
		return MemErrNone
	}
	return MemErrSegFault
}

func (m *Memory) Store32(addr uint64, v uint32) MemErr {
	if m.inStack(addr, 4) {
		m.stack.Store32(addr-m.stackBottom, v)
		return MemErrNone
	}
	if m.inData(addr, 4) {
		m.data.Store32(addr-m.layout.DataBase, v)
		return MemErrNone
	}
	return MemErrSegFault
}

func (m *Memory) Store64(addr uint64, v uint64) MemErr {
	if m.inStack(addr, 8) {
		m.stack.Store64(addr-m.stackBottom, v)
		return MemErrNone
	}
	if m.inData(addr, 8) {
		m.data.Store64(addr-m.layout.DataBase, v)
		return MemErrNone
	}
	return MemErrSegFault
}

// LoadString reads bytes starting at addr until a NUL or maxStringLen bytes,
// trying the data segment then the stack for every byte address.
func (m *Memory) LoadString(addr uint64) (string, MemErr) {
	buf := make([]byte, 0, 64)
	for i := uint64(0); i < maxStringLen; i++ {
		byteAddr := addr + i
		var ch byte
		switch {
		case m.inData(byteAddr, 1):
			ch, _ = m.data.Load8(byteAddr - m.layout.DataBase)
		case m.inStack(byteAddr, 1):
			ch, _ = m.stack.Load8(byteAddr - m.stackBottom)
		default:
			return "", MemErrSegFault
		}
		if ch == 0 {
			return string(buf), MemErrNone
		}
		buf = append(buf, ch)
	}
	return string(buf), MemErrNotTermStr
}

// LoadProgram records the resolved instruction stream, copies the
// already-assembled bytecode into the data segment and recomputes the heap
// start.
func (m *Memory) LoadProgram(instructions parser.ParsedInstVec, bytecode []byte) error {
	m.instructions = instructions
	m.dataSize += uint64(len(bytecode))
	if m.dataSize > ProgramMemLimit {
		return fmt.Errorf("program exceeds memory limit after loading")
	}
	m.data.CopyIn(bytecode)
	m.heapStart = m.layout.DataBase + uint64(len(bytecode))
	return nil
}

// InstructionFetch is one decoded-instruction lookup result.
type InstructionFetch struct {
	Entry  parser.ParsedEntry
	HasLine bool
}

// GetInstructionAt resolves the instruction at addr. Returns
// MemErrProgramExit once addr reaches the end of the loaded program, and
// MemErrInvalidInstructionAddress for a fetch that lands on a padding slot.
func (m *Memory) GetInstructionAt(addr uint64) (InstructionFetch, MemErr) {
	if len(m.instructions) == 0 {
		return InstructionFetch{}, MemErrSegFault
	}
	relative := addr - m.layout.DataBase
	offset := relative / 2
	if addr < m.layout.DataBase || offset > uint64(len(m.instructions)) {
		return InstructionFetch{}, MemErrSegFault
	}
	if offset == uint64(len(m.instructions)) {
		return InstructionFetch{}, MemErrProgramExit
	}
	entry := m.instructions[offset]
	if entry.Line == parser.PaddingLine {
		return InstructionFetch{}, MemErrInvalidInstructionAddress
	}
	return InstructionFetch{Entry: entry, HasLine: true}, MemErrNone
}

// GetInstructionEndAddr returns the address one past the last loaded
// instruction slot.
func (m *Memory) GetInstructionEndAddr() uint64 {
	return m.layout.DataBase + uint64(len(m.instructions))*2
}

// Sbrk adjusts the program break by inc bytes and returns the previous
// break. inc == 0 is a no-op query.
func (m *Memory) Sbrk(inc int64) (uint64, MemErr) {
	oldBrk := m.GetBrk()
	if inc == 0 {
		return oldBrk, MemErrNone
	}
	heapOffset := int64(m.heapStart - m.layout.DataBase)
	newSize := int64(m.dataSize) + inc
	if newSize < heapOffset {
		return 0, MemErrNegativeHeap
	}
	if newSize > int64(ProgramMemLimit) {
		return 0, MemErrOutOfMemory
	}
	m.dataSize = uint64(newSize)
	return oldBrk, MemErrNone
}

// GetBrk returns the current program break address.
func (m *Memory) GetBrk() uint64 {
	return m.layout.DataBase + m.dataSize
}

// Layout returns the memory's address-space geometry.
func (m *Memory) Layout() Layout { return m.layout }

// Reset replaces the backing pages with fresh empty ones, preserving the
// layout and the loaded instruction stream.
func (m *Memory) Reset(programData []byte) {
	m.stack = NewPagedMemory(m.layout.StackSize, m.layout.BigEndian)
	m.data = NewPagedMemory(ProgramMemLimit, m.layout.BigEndian)
	m.data.CopyIn(programData)
	m.heapStart = m.layout.DataBase + uint64(len(programData))
	m.dataSize = uint64(len(programData)) + m.layout.InitialHeapSize
}
