package parser

import "fmt"

// Symbol is a resolved label: a name bound to an absolute address.
type Symbol struct {
	Name    string
	Address uint64
}

// SymbolTable maps label names to absolute addresses. Duplicate insertion
// fails; the first definition remains authoritative (spec.md §4.4 step 1).
type SymbolTable struct {
	symbols map[string]*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Define records a new label at the given address. Returns an error (and
// leaves the table unchanged) if the name is already defined; the first
// definition remains authoritative and the duplicate is reported by the
// caller as a BuildError.
func (st *SymbolTable) Define(name string, address uint64) error {
	if _, exists := st.symbols[name]; exists {
		return fmt.Errorf("symbol %q already defined", name)
	}
	st.symbols[name] = &Symbol{Name: name, Address: address}
	return nil
}

// Lookup returns the symbol for name, if any.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Len reports how many symbols are defined.
func (st *SymbolTable) Len() int { return len(st.symbols) }

// All returns every defined symbol, for diagnostic dumps (-dump-symbols).
func (st *SymbolTable) All() []*Symbol {
	out := make([]*Symbol, 0, len(st.symbols))
	for _, s := range st.symbols {
		out = append(out, s)
	}
	return out
}
