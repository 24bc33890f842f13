package interp

// SymbolTable interns symbol names so that identity equality implements
// name equality: (eq? 'x 'x) and (eq? (string->symbol "x") 'x) must both
// hold: one *Value per distinct name, looked up before allocating a new
// one, backed by a map for O(1) lookup.
type SymbolTable struct {
	names map[string]*Value
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{names: make(map[string]*Value)}
}

// Intern returns the canonical symbol Value for name, allocating a new one
// through the heap on first use and caching it for subsequent calls.
func (ctx *Context) Intern(name string) (*Value, error) {
	if sym, ok := ctx.symtab.names[name]; ok {
		return sym, nil
	}
	sym, err := ctx.Heap.Alloc(KindSymbol)
	if err != nil {
		return nil, err
	}
	sym.Str = name
	ctx.symtab.names[name] = sym
	return sym, nil
}
