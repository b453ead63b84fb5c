package xvmgen

import "strings"

// Argument is a named, typed function parameter.
type Argument struct {
	Name string
	Type Type
	Raw  string // Type string as it appeared in the source document
}

// Function describes one callable entry accepted from the source metadata.
// Function is immutable once parsed.
type Function struct {
	Name    string
	Inputs  []Argument
	Output  Type // nil when the function returns nothing
	Mutates bool // Always true for accepted functions
	Payable bool
	Docs    []string

	// Index disambiguates functions sharing a Name, counted from 0 in
	// document order.
	Index int

	// Overloaded is true when another accepted function has the same Name.
	Overloaded bool

	// declared is the selector stated by the metadata, if any.
	declared *Selector
}

// HasOutput returns true if the function declares a return value.
func (f *Function) HasOutput() bool {
	return f.Output != nil
}

// DeclaredSelector returns the selector stated by the source metadata.
// Only ink! metadata carries selectors.
func (f *Function) DeclaredSelector() (Selector, bool) {
	if f.declared == nil {
		return Selector{}, false
	}
	return *f.declared, true
}

// Contract is the parsed description of a source contract: its accepted
// functions in document order.
type Contract struct {
	Name      string // Contract name found in the document, may be empty
	Functions []*Function
}

// Len returns the number of accepted functions.
func (c *Contract) Len() int {
	return len(c.Functions)
}

// FunctionsNamed returns the overload set for name in document order.
func (c *Contract) FunctionsNamed(name string) []*Function {
	var out []*Function
	for _, fn := range c.Functions {
		if fn.Name == name {
			out = append(out, fn)
		}
	}
	return out
}

// assignOverloads sets Index and Overloaded for every function.
func (c *Contract) assignOverloads() {
	counts := make(map[string]int, len(c.Functions))
	for _, fn := range c.Functions {
		counts[fn.Name]++
	}
	seen := make(map[string]int, len(c.Functions))
	for _, fn := range c.Functions {
		fn.Index = seen[fn.Name]
		fn.Overloaded = counts[fn.Name] > 1
		seen[fn.Name]++
	}
}

// EntryKind classifies a raw metadata entry for the drop rule.
type EntryKind uint8

const (
	// KindFunction is a callable function or ink! message.
	KindFunction EntryKind = iota

	// KindEvent is an event declaration.
	KindEvent

	// KindOther covers constructors, errors, fallback and receive entries.
	KindOther
)

// Accept is the drop rule applied by both parsers: only state mutating
// functions become proxy entry points. Events, read-only functions and all
// other entry kinds are skipped without error.
func Accept(kind EntryKind, mutates bool) bool {
	return kind == KindFunction && mutates
}

// evmMutates classifies Solidity mutability. Legacy ABIs without
// stateMutability use the constant flag instead.
func evmMutates(stateMutability string, constant bool) bool {
	switch strings.ToLower(stateMutability) {
	case "view", "pure":
		return false
	case "nonpayable", "payable":
		return true
	default:
		return !constant
	}
}
