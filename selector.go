package xvmgen

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// SelectorSize is the size of a call selector in bytes.
const SelectorSize = 4

// Selector is the 4-byte tag identifying the function a call buffer targets.
type Selector [SelectorSize]byte

// Hex returns the selector as 0x-prefixed lowercase hex.
func (s Selector) Hex() string {
	return hexutil.Encode(s[:])
}

// Array returns the selector as a comma separated list of byte literals,
// e.g. "0xa9, 0x05, 0x9c, 0xbb".
func (s Selector) Array() string {
	parts := make([]string, len(s))
	for i, b := range s {
		parts[i] = hexutil.Encode([]byte{b})
	}
	return strings.Join(parts, ", ")
}

// ParseSelector parses a 0x-prefixed 4-byte hex selector.
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	raw, err := hexutil.Decode(s)
	if err != nil {
		return sel, err
	}
	if len(raw) != SelectorSize {
		return sel, fmt.Errorf("selector %q is %d bytes, want %d", s, len(raw), SelectorSize)
	}
	copy(sel[:], raw)
	return sel, nil
}

// SelectorCalculator derives call selectors using the hashing convention of
// the system a function comes from.
type SelectorCalculator interface {
	// Signature returns the canonical signature of fn: its name followed by
	// the parenthesized, comma separated canonical type names of its inputs.
	Signature(fn *Function) (string, error)

	// Selector returns the selector of fn.
	Selector(fn *Function) (Selector, error)
}

// KeccakSelectors computes Solidity selectors: the first four bytes of the
// Keccak-256 hash of the canonical signature.
type KeccakSelectors struct{}

// Signature implements SelectorCalculator.
func (KeccakSelectors) Signature(fn *Function) (string, error) {
	return evmSignature(fn)
}

// Selector implements SelectorCalculator.
func (k KeccakSelectors) Selector(fn *Function) (Selector, error) {
	sig, err := k.Signature(fn)
	if err != nil {
		return Selector{}, err
	}
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(sig))[:SelectorSize])
	return sel, nil
}

// Blake2Selectors computes ink! selectors: the first four bytes of the
// BLAKE2b-256 hash of the message label. A selector declared in the
// metadata (set with #[ink(selector = ...)]) takes precedence.
type Blake2Selectors struct{}

// Signature implements SelectorCalculator.
func (Blake2Selectors) Signature(fn *Function) (string, error) {
	names := make([]string, len(fn.Inputs))
	for i, in := range fn.Inputs {
		name, err := InkTypeName(in.Type)
		if err != nil {
			return "", err
		}
		names[i] = name
	}
	return fn.Name + "(" + strings.Join(names, ",") + ")", nil
}

// Selector implements SelectorCalculator.
func (Blake2Selectors) Selector(fn *Function) (Selector, error) {
	if sel, ok := fn.DeclaredSelector(); ok {
		return sel, nil
	}
	sum := blake2b.Sum256([]byte(fn.Name))
	var sel Selector
	copy(sel[:], sum[:SelectorSize])
	return sel, nil
}

// evmSignature builds the canonical Solidity signature of fn.
func evmSignature(fn *Function) (string, error) {
	names := make([]string, len(fn.Inputs))
	for i, in := range fn.Inputs {
		name, err := EVMTypeName(in.Type)
		if err != nil {
			return "", err
		}
		names[i] = name
	}
	return fn.Name + "(" + strings.Join(names, ",") + ")", nil
}

// selectorEntry binds a computed selector to its function.
type selectorEntry struct {
	fn        *Function
	signature string
	selector  Selector
}

// computeSelectors derives the selector of every function and fails with a
// DuplicateSelectorError when two functions collide.
func computeSelectors(calc SelectorCalculator, contract *Contract) ([]selectorEntry, error) {
	entries := make([]selectorEntry, 0, contract.Len())
	seen := make(map[Selector]string, contract.Len())

	for _, fn := range contract.Functions {
		sig, err := calc.Signature(fn)
		if err != nil {
			return nil, &TypeError{Function: fn.Name, Position: -1, Raw: fn.Name, Err: err}
		}
		sel, err := calc.Selector(fn)
		if err != nil {
			return nil, &TypeError{Function: fn.Name, Position: -1, Raw: fn.Name, Err: err}
		}
		if first, dup := seen[sel]; dup {
			return nil, &DuplicateSelectorError{Selector: sel, First: first, Second: sig}
		}
		seen[sel] = sig
		entries = append(entries, selectorEntry{fn: fn, signature: sig, selector: sel})
	}
	return entries, nil
}
