package xvmgen

import (
	"fmt"
	"strings"
)

// TypeMapper translates Types into source fragments of the target language.
// Each method is an exhaustive switch over the Type variants; a Type the
// target cannot express yields an error wrapping ErrUnmappedType.
type TypeMapper interface {
	// Mode returns the translation mode the mapper serves.
	Mode() Mode

	// Reference returns the target syntax naming t, e.g. "U256" or "uint32[]".
	Reference(t Type) (string, error)

	// Modifier returns the parameter passing keyword required for t in the
	// target syntax ("memory" for Solidity aggregates), or "".
	Modifier(t Type) string

	// Return returns the target syntax of t as a declared return type.
	// Proxies never decode results, so the generated body returns a
	// placeholder value for t; types without one are unmapped.
	Return(t Type) (string, error)

	// EncoderName returns the identifier of the encoder function for t.
	EncoderName(t Type) (string, error)

	// Encoder returns the definition of the encoder function for t. Encoders
	// of aggregate types call the encoders of their element types.
	Encoder(t Type) (string, error)
}

// checkMapped verifies that every type reachable from a contract has a
// mapping: inputs need a reference and an encoder, outputs a return type.
func checkMapped(m TypeMapper, contract *Contract) error {
	for _, fn := range contract.Functions {
		for i, in := range fn.Inputs {
			if err := checkEncodable(m, in.Type); err != nil {
				return &TypeError{Function: fn.Name, Argument: in.Name, Position: i, Raw: in.Raw, Err: err}
			}
		}
		if fn.Output != nil {
			if _, err := m.Return(fn.Output); err != nil {
				return &TypeError{Function: fn.Name, Position: -1, Raw: fn.Output.String(), Err: err}
			}
		}
	}
	return nil
}

func checkEncodable(m TypeMapper, t Type) error {
	if _, err := m.Reference(t); err != nil {
		return err
	}
	if _, err := m.Encoder(t); err != nil {
		return err
	}
	if elem := elementOf(t); elem != nil {
		return checkEncodable(m, elem)
	}
	return nil
}

// usedTypes returns every input type reachable from the contract, element
// types before their containers, in order of first use. Types are
// deduplicated by structural equality so each encoder is emitted once.
func usedTypes(contract *Contract) []Type {
	var (
		seen  = make(map[Type]bool)
		order []Type
		visit func(Type)
	)
	visit = func(t Type) {
		if seen[t] {
			return
		}
		if elem := elementOf(t); elem != nil {
			visit(elem)
		}
		seen[t] = true
		order = append(order, t)
	}
	for _, fn := range contract.Functions {
		for _, in := range fn.Inputs {
			visit(in.Type)
		}
	}
	return order
}

// typeSlug returns an identifier fragment naming t, used to derive encoder
// function names: uint8[3][] becomes "uint8_array3_slice".
func typeSlug(t Type) string {
	switch v := t.(type) {
	case AddressType:
		if v.Size == InkAddressSize {
			return "account_id"
		}
		return "address"
	case ArrayType:
		return fmt.Sprintf("%s_array%d", typeSlug(v.Elem), v.Len)
	case SliceType:
		return typeSlug(v.Elem) + "_slice"
	default:
		return strings.ToLower(t.String())
	}
}
