package xvmgen

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEVMType parses a Solidity ABI type string into a Type.
// A trailing "[]" or "[N]" wraps the already parsed element type, so
// "uint8[2][]" is a slice of uint8[2]. Composite constructs (tuples,
// mappings, function pointers, fixed point numbers) are rejected.
func ParseEVMType(raw string) (Type, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, unsupported("empty type string")
	}
	if strings.ContainsAny(s, "()=>") {
		return nil, unsupported("composite type %q", s)
	}

	if strings.HasSuffix(s, "]") {
		open := strings.LastIndexByte(s, '[')
		if open <= 0 {
			return nil, unsupported("malformed array suffix in %q", s)
		}
		elem, err := ParseEVMType(s[:open])
		if err != nil {
			return nil, err
		}
		size := s[open+1 : len(s)-1]
		if size == "" {
			return SliceType{Elem: elem}, nil
		}
		n, err := parseWidth(size)
		if err != nil || n == 0 {
			return nil, unsupported("invalid array length in %q", s)
		}
		return ArrayType{Elem: elem, Len: n}, nil
	}

	switch s {
	case "bool":
		return BoolType{}, nil
	case "address", "address payable":
		return AddressType{Size: EVMAddressSize}, nil
	case "string":
		return StringType{}, nil
	case "bytes":
		return BytesType{}, nil
	case "uint":
		return UintType{Bits: 256}, nil
	case "int":
		return IntType{Bits: 256}, nil
	}

	switch {
	case strings.HasPrefix(s, "uint"):
		bits, err := parseWidth(s[len("uint"):])
		if err != nil || !validEVMWidth(bits) {
			return nil, unsupported("invalid integer width in %q", s)
		}
		return UintType{Bits: bits}, nil
	case strings.HasPrefix(s, "int"):
		bits, err := parseWidth(s[len("int"):])
		if err != nil || !validEVMWidth(bits) {
			return nil, unsupported("invalid integer width in %q", s)
		}
		return IntType{Bits: bits}, nil
	case strings.HasPrefix(s, "bytes"):
		size, err := parseWidth(s[len("bytes"):])
		if err != nil || size < 1 || size > 32 {
			return nil, unsupported("invalid fixed bytes size in %q", s)
		}
		return FixedBytesType{Size: size}, nil
	}

	return nil, unsupported("unknown type keyword %q", s)
}

// parseWidth parses a decimal width without sign or leading zeros.
func parseWidth(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || strconv.Itoa(n) != s {
		return 0, fmt.Errorf("non-canonical number %q", s)
	}
	return n, nil
}

// EVMTypeName returns the canonical Solidity ABI name of t, as used in
// function signatures.
func EVMTypeName(t Type) (string, error) {
	switch v := t.(type) {
	case BoolType:
		return "bool", nil
	case AddressType:
		if v.Size != EVMAddressSize {
			return "", fmt.Errorf("%w: %d-byte address has no EVM name", ErrUnmappedType, v.Size)
		}
		return "address", nil
	case FixedBytesType:
		if v.Size < 1 || v.Size > 32 {
			return "", fmt.Errorf("%w: bytes%d has no EVM name", ErrUnmappedType, v.Size)
		}
		return fmt.Sprintf("bytes%d", v.Size), nil
	case BytesType:
		return "bytes", nil
	case StringType:
		return "string", nil
	case UintType:
		if !validEVMWidth(v.Bits) {
			return "", fmt.Errorf("%w: uint%d has no EVM name", ErrUnmappedType, v.Bits)
		}
		return fmt.Sprintf("uint%d", v.Bits), nil
	case IntType:
		if !validEVMWidth(v.Bits) {
			return "", fmt.Errorf("%w: int%d has no EVM name", ErrUnmappedType, v.Bits)
		}
		return fmt.Sprintf("int%d", v.Bits), nil
	case ArrayType:
		elem, err := EVMTypeName(v.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d]", elem, v.Len), nil
	case SliceType:
		elem, err := EVMTypeName(v.Elem)
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnmappedType, t)
	}
}
