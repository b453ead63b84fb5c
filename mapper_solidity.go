package xvmgen

import (
	"fmt"
	"strings"
)

// compactHelper is the name of the Solidity function emitting a SCALE compact
// length prefix.
const compactHelper = "scale_compact_length"

// compactLengthSource encodes lengths below 2^30 in the one, two and four
// byte compact modes. Larger lengths revert.
const compactLengthSource = `function scale_compact_length(uint256 length) internal pure returns (bytes memory) {
    if (length < 0x40) {
        return abi.encodePacked(uint8(length << 2));
    }
    uint256 width;
    uint256 packed;
    if (length < 0x4000) {
        width = 2;
        packed = (length << 2) | 0x01;
    } else if (length < 0x40000000) {
        width = 4;
        packed = (length << 2) | 0x02;
    } else {
        revert("SCALE: length exceeds compact range");
    }
    bytes memory out = new bytes(width);
    for (uint256 i = 0; i < width; i++) {
        out[i] = bytes1(uint8(packed >> (8 * i)));
    }
    return out;
}`

// solidityMapper maps Types to Solidity syntax. Arguments are SCALE encoded
// by generated internal functions, one per used type.
type solidityMapper struct{}

func (solidityMapper) Mode() Mode { return InkToEVM }

func (m solidityMapper) Reference(t Type) (string, error) {
	switch v := t.(type) {
	case BoolType:
		return "bool", nil
	case AddressType:
		switch v.Size {
		case InkAddressSize:
			return "bytes32", nil
		case EVMAddressSize:
			return "address", nil
		}
		return "", unmapped(InkToEVM, t)
	case FixedBytesType:
		if v.Size < 1 || v.Size > 32 {
			return "", unmapped(InkToEVM, t)
		}
		return fmt.Sprintf("bytes%d", v.Size), nil
	case BytesType:
		return "bytes", nil
	case StringType:
		return "string", nil
	case UintType:
		if !validEVMWidth(v.Bits) {
			return "", unmapped(InkToEVM, t)
		}
		return fmt.Sprintf("uint%d", v.Bits), nil
	case IntType:
		if !validEVMWidth(v.Bits) {
			return "", unmapped(InkToEVM, t)
		}
		return fmt.Sprintf("int%d", v.Bits), nil
	case ArrayType:
		elem, err := m.Reference(v.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d]", elem, v.Len), nil
	case SliceType:
		elem, err := m.Reference(v.Elem)
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	default:
		return "", unmapped(InkToEVM, t)
	}
}

// Modifier returns "memory" for the reference types of Solidity.
func (solidityMapper) Modifier(t Type) string {
	switch t.(type) {
	case BytesType, StringType, ArrayType, SliceType:
		return "memory"
	default:
		return ""
	}
}

// Return returns the reference of t with its data location. Solidity
// zero-initializes every return variable.
func (m solidityMapper) Return(t Type) (string, error) {
	ref, err := m.Reference(t)
	if err != nil {
		return "", err
	}
	if mod := m.Modifier(t); mod != "" {
		ref += " " + mod
	}
	return ref, nil
}

func (m solidityMapper) EncoderName(t Type) (string, error) {
	if _, err := m.Reference(t); err != nil {
		return "", err
	}
	return "scale_encode_" + typeSlug(t), nil
}

func (m solidityMapper) Encoder(t Type) (string, error) {
	name, err := m.EncoderName(t)
	if err != nil {
		return "", err
	}
	ref, _ := m.Reference(t)
	param := ref
	if mod := m.Modifier(t); mod != "" {
		param += " " + mod
	}

	var body string
	switch v := t.(type) {
	case BoolType:
		body = "return abi.encodePacked(value ? uint8(1) : uint8(0));"
	case AddressType, FixedBytesType:
		body = "return abi.encodePacked(value);"
	case BytesType:
		body = "return abi.encodePacked(scale_compact_length(value.length), value);"
	case StringType:
		body = "return abi.encodePacked(scale_compact_length(bytes(value).length), value);"
	case UintType:
		body = littleEndian(v.Bits, "value")
	case IntType:
		body = littleEndian(v.Bits, fmt.Sprintf("uint%d(value)", v.Bits))
	case ArrayType:
		elem, err := m.EncoderName(v.Elem)
		if err != nil {
			return "", err
		}
		body = concatElements("bytes memory out;", fmt.Sprint(v.Len), elem)
	case SliceType:
		elem, err := m.EncoderName(v.Elem)
		if err != nil {
			return "", err
		}
		body = concatElements("bytes memory out = scale_compact_length(value.length);", "value.length", elem)
	default:
		return "", unmapped(InkToEVM, t)
	}

	return fmt.Sprintf("function %s(%s value) internal pure returns (bytes memory) {\n    %s\n}",
		name, param, body), nil
}

// littleEndian emits the byte-by-byte little-endian serialization of an
// unsigned expression of the given width.
func littleEndian(bits int, expr string) string {
	size := bits / 8
	lines := []string{
		fmt.Sprintf("uint%d bits = %s;", bits, expr),
		fmt.Sprintf("bytes memory out = new bytes(%d);", size),
		fmt.Sprintf("for (uint256 i = 0; i < %d; i++) {", size),
		"    out[i] = bytes1(uint8(bits >> (8 * i)));",
		"}",
		"return out;",
	}
	return strings.Join(lines, "\n    ")
}

// concatElements emits a loop appending the encoding of every element.
func concatElements(init, length, elem string) string {
	lines := []string{
		init,
		fmt.Sprintf("for (uint256 i = 0; i < %s; i++) {", length),
		fmt.Sprintf("    out = abi.encodePacked(out, %s(value[i]));", elem),
		"}",
		"return out;",
	}
	return strings.Join(lines, "\n    ")
}

// needsCompact reports whether any of types is encoded with a compact length
// prefix.
func needsCompact(types []Type) bool {
	for _, t := range types {
		switch t.(type) {
		case BytesType, StringType, SliceType:
			return true
		}
	}
	return false
}
