package xvmgen

import "fmt"

// inkMapper maps Types to ink! (Rust) syntax. Arguments are encoded into
// ethabi Tokens, which the generated module packs with ethabi::encode.
type inkMapper struct{}

func (inkMapper) Mode() Mode { return EVMToInk }

// nativeWidth reports whether Rust has a primitive integer of bits width.
func nativeWidth(bits int) bool {
	switch bits {
	case 8, 16, 32, 64, 128:
		return true
	}
	return false
}

func (m inkMapper) Reference(t Type) (string, error) {
	switch v := t.(type) {
	case BoolType:
		return "bool", nil
	case AddressType:
		if v.Size != EVMAddressSize {
			return "", unmapped(EVMToInk, t)
		}
		return "H160", nil
	case FixedBytesType:
		if v.Size < 1 || v.Size > 32 {
			return "", unmapped(EVMToInk, t)
		}
		return fmt.Sprintf("[u8; %d]", v.Size), nil
	case BytesType:
		return "Vec<u8>", nil
	case StringType:
		return "String", nil
	case UintType:
		switch {
		case nativeWidth(v.Bits):
			return fmt.Sprintf("u%d", v.Bits), nil
		case validEVMWidth(v.Bits):
			return "U256", nil
		}
		return "", unmapped(EVMToInk, t)
	case IntType:
		switch {
		case nativeWidth(v.Bits):
			return fmt.Sprintf("i%d", v.Bits), nil
		case validEVMWidth(v.Bits):
			return "Int", nil
		}
		return "", unmapped(EVMToInk, t)
	case ArrayType:
		elem, err := m.Reference(v.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%s; %d]", elem, v.Len), nil
	case SliceType:
		elem, err := m.Reference(v.Elem)
		if err != nil {
			return "", err
		}
		return "Vec<" + elem + ">", nil
	default:
		return "", unmapped(EVMToInk, t)
	}
}

// Modifier returns "": ink! messages take every argument by value.
func (inkMapper) Modifier(Type) string { return "" }

// Return rejects types without a Default implementation: Rust implements
// Default only for arrays of up to 32 elements.
func (m inkMapper) Return(t Type) (string, error) {
	if !hasDefault(t) {
		return "", fmt.Errorf("%w: %s has no default value in %s", ErrUnmappedType, t, EVMToInk)
	}
	return m.Reference(t)
}

func hasDefault(t Type) bool {
	if v, ok := t.(ArrayType); ok {
		return v.Len <= 32 && hasDefault(v.Elem)
	}
	return true
}

func (m inkMapper) EncoderName(t Type) (string, error) {
	if _, err := m.Reference(t); err != nil {
		return "", err
	}
	return "encode_" + typeSlug(t), nil
}

func (m inkMapper) Encoder(t Type) (string, error) {
	name, err := m.EncoderName(t)
	if err != nil {
		return "", err
	}
	ref, _ := m.Reference(t)

	var body string
	switch v := t.(type) {
	case BoolType:
		body = "Token::Bool(value)"
	case AddressType:
		body = "Token::Address(value)"
	case FixedBytesType:
		body = "Token::FixedBytes(value.to_vec())"
	case BytesType:
		body = "Token::Bytes(value)"
	case StringType:
		body = "Token::String(value)"
	case UintType:
		body = "Token::Uint(value)"
		if nativeWidth(v.Bits) {
			body = "Token::Uint(U256::from(value))"
		}
	case IntType:
		body = "Token::Int(value)"
		if nativeWidth(v.Bits) {
			// Sign extend to 256 bits: negate the magnitude in two's complement.
			body = "let magnitude = U256::from(value.unsigned_abs());\n" +
				"    if value < 0 {\n" +
				"        Token::Int((!magnitude).overflowing_add(U256::one()).0)\n" +
				"    } else {\n" +
				"        Token::Int(magnitude)\n" +
				"    }"
		}
	case ArrayType:
		elem, err := m.EncoderName(v.Elem)
		if err != nil {
			return "", err
		}
		body = fmt.Sprintf("Token::FixedArray(value.into_iter().map(%s).collect())", elem)
	case SliceType:
		elem, err := m.EncoderName(v.Elem)
		if err != nil {
			return "", err
		}
		body = fmt.Sprintf("Token::Array(value.into_iter().map(%s).collect())", elem)
	default:
		return "", unmapped(EVMToInk, t)
	}

	return fmt.Sprintf("fn %s(value: %s) -> Token {\n    %s\n}", name, ref, body), nil
}
