package xvmgen

import "fmt"

// Type describes an argument or return type independently of the EVM or
// ink! surface syntax. It is a sealed interface: only the variants declared
// in this file implement it. All variants are comparable values, so two
// descriptors are structurally equal exactly when they compare equal with ==.
type Type interface {
	// isType is unexported to seal the interface.
	isType()

	// String returns a human readable descriptor used in error messages.
	String() string
}

// BoolType is a boolean.
type BoolType struct{}

// AddressType is an account address. Size is the address length in bytes:
// 20 for an EVM address, 32 for an ink! AccountId.
type AddressType struct {
	Size int
}

// FixedBytesType is a fixed-length byte string (bytesN / [u8; N]).
type FixedBytesType struct {
	Size int
}

// BytesType is a variable-length byte string.
type BytesType struct{}

// StringType is a UTF-8 string.
type StringType struct{}

// UintType is an unsigned integer of Bits width.
type UintType struct {
	Bits int
}

// IntType is a signed integer of Bits width.
type IntType struct {
	Bits int
}

// ArrayType is a fixed-length array.
type ArrayType struct {
	Elem Type
	Len  int
}

// SliceType is a variable-length array.
type SliceType struct {
	Elem Type
}

func (BoolType) isType()       {}
func (AddressType) isType()    {}
func (FixedBytesType) isType() {}
func (BytesType) isType()      {}
func (StringType) isType()     {}
func (UintType) isType()       {}
func (IntType) isType()        {}
func (ArrayType) isType()      {}
func (SliceType) isType()      {}

func (BoolType) String() string         { return "bool" }
func (t AddressType) String() string    { return fmt.Sprintf("address%d", t.Size) }
func (t FixedBytesType) String() string { return fmt.Sprintf("bytes%d", t.Size) }
func (BytesType) String() string        { return "bytes" }
func (StringType) String() string       { return "string" }
func (t UintType) String() string       { return fmt.Sprintf("uint%d", t.Bits) }
func (t IntType) String() string        { return fmt.Sprintf("int%d", t.Bits) }
func (t ArrayType) String() string      { return fmt.Sprintf("%s[%d]", t.Elem, t.Len) }
func (t SliceType) String() string      { return t.Elem.String() + "[]" }

// Address sizes of the two supported systems.
const (
	EVMAddressSize = 20
	InkAddressSize = 32
)

// Convenience descriptors.
var (
	Bool    Type = BoolType{}
	Bytes   Type = BytesType{}
	String  Type = StringType{}
	Address Type = AddressType{Size: EVMAddressSize}
	Uint256 Type = UintType{Bits: 256}
)

// IsDynamic returns true if the type has a variable-length encoding
// (bytes, string, slices, or fixed arrays of dynamic elements).
func IsDynamic(t Type) bool {
	switch v := t.(type) {
	case BytesType, StringType, SliceType:
		return true
	case ArrayType:
		return IsDynamic(v.Elem)
	default:
		return false
	}
}

// elementOf returns the element type of an array or slice, or nil.
func elementOf(t Type) Type {
	switch v := t.(type) {
	case ArrayType:
		return v.Elem
	case SliceType:
		return v.Elem
	default:
		return nil
	}
}

// validEVMWidth reports whether bits is a valid EVM integer width.
func validEVMWidth(bits int) bool {
	return bits > 0 && bits <= 256 && bits%8 == 0
}

// validInkWidth reports whether bits is a width of an ink! primitive integer.
func validInkWidth(bits int) bool {
	switch bits {
	case 8, 16, 32, 64, 128, 256:
		return true
	}
	return false
}
