package xvmgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// inkMetadata covers the ink! metadata layouts: V3 nests spec and types
// under a "V3" key, V4 and later carry them at the top level next to a
// "version" field.
type inkMetadata struct {
	Contract struct {
		Name string `json:"name"`
	} `json:"contract"`
	Version json.RawMessage `json:"version"`
	V3      *inkProject     `json:"V3"`
	inkProject
}

type inkProject struct {
	Spec  *inkSpec          `json:"spec"`
	Types []inkRegistryType `json:"types"`
}

type inkSpec struct {
	Constructors []json.RawMessage `json:"constructors"`
	Messages     []inkMessage      `json:"messages"`
	Events       []json.RawMessage `json:"events"`
}

type inkMessage struct {
	Label      *string      `json:"label"`
	Selector   string       `json:"selector"`
	Args       []inkArg     `json:"args"`
	Mutates    *bool        `json:"mutates"`
	Payable    bool         `json:"payable"`
	ReturnType *inkTypeSpec `json:"returnType"`
	Docs       []string     `json:"docs"`
}

type inkArg struct {
	Label *string      `json:"label"`
	Type  *inkTypeSpec `json:"type"`
}

type inkTypeSpec struct {
	Type        *int     `json:"type"`
	DisplayName []string `json:"displayName"`
}

type inkRegistryType struct {
	ID   int `json:"id"`
	Type struct {
		Path []string   `json:"path"`
		Def  inkTypeDef `json:"def"`
	} `json:"type"`
}

type inkTypeDef struct {
	Primitive *string `json:"primitive"`
	Array     *struct {
		Len  int `json:"len"`
		Type int `json:"type"`
	} `json:"array"`
	Sequence *struct {
		Type int `json:"type"`
	} `json:"sequence"`
	Tuple     *[]int `json:"tuple"`
	Composite *struct {
		Fields []struct {
			Type int `json:"type"`
		} `json:"fields"`
	} `json:"composite"`
	Variant *struct {
		Variants []struct {
			Name   string `json:"name"`
			Fields []struct {
				Type int `json:"type"`
			} `json:"fields"`
		} `json:"variants"`
	} `json:"variant"`
	Compact     json.RawMessage `json:"compact"`
	BitSequence json.RawMessage `json:"bitsequence"`
}

// ParseInkMetadata parses ink! contract metadata into a Contract. Only
// messages that mutate state are kept.
func ParseInkMetadata(doc []byte) (*Contract, error) {
	return parseInkMetadata(doc, zap.NewNop())
}

func parseInkMetadata(doc []byte, log *zap.Logger) (*Contract, error) {
	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 {
		return nil, &DocumentError{Reason: "empty document"}
	}

	var meta inkMetadata
	if err := json.Unmarshal(doc, &meta); err != nil {
		return nil, &DocumentError{Reason: "invalid JSON", Err: err}
	}

	project, prefix, version := &meta.inkProject, "", strings.Trim(string(meta.Version), `"`)
	if meta.V3 != nil {
		project, prefix, version = meta.V3, "V3.", "3"
	}
	if project.Spec == nil {
		return nil, &DocumentError{Path: prefix + "spec", Reason: "contract spec is missing"}
	}

	registry, err := newInkRegistry(project.Types)
	if err != nil {
		return nil, err
	}

	contract := &Contract{Name: meta.Contract.Name}
	for i, msg := range project.Spec.Messages {
		path := fmt.Sprintf("%sspec.messages[%d]", prefix, i)
		if msg.Label == nil || *msg.Label == "" {
			return nil, &DocumentError{Path: path + ".label", Reason: "message label is missing"}
		}
		if msg.Mutates == nil {
			return nil, &DocumentError{Path: path + ".mutates", Reason: fmt.Sprintf("mutability of message %q is missing", *msg.Label)}
		}
		if !Accept(KindFunction, *msg.Mutates) {
			log.Debug("dropping read-only message", zap.String("label", *msg.Label))
			continue
		}

		fn, err := parseInkMessage(path, msg, registry)
		if err != nil {
			return nil, err
		}
		contract.Functions = append(contract.Functions, fn)
	}
	contract.assignOverloads()

	log.Debug("parsed ink! metadata",
		zap.String("contract", contract.Name),
		zap.String("version", version),
		zap.Int("messages", len(project.Spec.Messages)),
		zap.Int("events", len(project.Spec.Events)),
		zap.Int("functions", contract.Len()),
	)
	return contract, nil
}

func parseInkMessage(path string, msg inkMessage, registry *inkRegistry) (*Function, error) {
	name := *msg.Label
	fn := &Function{
		Name:    name,
		Inputs:  make([]Argument, 0, len(msg.Args)),
		Mutates: true,
		Payable: msg.Payable,
		Docs:    splitInkDocs(msg.Docs),
	}

	if msg.Selector != "" {
		sel, err := ParseSelector(msg.Selector)
		if err != nil {
			return nil, &DocumentError{Path: path + ".selector", Reason: "invalid selector", Err: err}
		}
		fn.declared = &sel
	}

	for j, arg := range msg.Args {
		argName := deref(arg.Label)
		if argName == "" {
			argName = fmt.Sprintf("arg%d", j)
		}
		if arg.Type == nil || arg.Type.Type == nil {
			return nil, &DocumentError{
				Path:   fmt.Sprintf("%s.args[%d].type", path, j),
				Reason: fmt.Sprintf("type of argument %d of message %q is missing", j, name),
			}
		}
		raw := registry.displayName(*arg.Type)
		t, err := registry.resolve(*arg.Type.Type)
		if err != nil {
			return nil, wrapInkTypeError(err, name, argName, j, raw)
		}
		fn.Inputs = append(fn.Inputs, Argument{Name: argName, Type: t, Raw: raw})
	}

	if msg.ReturnType != nil && msg.ReturnType.Type != nil {
		raw := registry.displayName(*msg.ReturnType)
		t, err := registry.resolveReturn(*msg.ReturnType.Type)
		if err != nil {
			return nil, wrapInkTypeError(err, name, "", -1, raw)
		}
		fn.Output = t
	}

	return fn, nil
}

// wrapInkTypeError attaches message context to type errors; structural
// registry errors are passed through unchanged.
func wrapInkTypeError(err error, fn, arg string, pos int, raw string) error {
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return err
	}
	return &TypeError{Function: fn, Argument: arg, Position: pos, Raw: raw, Err: err}
}

// splitInkDocs trims the leading space rustdoc leaves on every doc line.
func splitInkDocs(docs []string) []string {
	var out []string
	for _, d := range docs {
		out = append(out, splitDocLines(d)...)
	}
	return out
}

// inkRegistry resolves scale-info type ids into Types.
type inkRegistry struct {
	types    map[int]*inkRegistryType
	visiting map[int]bool
}

func newInkRegistry(types []inkRegistryType) (*inkRegistry, error) {
	r := &inkRegistry{
		types:    make(map[int]*inkRegistryType, len(types)),
		visiting: make(map[int]bool),
	}
	for i := range types {
		t := &types[i]
		if _, dup := r.types[t.ID]; dup {
			return nil, &DocumentError{Path: fmt.Sprintf("types[%d].id", i), Reason: fmt.Sprintf("duplicate type id %d", t.ID)}
		}
		r.types[t.ID] = t
	}
	return r, nil
}

func (r *inkRegistry) displayName(spec inkTypeSpec) string {
	if len(spec.DisplayName) > 0 {
		return strings.Join(spec.DisplayName, "::")
	}
	if spec.Type != nil {
		if t, ok := r.types[*spec.Type]; ok && len(t.Type.Path) > 0 {
			return strings.Join(t.Type.Path, "::")
		}
		return fmt.Sprintf("type #%d", *spec.Type)
	}
	return ""
}

func (r *inkRegistry) lookup(id int) (*inkRegistryType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, &DocumentError{Path: "types", Reason: fmt.Sprintf("type id %d is not defined", id)}
	}
	return t, nil
}

// resolve converts the registry entry id into a Type.
func (r *inkRegistry) resolve(id int) (Type, error) {
	if r.visiting[id] {
		return nil, &DocumentError{Path: "types", Reason: fmt.Sprintf("type id %d is recursive", id)}
	}
	r.visiting[id] = true
	defer delete(r.visiting, id)

	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	def := entry.Type.Def

	switch {
	case def.Primitive != nil:
		return inkPrimitive(*def.Primitive)

	case def.Array != nil:
		elem, err := r.resolve(def.Array.Type)
		if err != nil {
			return nil, err
		}
		if def.Array.Len <= 0 {
			return nil, unsupported("zero-length array")
		}
		if elem == (UintType{Bits: 8}) && def.Array.Len <= 32 {
			return FixedBytesType{Size: def.Array.Len}, nil
		}
		return ArrayType{Elem: elem, Len: def.Array.Len}, nil

	case def.Sequence != nil:
		elem, err := r.resolve(def.Sequence.Type)
		if err != nil {
			return nil, err
		}
		if elem == (UintType{Bits: 8}) {
			return BytesType{}, nil
		}
		return SliceType{Elem: elem}, nil

	case def.Composite != nil:
		return r.resolveNewtype(entry)

	case def.Tuple != nil:
		return nil, unsupported("tuple")
	case def.Variant != nil:
		return nil, unsupported("enum %s", strings.Join(entry.Type.Path, "::"))
	case len(def.Compact) > 0:
		return nil, unsupported("compact encoded integer")
	case len(def.BitSequence) > 0:
		return nil, unsupported("bit sequence")
	default:
		return nil, &DocumentError{Path: "types", Reason: fmt.Sprintf("type id %d has no definition", id)}
	}
}

// resolveNewtype recognizes the environment newtypes AccountId and Hash.
// Every other struct is unsupported.
func (r *inkRegistry) resolveNewtype(entry *inkRegistryType) (Type, error) {
	path := entry.Type.Path
	name := ""
	if len(path) > 0 {
		name = path[len(path)-1]
	}
	fields := entry.Type.Def.Composite.Fields
	if len(fields) != 1 || (name != "AccountId" && name != "Hash") {
		return nil, unsupported("struct %s", strings.Join(path, "::"))
	}

	inner, err := r.resolve(fields[0].Type)
	if err != nil {
		return nil, err
	}
	if inner != (FixedBytesType{Size: 32}) {
		return nil, unsupported("%s wrapping %s", name, inner)
	}
	if name == "AccountId" {
		return AddressType{Size: InkAddressSize}, nil
	}
	return inner, nil
}

// resolveReturn resolves a message return type. Result<T, E> wrappers
// (including the LangError wrapper added by ink! 4) are reduced to T, and
// the unit tuple means no return value.
func (r *inkRegistry) resolveReturn(id int) (Type, error) {
	if r.visiting[id] {
		return nil, &DocumentError{Path: "types", Reason: fmt.Sprintf("type id %d is recursive", id)}
	}
	r.visiting[id] = true
	defer delete(r.visiting, id)

	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	def := entry.Type.Def

	if def.Tuple != nil && len(*def.Tuple) == 0 {
		return nil, nil
	}
	if def.Variant != nil && len(entry.Type.Path) == 1 && entry.Type.Path[0] == "Result" {
		for _, v := range def.Variant.Variants {
			if v.Name == "Ok" && len(v.Fields) == 1 {
				return r.resolveReturn(v.Fields[0].Type)
			}
		}
	}
	delete(r.visiting, id)
	return r.resolve(id)
}

func inkPrimitive(name string) (Type, error) {
	switch name {
	case "bool":
		return BoolType{}, nil
	case "str":
		return StringType{}, nil
	}
	var (
		bits   int
		signed bool
	)
	switch {
	case strings.HasPrefix(name, "u"):
		w, err := parseWidth(name[1:])
		if err != nil {
			return nil, unsupported("primitive %q", name)
		}
		bits = w
	case strings.HasPrefix(name, "i"):
		w, err := parseWidth(name[1:])
		if err != nil {
			return nil, unsupported("primitive %q", name)
		}
		bits, signed = w, true
	default:
		return nil, unsupported("primitive %q", name)
	}
	if !validInkWidth(bits) {
		return nil, unsupported("primitive %q", name)
	}
	if signed {
		return IntType{Bits: bits}, nil
	}
	return UintType{Bits: bits}, nil
}

// InkTypeName returns the ink! (Rust) name of t as written in message
// signatures.
func InkTypeName(t Type) (string, error) {
	switch v := t.(type) {
	case BoolType:
		return "bool", nil
	case AddressType:
		switch v.Size {
		case InkAddressSize:
			return "AccountId", nil
		case EVMAddressSize:
			return "H160", nil
		}
		return "", fmt.Errorf("%w: %d-byte address has no ink! name", ErrUnmappedType, v.Size)
	case FixedBytesType:
		return fmt.Sprintf("[u8; %d]", v.Size), nil
	case BytesType:
		return "Vec<u8>", nil
	case StringType:
		return "String", nil
	case UintType:
		if !validInkWidth(v.Bits) {
			return "", fmt.Errorf("%w: uint%d has no ink! name", ErrUnmappedType, v.Bits)
		}
		return fmt.Sprintf("u%d", v.Bits), nil
	case IntType:
		if !validInkWidth(v.Bits) {
			return "", fmt.Errorf("%w: int%d has no ink! name", ErrUnmappedType, v.Bits)
		}
		return fmt.Sprintf("i%d", v.Bits), nil
	case ArrayType:
		elem, err := InkTypeName(v.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%s; %d]", elem, v.Len), nil
	case SliceType:
		elem, err := InkTypeName(v.Elem)
		if err != nil {
			return "", err
		}
		return "Vec<" + elem + ">", nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnmappedType, t)
	}
}
