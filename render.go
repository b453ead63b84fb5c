package xvmgen

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names.
const (
	inkTemplate      = "ink_module"
	solidityTemplate = "solidity_module"
)

// tmplData is the data structure required to fill a module template.
type tmplData struct {
	Module    string          // Module or contract name of the generated proxy
	Source    string          // Name of the proxied contract, may be empty
	RoutingID byte            // Bridge routing identifier
	Functions []*tmplFunction // Entry points in document order
	Types     []Type          // Input types needing an encoder, first use order
	Compact   bool            // Whether the compact length helper is needed
}

// tmplFunction holds the data of one generated entry point.
type tmplFunction struct {
	Name        string // Entry point name in the target language
	Const       string // Prefix of the selector constant
	Signature   string // Canonical signature of the proxied function
	Selector    Selector
	Inputs      []tmplArg
	Output      Type // nil when nothing is returned
	HasOutput   bool
	ReturnsBool bool
	Payable     bool
	Docs        []string
}

type tmplArg struct {
	Name string
	Type Type
}

// renderer expands the module template of one direction.
type renderer struct {
	name string
	tmpl *template.Template
}

// newRenderer parses the named template with the functions of mapper. The
// mapper lookups may fail; a failing function aborts execution and surfaces
// as a RenderError.
func newRenderer(name string, mapper TypeMapper) (*renderer, error) {
	src, err := templateFS.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}

	funcs := template.FuncMap{
		"ref": mapper.Reference,
		"param": func(t Type) (string, error) {
			ref, err := mapper.Reference(t)
			if err != nil {
				return "", err
			}
			if mod := mapper.Modifier(t); mod != "" {
				ref += " " + mod
			}
			return ref, nil
		},
		"ret":           mapper.Return,
		"encoderName":   mapper.EncoderName,
		"encoder":       mapper.Encoder,
		"compactHelper": func() string { return compactLengthSource },
		"indent":        indent,
		"snake":         snakeCase,
		"camel":         camelCase,
		"pascal":        pascalCase,
		"hexByte":       func(b byte) string { return fmt.Sprintf("%02x", b) },
	}
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}
	return &renderer{name: name, tmpl: tmpl}, nil
}

// render executes the template into a buffer; nothing is returned on
// failure.
func (r *renderer) render(data *tmplData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", &RenderError{Template: r.name, Err: err}
	}
	return buf.String(), nil
}

// indent prefixes every line of s but the first with n spaces. Blank lines
// are left empty.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// Identifiers fixed by the module templates.
var (
	inkReservedFunctions = []string{"new", "env", "_"}
	inkReservedConstants = []string{"EVM_ID"}
	inkReservedArguments = []string{"_", "xvm_input"}

	solidityReserved = []string{
		"XVM", "XVM_PRECOMPILE", "XVM_CONTEXT", "inkTarget", compactHelper, "_",
	}
	solidityLocals = []string{"xvmInput", "xvmSuccess"}
)

// newTmplData builds the template data of a contract whose selectors have
// been computed. Generated names are normalized per target language and
// must stay unique in their scope: function names and selector constants
// per contract, argument names per function.
func newTmplData(d *Direction, module string, routingID byte, contract *Contract, entries []selectorEntry) (*tmplData, error) {
	data := &tmplData{
		Module:    module,
		Source:    contract.Name,
		RoutingID: routingID,
		Functions: make([]*tmplFunction, 0, len(entries)),
		Types:     usedTypes(contract),
	}
	data.Compact = d.Mode == InkToEVM && needsCompact(data.Types)

	// Encoder functions live next to the generated entry points.
	var encoders []string
	for _, t := range data.Types {
		if name, err := d.Mapper.EncoderName(t); err == nil {
			encoders = append(encoders, name)
		}
	}

	var (
		functions, constants *namespace
		argReserved          []string
		ident                func(string) string
	)
	switch d.Mode {
	case EVMToInk:
		functions = newNamespace("", inkReservedFunctions...)
		constants = newNamespace("", inkReservedConstants...)
		argReserved = append(append(argReserved, inkReservedArguments...), encoders...)
		ident = rustIdent
	default:
		// Solidity functions, constants and state share one namespace.
		reserved := append(append([]string{pascalCase(module)}, solidityReserved...), encoders...)
		functions = newNamespace("", reserved...)
		constants = functions
		argReserved = append(append(argReserved, reserved...), solidityLocals...)
		ident = solidityIdent
	}

	for _, entry := range entries {
		fn := entry.fn
		f := &tmplFunction{
			Signature:   entry.signature,
			Selector:    entry.selector,
			Inputs:      make([]tmplArg, len(fn.Inputs)),
			Output:      fn.Output,
			HasOutput:   fn.HasOutput(),
			ReturnsBool: fn.Output == Bool,
			Payable:     fn.Payable,
			Docs:        fn.Docs,
		}
		base := fn.Name
		if fn.Overloaded {
			base = fmt.Sprintf("%s_%d", fn.Name, fn.Index)
		}
		f.Name = ident(base)
		f.Const = upperSnakeCase(base)
		if err := functions.claim("function", f.Name, base); err != nil {
			return nil, err
		}
		if err := constants.claim("constant", f.Const+"_SELECTOR", base); err != nil {
			return nil, err
		}
		data.Functions = append(data.Functions, f)
	}

	// Arguments may not shadow anything a proxy body refers to, including
	// the selector constants of every function.
	if d.Mode == InkToEVM {
		for _, f := range data.Functions {
			argReserved = append(argReserved, f.Const+"_SELECTOR")
		}
	}
	for i, f := range data.Functions {
		args := newNamespace(entries[i].fn.Name, argReserved...)
		for j, in := range entries[i].fn.Inputs {
			name := ident(in.Name)
			if err := args.claim("argument", name, in.Name); err != nil {
				return nil, err
			}
			f.Inputs[j] = tmplArg{Name: name, Type: in.Type}
		}
	}
	return data, nil
}
