package xvmgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// abiEntry is one element of a Solidity JSON ABI.
type abiEntry struct {
	Type            string     `json:"type"`
	Name            *string    `json:"name"`
	Inputs          []abiParam `json:"inputs"`
	Outputs         []abiParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
	Payable         bool       `json:"payable"`
	Constant        bool       `json:"constant"`
}

type abiParam struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

type natspec struct {
	Methods map[string]struct {
		Notice  string `json:"notice"`
		Details string `json:"details"`
	} `json:"methods"`
}

// abiDocument is the union of the accepted container formats: a Foundry or
// Hardhat artifact ({"abi": [...]}) and solc metadata ({"output": {...}}).
type abiDocument struct {
	ABI          json.RawMessage `json:"abi"`
	ContractName string          `json:"contractName"`
	Output       *struct {
		ABI     json.RawMessage `json:"abi"`
		UserDoc natspec         `json:"userdoc"`
		DevDoc  natspec         `json:"devdoc"`
	} `json:"output"`
	Settings *struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// ParseABI parses a Solidity JSON ABI (or an artifact/metadata document
// embedding one) into a Contract. Only state mutating functions are kept.
func ParseABI(doc []byte) (*Contract, error) {
	return parseABI(doc, zap.NewNop())
}

func parseABI(doc []byte, log *zap.Logger) (*Contract, error) {
	raw, name, userdoc, devdoc, err := unwrapABIDocument(doc)
	if err != nil {
		return nil, err
	}

	var entries []abiEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DocumentError{Path: "abi", Reason: "expected an array of ABI entries", Err: err}
	}

	contract := &Contract{Name: name}
	for i, entry := range entries {
		kind := evmEntryKind(entry.Type)
		mutates := evmMutates(entry.StateMutability, entry.Constant)
		if !Accept(kind, mutates) {
			log.Debug("dropping ABI entry",
				zap.Int("index", i),
				zap.String("type", entry.Type),
				zap.String("name", deref(entry.Name)),
				zap.String("stateMutability", entry.StateMutability),
			)
			continue
		}

		fn, err := parseABIFunction(i, entry)
		if err != nil {
			return nil, err
		}
		fn.Docs = natspecLines(fn, userdoc, devdoc)
		contract.Functions = append(contract.Functions, fn)
	}
	contract.assignOverloads()

	log.Debug("parsed ABI",
		zap.String("contract", contract.Name),
		zap.Int("entries", len(entries)),
		zap.Int("functions", contract.Len()),
	)
	return contract, nil
}

// unwrapABIDocument locates the ABI array inside the accepted container
// formats and extracts the contract name and NatSpec, when available.
func unwrapABIDocument(doc []byte) (json.RawMessage, string, natspec, natspec, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return nil, "", natspec{}, natspec{}, &DocumentError{Reason: "empty document"}
	}
	if trimmed[0] == '[' {
		return trimmed, "", natspec{}, natspec{}, nil
	}

	var wrapper abiDocument
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, "", natspec{}, natspec{}, &DocumentError{Reason: "invalid JSON", Err: err}
	}

	switch {
	case wrapper.Output != nil && len(wrapper.Output.ABI) > 0:
		name := ""
		if wrapper.Settings != nil {
			// compilationTarget holds a single source -> contract entry.
			keys := make([]string, 0, len(wrapper.Settings.CompilationTarget))
			for k := range wrapper.Settings.CompilationTarget {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 0 {
				name = wrapper.Settings.CompilationTarget[keys[0]]
			}
		}
		return wrapper.Output.ABI, name, wrapper.Output.UserDoc, wrapper.Output.DevDoc, nil
	case len(wrapper.ABI) > 0:
		return wrapper.ABI, wrapper.ContractName, natspec{}, natspec{}, nil
	default:
		return nil, "", natspec{}, natspec{}, &DocumentError{Reason: `no "abi" array found`}
	}
}

func parseABIFunction(index int, entry abiEntry) (*Function, error) {
	if entry.Name == nil || *entry.Name == "" {
		return nil, &DocumentError{Path: fmt.Sprintf("[%d].name", index), Reason: "function name is missing"}
	}
	name := *entry.Name

	fn := &Function{
		Name:    name,
		Inputs:  make([]Argument, 0, len(entry.Inputs)),
		Mutates: true,
		Payable: strings.EqualFold(entry.StateMutability, "payable") || entry.Payable,
	}

	for j, input := range entry.Inputs {
		if input.Type == nil {
			return nil, &DocumentError{
				Path:   fmt.Sprintf("[%d].inputs[%d].type", index, j),
				Reason: fmt.Sprintf("type of input parameter %d of function %q is missing", j, name),
			}
		}
		argName := deref(input.Name)
		if argName == "" {
			argName = fmt.Sprintf("arg%d", j)
		}
		t, err := ParseEVMType(*input.Type)
		if err != nil {
			return nil, &TypeError{Function: name, Argument: argName, Position: j, Raw: *input.Type, Err: err}
		}
		fn.Inputs = append(fn.Inputs, Argument{Name: argName, Type: t, Raw: *input.Type})
	}

	switch len(entry.Outputs) {
	case 0:
	case 1:
		out := entry.Outputs[0]
		if out.Type == nil {
			return nil, &DocumentError{
				Path:   fmt.Sprintf("[%d].outputs[0].type", index),
				Reason: fmt.Sprintf("type of output of function %q is missing", name),
			}
		}
		t, err := ParseEVMType(*out.Type)
		if err != nil {
			return nil, &TypeError{Function: name, Position: -1, Raw: *out.Type, Err: err}
		}
		fn.Output = t
	default:
		raw := make([]string, len(entry.Outputs))
		for j, out := range entry.Outputs {
			raw[j] = deref(out.Type)
		}
		return nil, &TypeError{
			Function: name,
			Position: -1,
			Raw:      "(" + strings.Join(raw, ",") + ")",
			Err:      unsupported("multi-value return"),
		}
	}

	return fn, nil
}

func evmEntryKind(typ string) EntryKind {
	switch typ {
	case "", "function":
		return KindFunction
	case "event":
		return KindEvent
	default:
		return KindOther
	}
}

// natspecLines collects the user and developer documentation of fn. NatSpec
// keys methods by canonical signature.
func natspecLines(fn *Function, userdoc, devdoc natspec) []string {
	if len(userdoc.Methods) == 0 && len(devdoc.Methods) == 0 {
		return nil
	}
	sig, err := evmSignature(fn)
	if err != nil {
		return nil
	}
	var lines []string
	if m, ok := userdoc.Methods[sig]; ok && m.Notice != "" {
		lines = append(lines, splitDocLines(m.Notice)...)
	}
	if m, ok := devdoc.Methods[sig]; ok && m.Details != "" {
		lines = append(lines, splitDocLines(m.Details)...)
	}
	return lines
}

func splitDocLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
