// Package xvmgen generates cross-VM proxy contracts for the XVM bridge.
//
// A proxy is a thin contract living in one virtual machine that forwards
// calls to a contract living in the other. The package reads the interface
// metadata of the proxied contract and emits the source of the proxy:
//
//   - EVMToInk reads a Solidity JSON ABI and emits an ink! module calling
//     the XVM chain extension. Arguments are Ethereum ABI encoded.
//   - InkToEVM reads ink! metadata and emits a Solidity contract calling
//     the XVM precompile. Arguments are SCALE encoded.
//
// # Basic Usage
//
//	gen, err := xvmgen.New(xvmgen.EVMToInk, xvmgen.WithModuleName("erc20_proxy"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := gen.Generate(abiJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(out.Source)
//
// # Pipeline
//
// Generation runs as one pass: the source metadata is parsed into a
// Contract, every type reachable from it is checked against the TypeMapper
// of the mode, selectors are computed and checked for collisions, and the
// module template is expanded. Any failure aborts the run and no source is
// returned.
//
// Only functions that mutate state become proxy entry points. Events,
// view and pure functions are dropped (see Accept). Return types are
// declared but never decoded: a bool return reports whether the bridge
// call succeeded, other types return their default value.
//
// # Errors
//
// Failures wrap one of the sentinel errors (ErrMalformedDocument,
// ErrUnsupportedType, ErrUnmappedType, ErrDuplicateSelector,
// ErrDuplicateIdentifier, ErrRender) and can be inspected with errors.Is.
// DocumentError, TypeError, DuplicateSelectorError and IdentifierError carry
// the location of the problem in the input.
package xvmgen
