package xvmgen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Mode is the translation direction of a generation run.
type Mode uint8

const (
	// EVMToInk reads a Solidity ABI and emits an ink! proxy module that
	// forwards calls through the XVM chain extension.
	EVMToInk Mode = iota + 1

	// InkToEVM reads ink! metadata and emits a Solidity proxy contract that
	// forwards calls through the XVM precompile.
	InkToEVM
)

// String returns the command line name of the mode.
func (m Mode) String() string {
	switch m {
	case EVMToInk:
		return "evm-to-ink"
	case InkToEVM:
		return "ink-to-evm"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses the command line name of a mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "evm-to-ink", "sol2ink":
		return EVMToInk, nil
	case "ink-to-evm", "ink2sol":
		return InkToEVM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Direction bundles everything that varies with the translation mode.
type Direction struct {
	Mode      Mode
	Mapper    TypeMapper
	Selectors SelectorCalculator

	// Template is the name of the module template rendered for this mode.
	Template string

	// RoutingID is the bridge routing identifier used when none is given.
	RoutingID byte

	parse func(doc []byte, log *zap.Logger) (*Contract, error)
}

// Parse runs the source metadata parser of the direction.
func (d *Direction) Parse(doc []byte, log *zap.Logger) (*Contract, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return d.parse(doc, log)
}

// Default bridge routing identifiers.
const (
	EVMRoutingID byte = 0x0F
	InkRoutingID byte = 0x1F
)

// Dispatch returns the direction for mode. The two directions are fixed
// configurations; nothing in a run switches between them.
func Dispatch(mode Mode) (*Direction, error) {
	switch mode {
	case EVMToInk:
		return &Direction{
			Mode:      EVMToInk,
			Mapper:    inkMapper{},
			Selectors: KeccakSelectors{},
			Template:  inkTemplate,
			RoutingID: EVMRoutingID,
			parse:     parseABI,
		}, nil
	case InkToEVM:
		return &Direction{
			Mode:      InkToEVM,
			Mapper:    solidityMapper{},
			Selectors: Blake2Selectors{},
			Template:  solidityTemplate,
			RoutingID: InkRoutingID,
			parse:     parseInkMetadata,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
}
