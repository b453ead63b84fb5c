package xvmgen

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Option configures a Generator.
type Option func(*config)

// config holds the plain values the pipeline consumes.
type config struct {
	moduleName string
	routingID  *byte
	log        *zap.Logger
}

// defaultConfig returns the default generator configuration: module name
// taken from the document, routing id of the mode, no logging.
func defaultConfig() *config {
	return &config{
		log: zap.NewNop(),
	}
}

// WithModuleName sets the name of the generated module or contract.
// An empty name falls back to the contract name found in the document.
func WithModuleName(name string) Option {
	return func(c *config) {
		c.moduleName = strings.TrimSpace(name)
	}
}

// WithRoutingID sets the bridge routing identifier passed on every call.
// Default is 0x0F for EVMToInk and 0x1F for InkToEVM.
func WithRoutingID(id byte) Option {
	return func(c *config) {
		c.routingID = &id
	}
}

// WithLogger sets the logger used for debug output. A nil logger disables
// logging.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log == nil {
			log = zap.NewNop()
		}
		c.log = log
	}
}

// ParseRoutingID parses a routing identifier in decimal, 0x hex, 0o octal
// or 0b binary notation. The value must fit in one byte.
func ParseRoutingID(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}
