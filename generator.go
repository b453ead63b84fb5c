package xvmgen

import (
	"go.uber.org/zap"
)

// Output is the result of a successful generation run.
type Output struct {
	// Source is the generated proxy module.
	Source string

	// Contract is the parsed description the module was generated from.
	Contract *Contract
}

// Generator runs the translation pipeline of one mode. It holds no state
// between runs and is safe for concurrent use.
type Generator struct {
	dir      *Direction
	renderer *renderer
	cfg      *config
}

// New creates a generator for mode.
func New(mode Mode, opts ...Option) (*Generator, error) {
	dir, err := Dispatch(mode)
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	r, err := newRenderer(dir.Template, dir.Mapper)
	if err != nil {
		return nil, err
	}
	return &Generator{dir: dir, renderer: r, cfg: cfg}, nil
}

// Mode returns the translation mode of the generator.
func (g *Generator) Mode() Mode {
	return g.dir.Mode
}

// Generate translates a metadata document into proxy source text. The
// pipeline is all-or-nothing: any failure returns a nil Output.
func (g *Generator) Generate(doc []byte) (*Output, error) {
	log := g.cfg.log.With(zap.Stringer("mode", g.dir.Mode))

	contract, err := g.dir.Parse(doc, log)
	if err != nil {
		return nil, err
	}

	module := g.cfg.moduleName
	if module == "" {
		module = contract.Name
	}
	if module == "" {
		return nil, ErrMissingModuleName
	}

	if err := checkMapped(g.dir.Mapper, contract); err != nil {
		return nil, err
	}

	entries, err := computeSelectors(g.dir.Selectors, contract)
	if err != nil {
		return nil, err
	}

	routingID := g.dir.RoutingID
	if g.cfg.routingID != nil {
		routingID = *g.cfg.routingID
	}

	data, err := newTmplData(g.dir, module, routingID, contract, entries)
	if err != nil {
		return nil, err
	}
	source, err := g.renderer.render(data)
	if err != nil {
		return nil, err
	}

	log.Debug("generated proxy",
		zap.String("module", module),
		zap.Int("functions", len(data.Functions)),
		zap.Int("encoders", len(data.Types)),
		zap.Int("bytes", len(source)),
	)
	return &Output{Source: source, Contract: contract}, nil
}

// Generate is a shorthand for New followed by Generator.Generate.
func Generate(mode Mode, doc []byte, opts ...Option) (*Output, error) {
	g, err := New(mode, opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(doc)
}
