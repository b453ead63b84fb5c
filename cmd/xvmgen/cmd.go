package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/branched-services/go-xvmgen"
)

const cliVersion = "0.1.0"

const (
	inputKey      = "input"
	outputKey     = "output"
	moduleNameKey = "module-name"
	evmIDKey      = "evm-id"
	modeKey       = "mode"
	logLevelKey   = "log-level"
	configKey     = "config"

	envPrefix = "XVMGEN"
	stdStream = "-"
)

// config is the resolved configuration of one invocation.
type config struct {
	Input      string
	Output     string
	ModuleName string
	RoutingID  *byte
	Mode       xvmgen.Mode
	LogLevel   zapcore.Level
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	c := &cobra.Command{
		Use:   "xvmgen",
		Short: "Generates XVM proxy contracts from Solidity ABIs and ink! metadata",
		Long: `xvmgen reads the interface metadata of a contract and writes the source of a
proxy contract for the other virtual machine:

  evm-to-ink  Solidity JSON ABI -> ink! module calling the XVM chain extension
  ink-to-evm  ink! metadata     -> Solidity contract calling the XVM precompile`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PreRunE: func(c *cobra.Command, _ []string) error {
			return loadViper(v, c.Flags())
		},
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := parseConfig(v)
			if err != nil {
				return err
			}
			return run(cfg, c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
		},
	}
	addFlags(c.Flags())

	c.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version details",
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), cliVersion)
			return nil
		},
	})
	return c
}

func addFlags(flags *pflag.FlagSet) {
	flags.StringP(inputKey, "i", stdStream, "Metadata file to read, - for stdin")
	flags.StringP(outputKey, "o", stdStream, "File to write the generated module to, - for stdout")
	flags.StringP(moduleNameKey, "m", "", "Name of the generated module (defaults to the contract name in the metadata)")
	flags.StringP(evmIDKey, "e", "", "Bridge routing identifier, e.g. 0x0F (defaults to the mode's identifier)")
	flags.String(modeKey, xvmgen.EVMToInk.String(), "Translation mode: evm-to-ink or ink-to-evm")
	flags.String(logLevelKey, "warn", "Log level: debug, info, warn, error")
	flags.String(configKey, "", "Optional config file providing flag values")
}

// loadViper binds the flags into v. Values resolve from flags, then XVMGEN_*
// environment variables, then the config file.
func loadViper(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(configKey); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("couldn't read config file %q: %w", path, err)
		}
	}
	return nil
}

func parseConfig(v *viper.Viper) (*config, error) {
	mode, err := xvmgen.ParseMode(v.GetString(modeKey))
	if err != nil {
		return nil, err
	}
	level, err := zapcore.ParseLevel(v.GetString(logLevelKey))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", logLevelKey, err)
	}
	cfg := &config{
		Input:      v.GetString(inputKey),
		Output:     v.GetString(outputKey),
		ModuleName: v.GetString(moduleNameKey),
		Mode:       mode,
		LogLevel:   level,
	}
	if raw := v.GetString(evmIDKey); raw != "" {
		id, err := xvmgen.ParseRoutingID(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", evmIDKey, raw, err)
		}
		cfg.RoutingID = &id
	}
	return cfg, nil
}

// newLogger builds a production style JSON logger writing to w.
func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// run reads the metadata, generates the module and writes it. The output
// file is only touched after a successful generation.
func run(cfg *config, stdin io.Reader, stdout, stderr io.Writer) error {
	log := newLogger(stderr, cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	doc, err := readInput(cfg.Input, stdin)
	if err != nil {
		return err
	}

	opts := []xvmgen.Option{
		xvmgen.WithModuleName(cfg.ModuleName),
		xvmgen.WithLogger(log),
	}
	if cfg.RoutingID != nil {
		opts = append(opts, xvmgen.WithRoutingID(*cfg.RoutingID))
	}

	gen, err := xvmgen.New(cfg.Mode, opts...)
	if err != nil {
		return err
	}
	out, err := gen.Generate(doc)
	if err != nil {
		log.Error("generation failed",
			zap.Stringer("mode", cfg.Mode),
			zap.String("input", cfg.Input),
			zap.Error(err),
		)
		if errors.Is(err, xvmgen.ErrMissingModuleName) {
			return fmt.Errorf("%w: pass --%s", err, moduleNameKey)
		}
		return err
	}

	if cfg.Output == stdStream || cfg.Output == "" {
		_, err = io.WriteString(stdout, out.Source)
		return err
	}
	if err := os.WriteFile(cfg.Output, []byte(out.Source), 0o644); err != nil {
		return fmt.Errorf("couldn't write %q: %w", cfg.Output, err)
	}
	log.Info("wrote proxy module",
		zap.String("output", cfg.Output),
		zap.Int("functions", out.Contract.Len()),
	)
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdStream || path == "" {
		return io.ReadAll(stdin)
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read %q: %w", path, err)
	}
	return doc, nil
}
