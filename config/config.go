// Package config loads devtext settings from defaults, an optional HCL file
// and DEVTEXT_* environment variables, in that order of precedence.
//
// A config file looks like this:
//
//	indent    = "    "
//	timeout   = "10s"
//	isolation = "process"
//	verbosity = 1
//
//	ui {
//	  addr = "localhost:${env.DEVTEXT_PORT}"
//	}
//
// Every environment variable is visible to expressions as env.NAME.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFile is read when no path is given and it exists in the working
// directory.
const DefaultFile = "devtext.hcl"

const (
	IsolationGoroutine = "goroutine"
	IsolationProcess   = "process"
)

type Config struct {
	IndentUnit string
	Timeout    time.Duration
	Isolation  string
	Addr       string
	Verbosity  int
}

func Default() Config {
	return Config{
		IndentUnit: "  ",
		Timeout:    30 * time.Second,
		Isolation:  IsolationGoroutine,
		Addr:       "localhost:8080",
		Verbosity:  0,
	}
}

// fileConfig mirrors the HCL schema. Unset attributes keep their defaults.
type fileConfig struct {
	Indent    *string   `hcl:"indent,optional"`
	Timeout   *string   `hcl:"timeout,optional"`
	Isolation *string   `hcl:"isolation,optional"`
	Verbosity *int      `hcl:"verbosity,optional"`
	UI        *uiConfig `hcl:"ui,block"`
}

type uiConfig struct {
	Addr *string `hcl:"addr,optional"`
}

// Load builds a Config. An empty path falls back to DefaultFile, which may
// be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	src, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, src); err != nil {
			return cfg, err
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes HCL source on top of the defaults without consulting the
// environment overrides.
func Parse(filename string, src []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode(filename, src); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(filename string, src []byte) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, evalContext(), &fc)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}

	if fc.Indent != nil {
		c.IndentUnit = *fc.Indent
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("%s: timeout: %w", filename, err)
		}
		c.Timeout = d
	}
	if fc.Isolation != nil {
		c.Isolation = *fc.Isolation
	}
	if fc.Verbosity != nil {
		c.Verbosity = *fc.Verbosity
	}
	if fc.UI != nil && fc.UI.Addr != nil {
		c.Addr = *fc.UI.Addr
	}
	return nil
}

func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(value)
	}
	vars := map[string]cty.Value{
		"env": cty.EmptyObjectVal,
	}
	if len(env) > 0 {
		vars["env"] = cty.ObjectVal(env)
	}
	return &hcl.EvalContext{Variables: vars}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DEVTEXT_INDENT"); ok {
		c.IndentUnit = v
	}
	if v, ok := lookup("DEVTEXT_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEVTEXT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v, ok := lookup("DEVTEXT_ISOLATION"); ok && v != "" {
		c.Isolation = v
	}
	if v, ok := lookup("DEVTEXT_ADDR"); ok && v != "" {
		c.Addr = v
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	switch c.Isolation {
	case IsolationGoroutine, IsolationProcess:
	default:
		errs = append(errs, fmt.Errorf("unknown isolation mode %q (want %q or %q)",
			c.Isolation, IsolationGoroutine, IsolationProcess))
	}
	if strings.Trim(c.IndentUnit, " \t") != "" {
		errs = append(errs, fmt.Errorf("indent must contain only spaces and tabs, got %q", c.IndentUnit))
	}
	if c.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("verbosity must not be negative"))
	}
	return errors.Join(errs...)
}
