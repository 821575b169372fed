package main

import (
	"os"

	"github.com/dhamidi/devtext/config"
	"github.com/dhamidi/devtext/dispatch"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// settings holds the merged configuration once the root command's
// PersistentPreRunE has run.
type settings struct {
	configPath string
	verbosity  int
	timeout    string
	isolation  string
	indent     string

	cfg config.Config
}

func (s *settings) load(cmd *cobra.Command) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbosity = s.verbosity
	}
	if flags.Changed("timeout") {
		d, err := parseDuration(s.timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if flags.Changed("isolation") {
		cfg.Isolation = s.isolation
	}
	if flags.Changed("indent") {
		cfg.IndentUnit = s.indent
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfg = cfg
	commonlog.Configure(cfg.Verbosity, nil)
	return nil
}

func (s *settings) dispatcher() *dispatch.Dispatcher {
	var spawner dispatch.Spawner = dispatch.GoroutineSpawner{}
	if s.cfg.Isolation == config.IsolationProcess {
		spawner = dispatch.WorkerProcess()
	}
	return dispatch.New(
		dispatch.WithTimeout(s.cfg.Timeout),
		dispatch.WithSpawner(spawner),
	)
}

func main() {
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:          "devtext",
		Short:        "Minify, beautify and validate code, markup and JSON",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&s.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")
	flags.CountVarP(&s.verbosity, "verbose", "v", "increase log verbosity")
	flags.StringVar(&s.timeout, "timeout", "", "task timeout, e.g. 5s (default 30s)")
	flags.StringVar(&s.isolation, "isolation", "", "worker isolation: goroutine or process")
	flags.StringVar(&s.indent, "indent", "", "indentation unit for beautify")

	rootCmd.AddCommand(newMinifyCmd(s))
	rootCmd.AddCommand(newBeautifyCmd(s))
	rootCmd.AddCommand(newValidateCmd(s))
	rootCmd.AddCommand(newJSONCmd(s))
	rootCmd.AddCommand(newSegmentsCmd())
	rootCmd.AddCommand(newUICmd(s))
	rootCmd.AddCommand(newLSPCmd(s))
	rootCmd.AddCommand(newWorkerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
