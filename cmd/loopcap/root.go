package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/loopcap/internal/config"
	"github.com/danielpatrickdp/loopcap/internal/logging"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	out io.Writer
	err io.Writer

	configPath string
	logLevel   string
	logJSON    bool

	cfg config.Config
	log *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, err: errOut}

	root := &cobra.Command{
		Use:   "loopcap",
		Short: "Classify LOOP/CAP motion sequences and validate the classifier",
		Long: `loopcap detects whether a two-hand motion sequence is generated from its
first half (or quarter) by rotation, mirroring, flipping, hand swaps, or motion
inversion, and checks the classifier against hand-labeled corpora.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "debug | info | warn | error (overrides config)")
	pf.BoolVar(&a.logJSON, "log-json", false, "log JSON lines")

	root.AddCommand(
		newClassifyCmd(a),
		newValidateCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newRunsCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return usageError("%v", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = a.logJSON
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return usageError("%v", err)
	}
	a.cfg = cfg
	a.log = logging.New(logging.Config{
		Level:   cfg.LogLevel,
		JSON:    cfg.LogJSON,
		Writer:  a.err,
		Service: "loopcap",
	})
	return nil
}

// dbPath prefers an explicit --db flag over the configured path.
func (a *app) dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.DBPath
}
