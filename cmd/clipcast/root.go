package main

import (
	"fmt"
	"strings"

	"clipcast/cmd/clipcast/cli"
	"clipcast/internal/clipboard"
	"clipcast/internal/config"
	"clipcast/internal/log"
	"clipcast/internal/qr"
	"clipcast/internal/tui/styles"
	"clipcast/pkg/workflow"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// env is the state shared by every subcommand of one invocation
type env struct {
	cfgFile  string
	debug    bool
	endpoint string

	cfg      *config.Config
	cfgPath  string
	logLevel string
	theme    styles.Theme

	// extra controller options, used by tests to stub collaborators
	opts []workflow.Option
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd()
}

func newRootCmd(opts ...workflow.Option) *cobra.Command {
	e := &env{opts: opts}

	rootCmd := &cobra.Command{
		Use:     "clipcast",
		Short:   "Turn text or files into a QR code",
		Long:    "ClipCast encodes text directly, or uploads files to a temporary\nfile host and encodes the download link.",
		Version: version,
		// Errors are printed by main
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := e.loadConfig(cmd); err != nil {
				return err
			}
			e.configureLogging(cmd)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&e.cfgFile, "config", "", "config file (default is $HOME/.config/clipcast/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&e.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&e.endpoint, "endpoint", "", "upload service URL (overrides config)")

	helpTemplate := cli.DrawLogo(styles.Default) + "\n\n" + rootCmd.UsageTemplate()
	rootCmd.SetUsageTemplate(helpTemplate)

	rootCmd.AddCommand(newTextCmd(e))
	rootCmd.AddCommand(newFileCmd(e))
	rootCmd.AddCommand(newTUICmd(e))
	rootCmd.AddCommand(newGUICmd(e))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the YAML file, then overlays CLIPCAST_* environment
// variables and flags through viper
func (e *env) loadConfig(cmd *cobra.Command) error {
	var err error
	if e.cfgFile != "" {
		e.cfgPath = e.cfgFile
	} else if e.cfgPath, err = config.DefaultPath(); err != nil {
		log.LogWithError(err).Warn("no home directory; using defaults")
		e.cfgPath = ""
	}

	if e.cfgPath != "" {
		e.cfg, err = config.LoadConfigFile(e.cfgPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", e.cfgPath, err)
		}
	} else {
		e.cfg = config.New()
	}

	v := viper.New()
	v.SetEnvPrefix("CLIPCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("upload.endpoint", e.cfg.Upload.Endpoint)
	v.SetDefault("upload.timeout", e.cfg.Upload.TimeoutSeconds)
	v.SetDefault("upload.max_bytes", e.cfg.Upload.MaxBytes)
	v.SetDefault("log.debug", e.cfg.Log.Debug)
	v.SetDefault("log.json", e.cfg.Log.JSON)
	v.SetDefault("log.level", "")
	v.SetDefault("theme", e.cfg.Theme.Name)

	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("upload.endpoint", flags.Lookup("endpoint")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.debug", flags.Lookup("debug")); err != nil {
		return err
	}

	e.cfg.Upload.Endpoint = v.GetString("upload.endpoint")
	e.cfg.Upload.TimeoutSeconds = v.GetInt("upload.timeout")
	e.cfg.Upload.MaxBytes = v.GetInt64("upload.max_bytes")
	e.cfg.Log.Debug = v.GetBool("log.debug")
	e.cfg.Log.JSON = v.GetBool("log.json")
	if name := v.GetString("theme"); name != e.cfg.Theme.Name {
		e.cfg.ApplyTheme(name)
	}
	if level := v.GetString("log.level"); level != "" {
		e.logLevel = level
	}

	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	e.theme = styles.FromConfig(e.cfg)
	return nil
}

// configureLogging keeps one-shot commands quiet on stderr unless asked;
// the interactive front ends log to the configured file only.
func (e *env) configureLogging(cmd *cobra.Command) {
	var opts []log.Option
	level := "warn"
	switch {
	case e.logLevel != "":
		level = e.logLevel
	case e.cfg.Log.Debug:
		level = "debug"
	}
	opts = append(opts, log.WithLevel(level))
	log.SetDebug(level == "debug")

	if e.cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if interactive(cmd) {
		if e.cfg.Log.File != "" {
			opts = append(opts, log.WithFileOnly(e.cfg.Log.File))
		} else {
			opts = append(opts, log.WithDiscard())
		}
	} else {
		opts = append(opts, log.WithOutput(cmd.ErrOrStderr()))
	}
	log.Configure(opts...)
}

func interactive(cmd *cobra.Command) bool {
	return cmd.Name() == "tui" || cmd.Name() == "gui"
}

// controller builds a controller from the loaded config, reading the
// system clipboard
func (e *env) controller() *workflow.Controller {
	opts := append([]workflow.Option{workflow.WithClipboard(clipboard.NewSystem())}, e.opts...)
	return workflow.NewFromConfig(e.cfg, opts...)
}

// renderer returns the configured QR renderer
func (e *env) renderer() *qr.Renderer {
	r, err := qr.NewFromConfig(e.cfg)
	if err != nil {
		// Colours were validated with the config
		return qr.New()
	}
	return r
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clipcast version %s\n", version)
		},
	}
}
