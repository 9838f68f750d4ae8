package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/provide-io/playground/go/sandbox/pkg/logging"
	"github.com/provide-io/playground/go/sandbox/pkg/sandbox"
)

const version = "0.1.0"

var (
	manifestPath string
	useEnv       bool
	logLevel     string
	deviceFlag   string
	noColor      bool
	rootCmd      *cobra.Command
	versionFlag  bool
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "sandbox-inspect",
		Short: "Inspect an Android layout sandbox",
		Long: `Load the resources, libraries and symbols of an Android project the way a
rendering session sees them, and query them from the command line.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion()
				return nil
			}
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&manifestPath, "manifest", "m", "", "Path to a sandbox manifest (JSON)")
	flags.BoolVar(&useEnv, "env", false, "Overlay the SANDBOX_* environment on the configuration")
	flags.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVarP(&deviceFlag, "device", "d", "", "Device qualifiers used to pick variants, e.g. fr-land-xhdpi")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(
		newConfigCmd(),
		newResourcesCmd(),
		newReplayCmd(),
		newIDCmd(),
		newLibrariesCmd(),
	)
}

func printVersion() {
	fmt.Printf("sandbox-inspect %s\n", version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func newLogger() hclog.Logger {
	return logging.New(logging.Options{Name: "sandbox-inspect", Level: logLevel, Output: os.Stderr})
}

// loadConfig reads the manifest if one was given, starting from the
// defaults otherwise, and applies the environment when asked.
func loadConfig() (sandbox.Config, error) {
	cfg := sandbox.DefaultConfig()
	if manifestPath != "" {
		var err error
		if cfg, err = sandbox.LoadManifest(manifestPath); err != nil {
			return cfg, err
		}
	}
	if useEnv || manifestPath == "" {
		return sandbox.ConfigFromEnv(cfg)
	}
	return cfg, nil
}

func openSession() (*sandbox.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger()
	s, err := sandbox.New(cfg, sandbox.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if n := s.Diagnostics().Len(); n > 0 {
		logger.Warn("⚠️ Some resources were skipped", "count", n)
	}
	return s, nil
}
