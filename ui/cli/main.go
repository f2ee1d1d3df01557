// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root cobra command: configuration loading, language and
// logging setup, the version information and the subcommand tree.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/createch/buildvars"
	"github.com/toeirei/createch/internal/config"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/ui/tui"
)

const modulePath = "github.com/toeirei/createch"

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var showVersionFlag bool

var appConfig config.Config

// loadSettings loads the configuration and applies language and log level.
// It does not touch the network or the database.
func loadSettings(cmd *cobra.Command, _ []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// First run: persist the defaults so there is a file to edit.
		if path, writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		} else {
			logging.Debugf("wrote default config to %s", path)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	i18n.Init(appConfig.Language)
	if err := logging.SetLevel(appConfig.Log.Level); err != nil {
		logging.Warnf("ignoring log level: %v", err)
	}
	if missing := appConfig.Firebase.MissingKeys(); len(missing) > 0 {
		logging.Debugf("missing firebase keys: %v", missing)
	}
	return nil
}

// Execute runs the CLI entrypoint. main should call this function and handle
// process exit.
func Execute() error {
	defer closeServices()
	return NewRootCmd().Execute()
}

func applyDefaultFlags(cmd *cobra.Command) {
	// NewRootCmd may be called multiple times in tests; pflag panics on
	// duplicate definitions.
	if cmd.PersistentFlags().Lookup("database.type") == nil {
		cmd.PersistentFlags().String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	}
	if cmd.PersistentFlags().Lookup("database.dsn") == nil {
		cmd.PersistentFlags().String("database.dsn", "./createch.db", "Database connection string (DSN)")
	}
	if cmd.PersistentFlags().Lookup("log.level") == nil {
		cmd.PersistentFlags().String("log.level", "info", "Log level (debug, info, warn, error)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// NewRootCmd creates and configures a new root cobra command. Every call
// returns a fresh command tree, so tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createch",
		Short: "Createch signs you in to the CreaTECH Firebase project from a terminal.",
		Long: `Createch is a terminal client for the CreaTECH sign-in flow.
It signs in with email and password, registers new accounts with a profile
record, and runs the Google and Facebook consent flows in your browser.

Running without a subcommand will launch the interactive TUI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), compositeVersion())
				os.Exit(0)
			}
			return loadSettings(cmd, args)
		},
		RunE: runTUI,
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Language ("en", "de")`)
	applyDefaultFlags(cmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "version: %s\n", v)
			_, _ = fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				_, _ = fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newStatusCmd(),
		newLogoutCmd(),
		newAuditCmd(),
		newConfigCmd(),
		versionCmd,
	)
	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	logPath := appConfig.Log.File
	if logPath == "" {
		logPath = logging.DefaultFile()
	}
	logFile, err := logging.ToFile(logPath)
	if err != nil {
		logging.Warnf("logging to stderr: %v", err)
	}

	if err := setupServices(cmd, args); err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return err
	}
	if logFile != nil {
		svc.closers = append(svc.closers, logFile)
	}

	return tui.Run(cmd.Context(), tui.Deps{
		Session:  svc.session,
		Account:  svc.account,
		Google:   svc.google,
		Facebook: svc.facebook,
		Statuses: svc.feed.ch,
	})
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If info is nil, it reads build info from the
// runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths only record our module as a dependency.
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
