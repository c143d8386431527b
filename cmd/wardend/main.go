package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hsguild/warden/pkg/config"
	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/runtime"
	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/users"
)

// Version is the release string reported by --version, overridden at
// build time via -ldflags. The RPC server reports runtime.Version,
// which is set separately.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "wardend",
	Short:   "warden, the hackerspace resource-arbitration daemon",
	Version: Version,
	RunE:    run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("config", "/etc/warden/warden.yaml", "path to the configuration file")
	flags.CountP("verbose", "v", "increase log verbosity (repeatable)")
	flags.Bool("quiet", false, "suppress all but warning and error logs")
	flags.String("log-format", string(log.FormatFull), "log format: Full, Compact or Pretty")
	flags.String("log-level", string(log.InfoLevel), "minimum log level")
	flags.Bool("print-default", false, "print the default configuration to stdout and exit")
	flags.Bool("check", false, "validate the configuration and exit")
	flags.String("dump", "", "write the user directory to PATH as TOML and exit")
	flags.String("load", "", "replace the user directory with the TOML file at PATH and exit")
	flags.String("tls-key-log", "", "append TLS session keys to PATH (default: $SSLKEYLOGFILE if set)")
	flags.Lookup("tls-key-log").NoOptDefVal = " "
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	verbosity, _ := flags.GetCount("verbose")
	quiet, _ := flags.GetBool("quiet")
	logFormat, _ := flags.GetString("log-format")
	logLevel, _ := flags.GetString("log-level")
	printDefault, _ := flags.GetBool("print-default")
	check, _ := flags.GetBool("check")
	dumpPath, _ := flags.GetString("dump")
	loadPath, _ := flags.GetString("load")
	keyLogFlag, _ := flags.GetString("tls-key-log")

	initLogging(logLevel, logFormat, verbosity, quiet)

	if printDefault {
		data, err := config.Default().Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if check {
		return nil
	}

	if dumpPath != "" && loadPath != "" {
		return fmt.Errorf("--dump and --load are mutually exclusive")
	}
	if dumpPath != "" {
		return dumpUsers(cfg, dumpPath)
	}
	if loadPath != "" {
		return loadUsers(cfg, loadPath)
	}

	if keyLogFlag == " " {
		keyLogFlag = ""
	}
	cfg.TLSKeyLog = keyLogFlagOverride(cfg.TLSKeyLog, keyLogFlag, cmd)

	rt, err := runtime.Build(cfg)
	if err != nil {
		return err
	}

	errCh := rt.Start()
	log.Logger.Info().Msg("warden started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			rt.Stop()
			return err
		}
	}

	rt.Stop()
	return nil
}

// keyLogFlagOverride applies --tls-key-log's three states: flag not
// passed (use the config value, itself defaulting to SSLKEYLOGFILE at
// tlsconfig.Build time), flag passed with no value (force
// SSLKEYLOGFILE), flag passed with a path (use that path).
func keyLogFlagOverride(configured, flagVal string, cmd *cobra.Command) string {
	if !cmd.Flags().Changed("tls-key-log") {
		return configured
	}
	return flagVal
}

func initLogging(level, format string, verbosity int, quiet bool) {
	lvl := log.Level(level)
	switch {
	case quiet:
		lvl = log.WarnLevel
	case verbosity >= 2:
		lvl = log.DebugLevel
	case verbosity == 1 && lvl == log.InfoLevel:
		lvl = log.DebugLevel
	}
	log.Init(log.Config{Level: lvl, Format: log.Format(format)})
}

func dumpUsers(cfg config.Config, path string) error {
	env, err := tdb.OpenEnvironment(cfg.DBPath)
	if err != nil {
		return err
	}
	defer env.Close()

	dir, err := users.Open(env)
	if err != nil {
		return err
	}
	return dir.DumpFile(path, false)
}

func loadUsers(cfg config.Config, path string) error {
	env, err := tdb.OpenEnvironment(cfg.DBPath)
	if err != nil {
		return err
	}
	defer env.Close()

	dir, err := users.Open(env)
	if err != nil {
		return err
	}
	return dir.LoadFile(path)
}
