// Package main is the CLI entry point for the launchpad plugin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/riseplugins/launchpad/internal/gateway"
	"github.com/riseplugins/launchpad/internal/infra"
	"github.com/riseplugins/launchpad/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "2.0.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "launchpad",
	Short: "Application mode switcher plugin",
	Long: `launchpad manages named application "modes" - sets of apps that are
launched or closed together with a single command.

When driven by the host assistant it speaks a framed command protocol over
stdin/stdout (see 'launchpad serve'). The other subcommands inspect local
state for debugging.`,
	Version: Version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the framed command protocol over stdin/stdout",
	Long: `Reads framed command messages from stdin, executes them, and writes
framed responses to stdout until the host closes the channel. This is the
entry point the host invokes; it is not meant for interactive use.`,
	RunE: runServe,
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List stored modes and their apps",
	Long:  `Shows every stored mode with the display name and executable path of each app.`,
	RunE:  runModes,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var jsonOutput bool

func init() {
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(infra.DataDir(), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger := createLogger(cfg.LogFile)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting launchpad plugin",
		zap.String("version", Version),
		zap.String("modes_file", cfg.ModesFile))

	pm := infra.NewProcessManager()
	store := infra.NewFileModeStore(cfg.ModesFile)
	resolver := usecase.NewResolver(pm, logger)
	svc := usecase.NewModeService(store, pm, resolver, logger)

	gw := gateway.New(os.Stdin, os.Stdout, logger)
	gateway.RegisterModeHandlers(gw, svc)

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	return gw.Run(ctx)
}

func runModes(cmd *cobra.Command, args []string) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}

	store := infra.NewFileModeStore(cfg.ModesFile)
	modes, err := store.Load()
	if err != nil {
		return err
	}

	if len(modes) == 0 {
		fmt.Println("No modes defined.")
		return nil
	}

	for name, apps := range modes {
		fmt.Printf("\n[%s]\n", name)
		for _, app := range apps {
			fmt.Printf("  - %s (%s)\n", app.Name, app.Path)
		}
	}
	fmt.Println()
	return nil
}

// createLogger writes structured logs to the plugin log file. Logging must
// never break the command path, so failures fall back to a basic logger.
func createLogger(logFile string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{logFile}
	config.ErrorOutputPaths = []string{logFile}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		// Stdout belongs to the protocol; log to stderr instead.
		fallback := zap.NewProductionConfig()
		fallback.OutputPaths = []string{"stderr"}
		logger, _ = fallback.Build()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("launchpad %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
