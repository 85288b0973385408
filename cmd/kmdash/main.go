// kmdash bridges the virtual input driver event stream to WebSocket
// observers and accepts injection commands back.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kmdash/internal/api"
	"kmdash/internal/codec"
	"kmdash/internal/config"
	"kmdash/internal/device"
	"kmdash/internal/hub"
	"kmdash/internal/inject"
	"kmdash/internal/source"
	"kmdash/internal/telemetry"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kmdash",
		Short:   "Input event bridge and injection dashboard backend",
		Version: version,
		Long: `kmdash reads raw events from the virtual input drivers, decodes them
and streams them to WebSocket observers. Observers send injection
commands back, which are written to the driver sysfs endpoints.`,
		Example: `  # Demo without kernel modules
  kmdash --simulate

  # Read a specific device
  kmdash --device /dev/input/event5

  # Auto-detect virtual devices (usually needs root)
  sudo kmdash`,
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().Int("port", 0, "HTTP/WebSocket listen port (default 8080)")
	cmd.Flags().String("device", "", "input device path (auto-detect if omitted)")
	cmd.Flags().Bool("simulate", false, "generate synthetic events instead of reading a device")
	cmd.Flags().String("log-level", "", "log level: trace, debug, info, warn, error")
	cmd.Flags().String("config", "", "config file path")
	cmd.Flags().Bool("no-ui", false, "disable the embedded dashboard")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return fmt.Errorf("initialize config: %w", err)
	}

	log := newLogger()
	if err := cfgMgr.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load config, using defaults")
	}
	cfg := cfgMgr.Get()
	applyFlags(cmd, cfg)

	levelStr := cfg.LogLevel
	if !cmd.Flags().Changed("log-level") {
		if env := os.Getenv("LOG_LEVEL"); env != "" {
			levelStr = env
		}
	}
	zerolog.SetGlobalLevel(logLevel(levelStr, log))

	log.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Bool("simulate", cfg.Source.Simulate).
		Msg("kmdash starting")

	tele := telemetry.New(cfg.Source.Simulate, device.FindVirtual)
	broadcast := hub.New(log)
	dispatcher := inject.New(log)

	server := api.NewServer(broadcast, dispatcher, tele, cfg.Server.ServeUI, log)
	go func() {
		if err := server.Start(cfg.Server.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	src := selectSource(cfg, tele, log)
	if src != nil {
		if err := src.Start(); err != nil {
			log.Error().Err(err).Msg("event source unavailable, serving commands only")
			src = nil
		}
	}
	if src != nil {
		defer src.Stop()
		go func() {
			for ev := range src.Events() {
				broadcast.Publish(ev)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")
	return nil
}

// selectSource picks the event source at startup; this choice is fixed
// for the process lifetime.
func selectSource(cfg *config.Config, tele *telemetry.Context, log zerolog.Logger) source.Source {
	if cfg.Source.Simulate {
		return source.NewSimulator(tele, log)
	}

	path := cfg.Source.Device
	if path == "" {
		devices := device.FindVirtual()
		if len(devices) == 0 {
			log.Warn().Msg("no virtual devices found, use --simulate or --device; waiting for injection commands")
			return nil
		}
		path = devices[0]
		log.Info().Str("device", path).Msg("auto-detected device")
	}
	return source.NewReader(path, codec.NewDecoder(tele), log)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("device") {
		cfg.Source.Device, _ = cmd.Flags().GetString("device")
	}
	if cmd.Flags().Changed("simulate") {
		cfg.Source.Simulate, _ = cmd.Flags().GetBool("simulate")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("no-ui") {
		noUI, _ := cmd.Flags().GetBool("no-ui")
		cfg.Server.ServeUI = !noUI
	}
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// logLevel parses a level string, falling back to info on bad input.
func logLevel(candidate string, log zerolog.Logger) zerolog.Level {
	if candidate == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(candidate)
	if err != nil {
		log.Warn().Str("level", candidate).Msg("invalid log level, using info")
		return zerolog.InfoLevel
	}
	return level
}
