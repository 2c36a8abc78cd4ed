// Package main is the entry point for the mavteleop bridge.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mavteleop/mavteleop-go/internal/bus/ibusout"
	"github.com/mavteleop/mavteleop-go/internal/bus/mqttbus"
	"github.com/mavteleop/mavteleop-go/internal/config"
	"github.com/mavteleop/mavteleop-go/internal/params"
	"github.com/mavteleop/mavteleop-go/internal/status"
	"github.com/mavteleop/mavteleop-go/internal/teleop"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	rc := flag.Bool("rc", false, "use RC override control type")
	att := flag.Bool("att", false, "use attitude setpoint control type")
	vel := flag.Bool("vel", false, "use velocity setpoint control type")
	pos := flag.Bool("pos", false, "use position setpoint control type")
	ns := flag.String("n", "", "bus and parameter namespace (overrides TELEOP_NAMESPACE)")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	mode, err := selectMode(*rc, *att, *vel, *pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if *ns != "" {
		cfg.Namespace = *ns
	}
	if *verbose {
		cfg.Verbose = true
	}

	printBanner(cfg, mode)

	store, err := params.Open(params.Config{
		URL:       cfg.ParamDBURL,
		Namespace: cfg.Namespace,
		Debug:     cfg.Verbose,
	})
	if err != nil {
		log.Fatalf("Failed to open parameter store: %v", err)
	}
	defer func() { _ = store.Close() }()

	norm, err := teleop.LoadNormalizer(store)
	if err != nil {
		log.Fatalf("Invalid input configuration: %v", err)
	}

	mqttBus, err := mqttbus.Connect(mqttbus.Config{
		BrokerURL:     cfg.BrokerURL,
		ClientID:      cfg.ClientID,
		Namespace:     cfg.Namespace,
		ArmingTimeout: cfg.ArmingTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to bus: %v", err)
	}
	defer mqttBus.Close()

	strategy, cleanup, err := buildStrategy(mode, cfg, store, norm, mqttBus)
	if err != nil {
		log.Fatalf("Failed to configure %s mode: %v", mode, err)
	}
	defer cleanup()

	bridge := teleop.NewBridge(strategy, norm, cfg.SampleBuffer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bridge.Run(ctx)

	if err := mqttBus.SubscribeJoy(bridge.Offer); err != nil {
		log.Fatalf("Failed to subscribe joystick input: %v", err)
	}

	var statusServer *status.Server
	if cfg.StatusEnabled {
		statusServer = status.New(status.Config{
			Port:       cfg.StatusPort,
			CORSOrigin: cfg.CORSOrigin,
		}, bridge)
		go func() {
			log.Printf("Status server listening on http://localhost:%s", cfg.StatusPort)
			if err := statusServer.Start(); err != nil {
				log.Fatalf("Status server error: %v", err)
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	cancel()

	if statusServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := statusServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Status server shutdown error: %v", err)
		}
	}

	log.Println("Bridge stopped")
}

// selectMode enforces the mutually-exclusive mode flags: exactly one must be
// set; zero or several is a start-up error, never a silent default.
func selectMode(rc, att, vel, pos bool) (teleop.Mode, error) {
	var selected []teleop.Mode
	if rc {
		selected = append(selected, teleop.ModeRCOverride)
	}
	if att {
		selected = append(selected, teleop.ModeAttitude)
	}
	if vel {
		selected = append(selected, teleop.ModeVelocity)
	}
	if pos {
		selected = append(selected, teleop.ModePosition)
	}
	switch len(selected) {
	case 1:
		return selected[0], nil
	case 0:
		return "", fmt.Errorf("one of -rc, -att, -vel, -pos is required")
	default:
		return "", fmt.Errorf("control mode flags are mutually exclusive, got %d", len(selected))
	}
}

// buildStrategy loads the mode-specific configuration and wires the
// strategy to its publishers. The returned cleanup closes any resources the
// strategy holds beyond the shared bus.
func buildStrategy(mode teleop.Mode, cfg *config.Config, store *params.Store, norm *teleop.Normalizer, mqttBus *mqttbus.Bus) (teleop.Strategy, func(), error) {
	noop := func() {}

	switch mode {
	case teleop.ModeRCOverride:
		channels, err := teleop.LoadChannels(store)
		if err != nil {
			return nil, noop, err
		}
		overlays, err := teleop.LoadOverlays(store, norm.ButtonCount())
		if err != nil {
			return nil, noop, err
		}
		var mirror teleop.FrameSink
		cleanup := noop
		if cfg.IBusTarget != "" {
			sink, err := ibusout.Dial(cfg.IBusTarget)
			if err != nil {
				return nil, noop, err
			}
			mirror = sink
			cleanup = func() { _ = sink.Close() }
		}
		return teleop.NewRCOverride(norm, channels, overlays, mqttBus, mirror, cfg.Verbose), cleanup, nil

	case teleop.ModeAttitude:
		reverse, err := store.Bool("setpoint_attitude/reverse_throttle", false)
		if err != nil {
			return nil, noop, err
		}
		return teleop.NewAttitude(norm, mqttBus, mqttBus, reverse, cfg.Verbose), noop, nil

	case teleop.ModeVelocity:
		return teleop.NewVelocity(norm, mqttBus, cfg.Verbose), noop, nil

	case teleop.ModePosition:
		return teleop.NewPosition(norm, mqttBus, cfg.Verbose), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown control mode %q", mode)
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config, mode teleop.Mode) {
	fmt.Println("============================================")
	fmt.Println("  MAV-Teleop Bridge")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Mode:      %s\n", mode)
	fmt.Printf("  Namespace: %s\n", cfg.Namespace)
	fmt.Printf("  Broker:    %s\n", cfg.BrokerURL)
	fmt.Printf("  Params:    %s\n", cfg.ParamDBURL)
	fmt.Println("============================================")
}
