package config

import (
	"testing"
	"time"
)

func TestLoad_CustomEnvironment(t *testing.T) {
	t.Setenv("TELEOP_NAMESPACE", "uav7")
	t.Setenv("TELEOP_BROKER_URL", "tcp://broker.local:1883")
	t.Setenv("TELEOP_CLIENT_ID", "bridge-7")
	t.Setenv("TELEOP_PARAM_DB", "file:./uav7.db")
	t.Setenv("TELEOP_SAMPLE_BUFFER", "64")
	t.Setenv("TELEOP_ARMING_TIMEOUT_MS", "500")
	t.Setenv("TELEOP_STATUS_ENABLED", "false")
	t.Setenv("TELEOP_STATUS_PORT", "9000")
	t.Setenv("TELEOP_IBUS_TARGET", "10.0.0.2:7777")
	t.Setenv("TELEOP_VERBOSE", "true")

	cfg := Load()

	if cfg.Namespace != "uav7" {
		t.Errorf("Namespace = %q, want uav7", cfg.Namespace)
	}
	if cfg.BrokerURL != "tcp://broker.local:1883" {
		t.Errorf("BrokerURL = %q", cfg.BrokerURL)
	}
	if cfg.ClientID != "bridge-7" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
	if cfg.ParamDBURL != "file:./uav7.db" {
		t.Errorf("ParamDBURL = %q", cfg.ParamDBURL)
	}
	if cfg.SampleBuffer != 64 {
		t.Errorf("SampleBuffer = %d, want 64", cfg.SampleBuffer)
	}
	if cfg.ArmingTimeout != 500*time.Millisecond {
		t.Errorf("ArmingTimeout = %v, want 500ms", cfg.ArmingTimeout)
	}
	if cfg.StatusEnabled {
		t.Error("StatusEnabled = true, want false")
	}
	if cfg.StatusPort != "9000" {
		t.Errorf("StatusPort = %q, want 9000", cfg.StatusPort)
	}
	if cfg.IBusTarget != "10.0.0.2:7777" {
		t.Errorf("IBusTarget = %q", cfg.IBusTarget)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("TELEOP_SAMPLE_BUFFER", "lots")
	cfg := Load()
	if cfg.SampleBuffer != 16 {
		t.Errorf("SampleBuffer = %d, want default 16", cfg.SampleBuffer)
	}
}
