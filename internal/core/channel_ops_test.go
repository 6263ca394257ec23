package core

import (
	"context"
	"testing"
)

func TestRunChannelDemoRoundTrip(t *testing.T) {
	rec := &recorder{}
	report, err := RunChannelDemo(context.Background(), ChannelOptions{
		Source: "pcg",
		Seed:   3,
	}, rec)
	if err != nil {
		t.Fatalf("RunChannelDemo failed: %v", err)
	}
	if !report.RoundTrip {
		t.Error("round trip failed on a clean channel")
	}
	if report.Message != DefaultMessage {
		t.Errorf("message = %q, want the default payload", report.Message)
	}
	// IV plus padded ciphertext plus HMAC tag.
	padded := (len(DefaultMessage)/16 + 1) * 16
	if want := 16 + padded + 32; report.SealedBytes != want {
		t.Errorf("sealed frame = %d bytes, want %d", report.SealedBytes, want)
	}
	if report.TamperDetected || report.ReadoutError != 0 {
		t.Errorf("clean channel reported noise: %+v", report)
	}
	if len(rec.lines) == 0 {
		t.Error("no progress reported")
	}
}

func TestRunChannelDemoNoiseProbe(t *testing.T) {
	report, err := RunChannelDemo(context.Background(), ChannelOptions{
		Source:  "pcg",
		Seed:    3,
		Message: "short probe",
		Noise:   0.5,
	}, nil)
	if err != nil {
		t.Fatalf("RunChannelDemo failed: %v", err)
	}
	if !report.RoundTrip {
		t.Error("round trip failed before corruption")
	}
	if !report.TamperDetected {
		t.Error("heavy corruption went undetected")
	}
	if report.ReadoutError < 0.3 || report.ReadoutError > 0.7 {
		t.Errorf("readout error = %v, want near the 0.5 flip probability", report.ReadoutError)
	}
	if report.P01 == 0 && report.P10 == 0 {
		t.Error("flip probabilities both zero under heavy noise")
	}
}

func TestRunChannelDemoDirectKey(t *testing.T) {
	report, err := RunChannelDemo(context.Background(), ChannelOptions{
		Source: "csprng",
		Direct: true,
	}, nil)
	if err != nil {
		t.Fatalf("RunChannelDemo failed: %v", err)
	}
	if report.Key.Extracted {
		t.Error("direct key marked extracted")
	}
	if !report.RoundTrip {
		t.Error("round trip failed")
	}
}

func TestRunChannelDemoUnknownSource(t *testing.T) {
	if _, err := RunChannelDemo(context.Background(), ChannelOptions{Source: "lava"}, nil); err == nil {
		t.Fatal("unknown source accepted")
	}
}
