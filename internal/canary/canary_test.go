package canary

import (
	"context"
	"strings"
	"testing"
)

func TestCommandGatePasses(t *testing.T) {
	gate := &CommandGate{Command: "true", Dir: t.TempDir()}
	if err := gate.Run(context.Background()); err != nil {
		t.Errorf("gate should pass: %v", err)
	}
}

func TestCommandGateFails(t *testing.T) {
	gate := &CommandGate{Command: "echo canary exploded >&2; exit 1", Dir: t.TempDir()}
	err := gate.Run(context.Background())
	if err == nil {
		t.Fatal("gate should fail")
	}
	if !strings.Contains(err.Error(), "canary exploded") {
		t.Errorf("error does not carry harness output: %v", err)
	}
}
