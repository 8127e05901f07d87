package cli

import (
	"testing"
	"time"

	"github.com/mcastellin/gossipmesh/internal/node"
)

func TestParsesPortPeriodAndConnect(t *testing.T) {
	var got node.Config
	root := newRootCmd(func(cfg node.Config) { got = cfg })
	root.SetArgs([]string{"--port", "5000", "--period", "5", "--connect", "127.0.0.1:6000"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if got.Port != 5000 {
		t.Fatalf("expected port 5000, got %d", got.Port)
	}
	if got.Period != 5*time.Second {
		t.Fatalf("expected period 5s, got %v", got.Period)
	}
	if got.Connect != "127.0.0.1:6000" {
		t.Fatalf("expected connect address, got %q", got.Connect)
	}
}

func TestMissingRequiredFlagsFails(t *testing.T) {
	root := newRootCmd(func(node.Config) {})
	root.SetArgs([]string{})

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error when --port and --period are not supplied")
	}
}

func TestUnknownFlagsAreIgnored(t *testing.T) {
	var got node.Config
	root := newRootCmd(func(cfg node.Config) { got = cfg })
	root.SetArgs([]string{"--port", "5000", "--period", "5", "--unknown-flag", "value"})

	if err := root.Execute(); err != nil {
		t.Fatalf("expected unknown flags to be ignored, got error: %v", err)
	}
	if got.Port != 5000 {
		t.Fatalf("expected port 5000, got %d", got.Port)
	}
}
