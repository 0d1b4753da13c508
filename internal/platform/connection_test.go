package platform

import "testing"

func TestConnectionStateString(t *testing.T) {
	if got := StateDisconnected.String(); got != "disconnected" {
		t.Errorf("String = %q", got)
	}
	if got := StateConnected.String(); got != "connected" {
		t.Errorf("String = %q", got)
	}
	if got := StateShuttingDown.String(); got != "shutting_down" {
		t.Errorf("String = %q", got)
	}
	if got := ConnectionState(99).String(); got != "unknown" {
		t.Errorf("String = %q", got)
	}
}
