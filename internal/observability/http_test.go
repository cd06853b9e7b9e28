package observability

import (
	"net/http/httptest"
	"testing"
)

func TestIPFromRequestPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/chat", nil)
	req.Header.Set("X-Forwarded-For", "10.1.2.3, 172.16.0.1")

	if got := IPFromRequest(req); got != "10.1.2.3" {
		t.Fatalf("unexpected ip %s", got)
	}
}

func TestIPFromRequestFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/chat", nil)
	req.RemoteAddr = "192.0.2.9:4242"

	if got := IPFromRequest(req); got != "192.0.2.9" {
		t.Fatalf("unexpected ip %s", got)
	}
}
