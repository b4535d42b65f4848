package proxy

import (
	"net/http"
	"testing"
)

func TestNewClientDirect(t *testing.T) {
	c, err := NewClient("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Transport != nil || c.Timeout != requestTimeout {
		t.Fatalf("expected direct client with timeout, got %+v", c)
	}
}

func TestNewClientSocks(t *testing.T) {
	c, err := NewClient("127.0.0.1:1080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Transport.(*http.Transport); !ok {
		t.Fatalf("expected custom transport, got %T", c.Transport)
	}
}
