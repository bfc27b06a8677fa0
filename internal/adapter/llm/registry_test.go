package llm

import (
	"errors"
	"testing"

	"triage-ai/internal/domain"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	p := &fakeProvider{name: "openai"}

	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Get("openai")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name() != "openai" {
		t.Errorf("Name = %q, want openai", got.Name())
	}
}

func TestRegistryDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&fakeProvider{name: "openai"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(&fakeProvider{name: "openai"}); err == nil {
		t.Error("duplicate Register should fail")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get("missing")
	if !errors.Is(err, domain.ErrProviderNotFound) {
		t.Errorf("error = %v, want ErrProviderNotFound", err)
	}
}

func TestRegistryDefault(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Default(); !errors.Is(err, domain.ErrProviderNotFound) {
		t.Errorf("empty Default error = %v, want ErrProviderNotFound", err)
	}

	reg.Register(&fakeProvider{name: "openai"})
	got, err := reg.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if got.Name() != "openai" {
		t.Errorf("Name = %q, want openai", got.Name())
	}

	reg.Register(&fakeProvider{name: "other"})
	if _, err := reg.Default(); !errors.Is(err, domain.ErrProviderNotFound) {
		t.Errorf("ambiguous Default error = %v, want ErrProviderNotFound", err)
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeProvider{name: "a"})
	reg.Register(&fakeProvider{name: "b"})
	if got := len(reg.List()); got != 2 {
		t.Errorf("List len = %d, want 2", got)
	}
}
