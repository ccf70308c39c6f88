package guardkit

import (
	"testing"
	"time"
)

func TestBuildRequiresUserProvider(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("Build succeeded without a user provider")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Remember.TokenAge = "forever"

	_, err := New().
		WithConfig(cfg).
		WithUserProvider(newStubUserProvider()).
		Build()
	if err == nil {
		t.Fatal("Build accepted an unparseable TokenAge")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithUserProvider(newStubUserProvider())

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(g.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("second Build on the same builder succeeded")
	}
}

func TestBuildParsesTokenAge(t *testing.T) {
	cfg := defaultConfig()
	cfg.Remember.TokenAge = "30 days"

	g, err := New().
		WithConfig(cfg).
		WithUserProvider(newStubUserProvider()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(g.Close)

	if g.tokenAge != 30*24*time.Hour {
		t.Fatalf("tokenAge = %v, want 720h", g.tokenAge)
	}
}

func TestBuildIsolatesConfigFromCaller(t *testing.T) {
	cfg := defaultConfig()

	g, err := New().
		WithConfig(cfg).
		WithUserProvider(newStubUserProvider()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(g.Close)

	cfg.Remember.RotationGrace = time.Hour
	if g.config.Remember.RotationGrace == time.Hour {
		t.Fatal("caller mutation leaked into the built guardian")
	}
}
