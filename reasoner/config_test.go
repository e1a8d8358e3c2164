package reasoner

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestConfigValidateRejectsNonPositiveStepSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestConfigValidateRejectsNonPositiveMaxIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestConfigValidateRejectsNegativeEpsilon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EpsilonAbs = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error")
	}

	cfg = DefaultConfig()
	cfg.EpsilonRel = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestConfigValidateRejectsNonPositiveComputePeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ComputePeriod = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestNumThreadsDefaultsToGOMAXPROCS(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.numThreads() < 1 {
		t.Fatalf("expected at least 1, got %d", cfg.numThreads())
	}
}

func TestNumThreadsHonorsExplicitValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumThreads = 3
	if cfg.numThreads() != 3 {
		t.Fatalf("expected 3, got %d", cfg.numThreads())
	}
}

func TestParseInitialValue(t *testing.T) {
	cases := map[string]InitialValue{"ZERO": Zero, "RANDOM": Random, "ATOM": Atom}
	for s, want := range cases {
		got, ok := ParseInitialValue(s)
		if !ok || got != want {
			t.Fatalf("ParseInitialValue(%q) = %v, %v; want %v, true", s, got, ok, want)
		}
	}

	if _, ok := ParseInitialValue("BOGUS"); ok {
		t.Fatal("expected BOGUS to be rejected")
	}
}
