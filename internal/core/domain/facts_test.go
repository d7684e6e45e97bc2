package domain_test

import (
	"testing"

	"go.trai.ch/confgen/internal/core/domain"
)

func TestPlatformFacts_CopiesDetectedSet(t *testing.T) {
	detected := map[domain.FeatureID]bool{"mmap": true, "epoll": false}
	facts := domain.NewPlatformFacts(domain.FamilyUnix, "amd64", 64, domain.CompilerInfo{ID: "gcc"}, detected)

	// Mutating the caller's map must not leak into the facts.
	detected["epoll"] = true
	delete(detected, "mmap")

	if !facts.HasFeature("mmap") {
		t.Error("expected mmap to stay detected")
	}
	if facts.HasFeature("epoll") {
		t.Error("expected epoll to stay undetected (negative results are not stored)")
	}
}

func TestPlatformFacts_Features_Sorted(t *testing.T) {
	facts := domain.NewPlatformFacts(domain.FamilyUnix, "arm64", 64, domain.CompilerInfo{}, map[domain.FeatureID]bool{
		"zlib": true, "atomics": true, "mmap": true,
	})

	want := []domain.FeatureID{"atomics", "mmap", "zlib"}
	got := facts.Features()
	if len(got) != len(want) {
		t.Fatalf("expected %d features, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("features[%d]: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPlatformFacts_WithOverrides(t *testing.T) {
	base := domain.NewPlatformFacts(domain.FamilyUnix, "amd64", 64, domain.CompilerInfo{}, map[domain.FeatureID]bool{
		"mmap": true,
	})

	facts := base.WithOverrides([]domain.FeatureID{"epoll"}, []domain.FeatureID{"mmap"})

	if !facts.HasFeature("epoll") {
		t.Error("expected forced feature epoll to be present")
	}
	if facts.HasFeature("mmap") {
		t.Error("expected disabled feature mmap to be absent")
	}

	// The original facts must be untouched.
	if !base.HasFeature("mmap") || base.HasFeature("epoll") {
		t.Error("overrides mutated the original facts")
	}
}

func TestPlatformFacts_WithOverrides_DisableWins(t *testing.T) {
	base := domain.NewPlatformFacts(domain.FamilyUnix, "amd64", 64, domain.CompilerInfo{}, nil)
	facts := base.WithOverrides([]domain.FeatureID{"mmap"}, []domain.FeatureID{"mmap"})
	if facts.HasFeature("mmap") {
		t.Error("expected disable to win over enable for the same feature")
	}
}
