package exobuild

import (
	"context"
	"testing"
)

func TestPreflightMissingToolchainAbortsBeforeBuilds(t *testing.T) {
	setupDirs(t)
	tc := newFakeToolchain()
	tc.failCheck = true

	p := &fixedPrompter{answer: true}
	code, err := runBuildAll(context.Background(), &Config{Values: map[string]string{}}, tc, p)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if err == nil {
		t.Fatal("missing toolchain reported no error")
	}
	if len(tc.buildCalls) != 0 {
		t.Fatalf("compiler invoked %d time(s) with no toolchain", len(tc.buildCalls))
	}
	if p.asked != 0 {
		t.Fatal("image prompt reached despite aborted preflight")
	}
}

func TestPreflightInstallsMissingComponentOnce(t *testing.T) {
	setupDirs(t)
	tc := newFakeToolchain()
	tc.missingComponent = true

	p := &fixedPrompter{answer: false}
	code, err := runBuildAll(context.Background(), &Config{Values: map[string]string{}}, tc, p)
	if err != nil {
		t.Fatalf("runBuildAll error: %v", err)
	}
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(tc.componentCalls) != 1 || tc.componentCalls[0] != "rust-src" {
		t.Fatalf("component installs = %v, want exactly one rust-src", tc.componentCalls)
	}
	if len(tc.buildCalls) != len(targetCatalog) {
		t.Fatalf("built %d target(s) after remedial install, want %d", len(tc.buildCalls), len(targetCatalog))
	}
}

func TestPreflightComponentInstallFailureAborts(t *testing.T) {
	setupDirs(t)
	tc := newFakeToolchain()
	tc.missingComponent = true
	tc.failAddComponent = true

	p := &fixedPrompter{answer: true}
	code, err := runBuildAll(context.Background(), &Config{Values: map[string]string{}}, tc, p)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if err == nil {
		t.Fatal("failed component install reported no error")
	}
	if len(tc.buildCalls) != 0 {
		t.Fatalf("compiler invoked %d time(s) after failed remedial install", len(tc.buildCalls))
	}
	if p.asked != 0 {
		t.Fatal("image prompt reached despite aborted preflight")
	}
}
