package exobuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOfferImageAuthoringDeclined(t *testing.T) {
	setupDirs(t)
	s := newSession()
	tgt, _ := resolveTarget("x86_64")
	s.Record(tgt, BuildOutcome{OK: true})
	s.Finalize()

	p := &fixedPrompter{answer: false}
	offerImageAuthoring(context.Background(), &Config{Values: map[string]string{}}, s, p)
	if p.asked != 1 {
		t.Fatalf("prompter asked %d time(s), want 1", p.asked)
	}
}

func TestOfferImageAuthoringSkipsFailedTargets(t *testing.T) {
	setupDirs(t)
	s := newSession()
	good, _ := resolveTarget("aarch64") // succeeds but has no ISO support
	bad, _ := resolveTarget("x86_64")
	s.Record(good, BuildOutcome{OK: true})
	s.Record(bad, BuildOutcome{Reason: CompileFailure})
	s.Finalize()

	// Accepting the prompt must not touch the failed x86_64 target; the
	// only successful one lacks image support, so nothing is authored
	// and in particular nothing errors hard.
	p := &fixedPrompter{answer: true}
	offerImageAuthoring(context.Background(), &Config{Values: map[string]string{}}, s, p)
}

func TestOfferImageAuthoringMissingToolIsSoftWarning(t *testing.T) {
	setupDirs(t)
	tgt, _ := resolveTarget("x86_64")
	if err := os.MkdirAll(filepath.Dir(tgt.ArtifactPath()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tgt.ArtifactPath(), []byte("\x7fELF fake kernel image"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := newSession()
	s.Record(tgt, BuildOutcome{OK: true})
	s.Finalize()

	// An unavailable image tool downgrades to a warning: the session's
	// verdict was sealed by the build loop and must survive untouched.
	cfg := &Config{Values: map[string]string{"EXOBUILD_MKRESCUE": "/nonexistent/grub-mkrescue"}}
	p := &fixedPrompter{answer: true}
	offerImageAuthoring(context.Background(), cfg, s, p)

	if code := s.ExitCode(); code != 0 {
		t.Fatalf("exit code = %d after failed image authoring, want 0", code)
	}
	if _, err := os.Stat(tgt.ISOPath()); err == nil {
		t.Fatal("image file exists despite missing tool")
	}
}

func TestOfferImageAuthoringCancelled(t *testing.T) {
	setupDirs(t)
	s := newSession()
	tgt, _ := resolveTarget("x86_64")
	s.Record(tgt, BuildOutcome{OK: true})
	s.Finalize()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fixedPrompter{answer: true}
	offerImageAuthoring(ctx, &Config{Values: map[string]string{}}, s, p)
}

func TestFixedPrompterTimeoutIgnored(t *testing.T) {
	p := &fixedPrompter{answer: true}
	start := time.Now()
	if !p.AskYesNo("proceed?", time.Hour) {
		t.Fatal("fixed prompter did not return its canned answer")
	}
	if time.Since(start) > time.Second {
		t.Fatal("fixed prompter blocked")
	}
}
