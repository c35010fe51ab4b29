package exobuild

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupDirs points the package path globals at a fresh temp tree.
func setupDirs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	kernelDir = root
	buildDir = filepath.Join(root, "build")
	logDir = filepath.Join(buildDir, "logs")
	distDir = filepath.Join(buildDir, "dist")
	isoDir = filepath.Join(buildDir, "iso")
	return root
}

// fakeToolchain stands in for rustup/cargo. It records every compiler
// invocation and fabricates artifacts on disk like the real thing.
type fakeToolchain struct {
	failCheck        bool            // rustup/cargo not installed
	missingComponent bool            // rust-src absent
	failAddComponent bool            // remedial component install fails
	failAdd          map[string]bool // triple -> rustup target add fails
	failBuild        map[string]bool // arch -> cargo exits nonzero
	skipArtifact     map[string]bool // arch -> cargo exits zero, no artifact
	addCalls         []string
	buildCalls       []string
	componentCalls   []string
}

func newFakeToolchain() *fakeToolchain {
	return &fakeToolchain{
		failAdd:      map[string]bool{},
		failBuild:    map[string]bool{},
		skipArtifact: map[string]bool{},
	}
}

func (f *fakeToolchain) Check() error {
	if f.failCheck {
		return errors.New("exec: \"rustup\": executable file not found in $PATH")
	}
	return nil
}

func (f *fakeToolchain) AddTarget(ctx context.Context, triple string) error {
	f.addCalls = append(f.addCalls, triple)
	if f.failAdd[triple] {
		return errors.New("toolchain does not support " + triple)
	}
	return nil
}

func (f *fakeToolchain) Build(ctx context.Context, tgt Target, logw io.Writer) error {
	f.buildCalls = append(f.buildCalls, tgt.Arch)
	io.WriteString(logw, "   Compiling exokernel v0.1.0\n")
	if f.failBuild[tgt.Arch] {
		io.WriteString(logw, "error[E0425]: cannot find value `frobnicate`\n")
		return errors.New("exit status 101")
	}
	if f.skipArtifact[tgt.Arch] {
		io.WriteString(logw, "    Finished `release` profile\n")
		return nil
	}
	path := tgt.ArtifactPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("\x7fELF fake kernel image"), 0o755)
}

func (f *fakeToolchain) HasComponent(ctx context.Context, name string) (bool, error) {
	return !f.missingComponent, nil
}

func (f *fakeToolchain) AddComponent(ctx context.Context, name string) error {
	f.componentCalls = append(f.componentCalls, name)
	if f.failAddComponent {
		return errors.New("component 'rust-src' unavailable for download")
	}
	f.missingComponent = false
	return nil
}

// fixedPrompter answers every question instantly with a canned value.
type fixedPrompter struct {
	answer bool
	asked  int
}

func (p *fixedPrompter) AskYesNo(prompt string, timeout time.Duration) bool {
	p.asked++
	return p.answer
}
