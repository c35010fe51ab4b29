package exobuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Toolchain abstracts the external Rust toolchain so the build loop can
// be exercised against a fake in tests.
type Toolchain interface {
	// Check reports whether the toolchain binaries exist at all.
	Check() error

	// AddTarget installs compiler support for the given triple. An error
	// means the installed toolchain cannot build this target at all.
	AddTarget(ctx context.Context, triple string) error

	// Build compiles the kernel for one target in release mode, with
	// combined compiler output written to logw. A nil error means the
	// compiler process exited zero; it does not guarantee an artifact.
	Build(ctx context.Context, t Target, logw io.Writer) error

	// HasComponent reports whether a rustup component is installed.
	HasComponent(ctx context.Context, name string) (bool, error)

	// AddComponent installs a rustup component.
	AddComponent(ctx context.Context, name string) error
}

// rustToolchain drives the real rustup/cargo binaries.
type rustToolchain struct {
	cargo  string
	rustup string
	exec   *Executor
}

func newRustToolchain(cfg *Config, e *Executor) *rustToolchain {
	return &rustToolchain{cargo: cargoBin(cfg), rustup: rustupBin(cfg), exec: e}
}

func (tc *rustToolchain) Check() error {
	if _, err := exec.LookPath(tc.rustup); err != nil {
		return fmt.Errorf("rustup: %w", err)
	}
	if _, err := exec.LookPath(tc.cargo); err != nil {
		return fmt.Errorf("cargo: %w", err)
	}
	return nil
}

func (tc *rustToolchain) AddTarget(ctx context.Context, triple string) error {
	cmd := exec.Command(tc.rustup, "target", "add", triple)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := tc.exec.Run(cmd); err != nil {
		return fmt.Errorf("rustup target add %s: %w", triple, err)
	}
	return nil
}

func (tc *rustToolchain) Build(ctx context.Context, t Target, logw io.Writer) error {
	cmd := exec.Command(tc.cargo, "build", "--release", "--target", t.Triple)
	cmd.Dir = kernelDir
	// Force color output into the log so the TUI viewer renders it.
	cmd.Env = append(os.Environ(), "CARGO_TERM_COLOR=always")
	cmd.Stdout = logw
	cmd.Stderr = logw
	return tc.exec.Run(cmd)
}

func (tc *rustToolchain) HasComponent(ctx context.Context, name string) (bool, error) {
	out, err := exec.CommandContext(ctx, tc.rustup, "component", "list", "--installed").Output()
	if err != nil {
		return false, fmt.Errorf("rustup component list: %w", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), name) {
			return true, nil
		}
	}
	return false, nil
}

func (tc *rustToolchain) AddComponent(ctx context.Context, name string) error {
	cmd := exec.Command(tc.rustup, "component", "add", name)
	if err := tc.exec.Run(cmd); err != nil {
		return fmt.Errorf("rustup component add %s: %w", name, err)
	}
	return nil
}
