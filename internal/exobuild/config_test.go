package exobuild

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigParsesKeyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exobuild.conf")
	content := `
# comment
EXOBUILD_KERNEL_DIR = /src/exokernel
EXOBUILD_QEMU_MEM="512M"
broken line without equals
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if got := cfg.Values["EXOBUILD_KERNEL_DIR"]; got != "/src/exokernel" {
		t.Fatalf("EXOBUILD_KERNEL_DIR = %q, want /src/exokernel", got)
	}
	if got := cfg.Values["EXOBUILD_QEMU_MEM"]; got != "512M" {
		t.Fatalf("EXOBUILD_QEMU_MEM = %q, quotes not stripped", got)
	}
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("missing config errored: %v", err)
	}
	if cfg == nil {
		t.Fatal("nil config for missing file")
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	t.Setenv("EXOBUILD_QEMU_MEM", "1G")
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Values["EXOBUILD_QEMU_MEM"]; got != "1G" {
		t.Fatalf("env override = %q, want 1G", got)
	}
}

func TestInitConfigDefaults(t *testing.T) {
	initConfig(&Config{Values: map[string]string{}})
	if kernelDir != "." {
		t.Fatalf("kernelDir = %q, want .", kernelDir)
	}
	if buildDir != filepath.Join(".", "build") {
		t.Fatalf("buildDir = %q, want ./build", buildDir)
	}
	if logDir != filepath.Join(buildDir, "logs") {
		t.Fatalf("logDir = %q not under buildDir", logDir)
	}
}

func TestToolchainBinOverrides(t *testing.T) {
	cfg := &Config{Values: map[string]string{
		"EXOBUILD_CARGO":  "/opt/rust/bin/cargo",
		"EXOBUILD_RUSTUP": "/opt/rust/bin/rustup",
	}}
	if got := cargoBin(cfg); got != "/opt/rust/bin/cargo" {
		t.Fatalf("cargoBin = %q", got)
	}
	if got := rustupBin(cfg); got != "/opt/rust/bin/rustup" {
		t.Fatalf("rustupBin = %q", got)
	}
	if got := cargoBin(&Config{Values: map[string]string{}}); got != "cargo" {
		t.Fatalf("default cargoBin = %q, want cargo", got)
	}
}
