package exobuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// grubConfig is the boot-loader entry staged into every image. The
// kernel is loaded via the multiboot2 protocol.
func grubConfig(t Target) string {
	return fmt.Sprintf(`set timeout=0
set default=0

menuentry "exokernel (%s)" {
    multiboot2 /boot/exokernel.elf
    boot
}
`, t.Arch)
}

// authorISO stages a directory tree around the built artifact, writes
// the grub config, and invokes grub-mkrescue. A missing grub-mkrescue is
// reported by the caller as a soft warning, never a build failure.
func authorISO(ctx context.Context, cfg *Config, t Target) error {
	if !t.ISO {
		return fmt.Errorf("%s has no bootable image support", t.Arch)
	}

	artifact := t.ArtifactPath()
	if _, err := os.Stat(artifact); err != nil {
		return fmt.Errorf("no artifact for %s, build it first: %w", t.Arch, err)
	}

	tool := cfg.Values["EXOBUILD_MKRESCUE"]
	if tool == "" {
		tool = "grub-mkrescue"
	}
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not available: %w", tool, err)
	}

	stage := filepath.Join(isoDir, t.Arch)
	grubDir := filepath.Join(stage, "boot", "grub")
	if err := os.MkdirAll(grubDir, 0o755); err != nil {
		return err
	}

	if err := copyFile(artifact, filepath.Join(stage, "boot", "exokernel.elf")); err != nil {
		return fmt.Errorf("staging artifact: %w", err)
	}
	if err := os.WriteFile(filepath.Join(grubDir, "grub.cfg"), []byte(grubConfig(t)), 0o644); err != nil {
		return fmt.Errorf("writing grub.cfg: %w", err)
	}

	colArrow.Print("-> ")
	colNote.Printf("Authoring %s\n", t.ISOPath())

	cmd := exec.Command(tool, "-o", t.ISOPath(), stage)
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	if err := BuildExec.Run(cmd); err != nil {
		return fmt.Errorf("%s failed: %w", tool, err)
	}

	colArrow.Print("-> ")
	colSuccess.Printf("Image written to %s\n", t.ISOPath())
	return nil
}

// runISOCommand implements `exobuild iso [arch]`. The default is the
// first catalog entry, matching what the build loop processes first.
func runISOCommand(ctx context.Context, cfg *Config, args []string) int {
	arch := targetCatalog[0].Arch
	if len(args) > 0 {
		arch = args[0]
	}

	t, err := resolveTarget(arch)
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	if err := authorISO(ctx, cfg, t); err != nil {
		colError.Printf("%v\n", err)
		return 1
	}
	return 0
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
