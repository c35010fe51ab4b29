package exobuild

import (
	"fmt"
	"path/filepath"
)

// Target is one architecture the orchestrator knows how to build: the
// cargo triple it compiles for and the artifact cargo is expected to
// leave behind. Immutable for the duration of a session.
type Target struct {
	Arch   string // catalog key, e.g. "x86_64"
	Triple string // cargo --target identifier
	// ISO marks targets that can be wrapped into a bootable Multiboot2
	// image. grub-mkrescue only produces something usable for x86_64.
	ISO bool
}

// targetCatalog is the fixed build order. Both the build-everything loop
// and the single-target path used by `exobuild iso` resolve through this
// table so the two can never drift apart.
var targetCatalog = []Target{
	{Arch: "x86_64", Triple: "x86_64-unknown-none", ISO: true},
	{Arch: "aarch64", Triple: "aarch64-unknown-none"},
	{Arch: "riscv64", Triple: "riscv64gc-unknown-none-elf"},
	{Arch: "loongarch64", Triple: "loongarch64-unknown-none"},
}

// resolveTarget looks up a single architecture by name. Unknown names
// return errUnsupportedArch, never a panic.
func resolveTarget(arch string) (Target, error) {
	for _, t := range targetCatalog {
		if t.Arch == arch {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %s", errUnsupportedArch, arch)
}

// ArtifactPath is where cargo leaves the release binary for this target.
func (t Target) ArtifactPath() string {
	return filepath.Join(kernelDir, "target", t.Triple, "release", "exokernel")
}

// AliasPath is the stable-named symlink updated after every successful
// build. It is left stale on failure, so absence does not imply that no
// prior build succeeded.
func (t Target) AliasPath() string {
	return filepath.Join(buildDir, "exokernel-"+t.Arch+".elf")
}

// LogPath is derived from the architecture name so a rerun overwrites
// the previous attempt's log instead of appending to it.
func (t Target) LogPath() string {
	return filepath.Join(logDir, t.Arch+".log")
}

// CompressedLogPath is where the log of a successful build ends up.
func (t Target) CompressedLogPath() string {
	return t.LogPath() + ".xz"
}

// ISOPath is the output of the image-authoring step for this target.
func (t Target) ISOPath() string {
	return filepath.Join(buildDir, "exokernel-"+t.Arch+".iso")
}
