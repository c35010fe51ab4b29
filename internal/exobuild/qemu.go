package exobuild

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
)

// qemuInvocation maps an architecture to the emulator binary and the
// machine flags it needs to boot the kernel.
func qemuInvocation(cfg *Config, t Target, useISO bool) (string, []string, error) {
	mem := cfg.Values["EXOBUILD_QEMU_MEM"]
	if mem == "" {
		mem = "256M"
	}

	if useISO && t.Arch != "x86_64" {
		return "", nil, fmt.Errorf("iso boot is only supported on x86_64")
	}

	var bin string
	var args []string

	switch t.Arch {
	case "x86_64":
		bin = "qemu-system-x86_64"
		if useISO {
			args = []string{"-cdrom", t.ISOPath()}
		} else {
			args = []string{"-kernel", t.ArtifactPath()}
		}
	case "aarch64":
		bin = "qemu-system-aarch64"
		args = []string{"-M", "virt", "-cpu", "cortex-a72", "-kernel", t.ArtifactPath()}
	case "riscv64":
		bin = "qemu-system-riscv64"
		args = []string{"-M", "virt", "-kernel", t.ArtifactPath()}
	case "loongarch64":
		bin = "qemu-system-loongarch64"
		args = []string{"-M", "virt", "-kernel", t.ArtifactPath()}
	default:
		return "", nil, fmt.Errorf("%w: %s", errUnsupportedArch, t.Arch)
	}

	args = append(args, "-m", mem, "-serial", "stdio", "-display", "none")
	return bin, args, nil
}

// runQemuCommand implements `exobuild run <arch> [debug|gdb] [iso]`.
func runQemuCommand(ctx context.Context, cfg *Config, args []string) int {
	if len(args) < 1 {
		colError.Println("Usage: exobuild run <arch> [debug|gdb] [iso]")
		return 1
	}

	t, err := resolveTarget(args[0])
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	mode := "normal"
	rest := args[1:]
	if len(rest) > 0 && (rest[0] == "debug" || rest[0] == "gdb") {
		mode = rest[0]
		rest = rest[1:]
	}
	useISO := slices.Contains(rest, "iso")

	bin, qargs, err := qemuInvocation(cfg, t, useISO)
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	switch mode {
	case "debug":
		qargs = append(qargs, "-d", "int,cpu_reset", "-no-reboot")
	case "gdb":
		// Freeze at reset and wait for gdb on :1234.
		qargs = append(qargs, "-s", "-S")
		colArrow.Print("-> ")
		colNote.Println("Waiting for gdb, connect with: target remote :1234")
	}

	if _, err := exec.LookPath(bin); err != nil {
		colError.Printf("%s not available: %v\n", bin, err)
		return 1
	}

	colArrow.Print("-> ")
	colSuccess.Printf("Launching %s for %s\n", bin, t.Arch)

	cmd := exec.Command(bin, qargs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	emuExec := &Executor{Context: ctx, Interactive: true}
	if err := emuExec.Run(cmd); err != nil {
		colError.Printf("emulator exited with error: %v\n", err)
		return 1
	}
	return 0
}
