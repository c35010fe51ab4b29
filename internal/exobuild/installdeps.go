package exobuild

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sys/unix"
)

const rustupInitURL = "https://sh.rustup.rs"

// hostPackages lists what each supported distro needs for the full tool
// family: emulators, the image tool chain and a linker for build scripts.
var hostPackages = map[string][]string{
	"debian": {"build-essential", "qemu-system", "grub-pc-bin", "grub-common", "xorriso", "gdb-multiarch"},
	"ubuntu": {"build-essential", "qemu-system", "grub-pc-bin", "grub-common", "xorriso", "gdb-multiarch"},
	"fedora": {"gcc", "qemu-system-x86", "qemu-system-aarch64", "qemu-system-riscv", "grub2-tools", "xorriso", "gdb"},
	"arch":   {"base-devel", "qemu-full", "grub", "xorriso", "gdb"},
	"opensuse-tumbleweed": {"gcc", "qemu", "grub2", "xorriso", "gdb"},
}

// detectHostOS reads the ID field of /etc/os-release.
func detectHostOS() (string, error) {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return "", fmt.Errorf("cannot detect host OS: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "ID=") {
			return strings.Trim(strings.TrimPrefix(line, "ID="), `"`), nil
		}
	}
	return "", fmt.Errorf("no ID field in /etc/os-release")
}

// installCommand maps a distro ID to its package manager invocation.
func installCommand(id string, pkgs []string) (*exec.Cmd, error) {
	switch id {
	case "debian", "ubuntu":
		return exec.Command("sudo", append([]string{"apt-get", "install", "-y"}, pkgs...)...), nil
	case "fedora":
		return exec.Command("sudo", append([]string{"dnf", "install", "-y"}, pkgs...)...), nil
	case "arch":
		return exec.Command("sudo", append([]string{"pacman", "-S", "--needed", "--noconfirm"}, pkgs...)...), nil
	case "opensuse-tumbleweed":
		return exec.Command("sudo", append([]string{"zypper", "install", "-y"}, pkgs...)...), nil
	default:
		return nil, fmt.Errorf("unsupported host OS: %s", id)
	}
}

// downloadFile fetches url into destFile with a progress bar, guarded by
// a flock so two invocations never race on the same path.
func downloadFile(ctx context.Context, url, destFile string) error {
	if err := os.MkdirAll(filepath.Dir(destFile), 0o755); err != nil {
		return err
	}

	lockPath := destFile + ".lock"
	lFile, err := os.Create(lockPath)
	if err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	defer lFile.Close()

	if err := unix.Flock(int(lFile.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("failed to acquire lock for download: %w", err)
	}
	defer unix.Flock(int(lFile.Fd()), unix.LOCK_UN)
	defer os.Remove(lockPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	out, err := os.OpenFile(destFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	defer out.Close()

	bar := progressbar.DefaultBytes(resp.ContentLength, "downloading rustup-init")
	_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
	return err
}

// bootstrapRustup downloads and runs rustup-init when rustup is absent.
func bootstrapRustup(ctx context.Context, cfg *Config) error {
	if _, err := exec.LookPath(rustupBin(cfg)); err == nil {
		colArrow.Print("-> ")
		colSuccess.Println("rustup already installed")
		return nil
	}

	dest := filepath.Join(os.TempDir(), "rustup-init.sh")
	colArrow.Print("-> ")
	colNote.Println("Bootstrapping rustup")
	if err := downloadFile(ctx, rustupInitURL, dest); err != nil {
		return fmt.Errorf("fetching rustup-init: %w", err)
	}

	cmd := exec.Command("sh", dest, "-y", "--default-toolchain", "nightly")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	installExec := &Executor{Context: ctx, Interactive: true}
	if err := installExec.Run(cmd); err != nil {
		return fmt.Errorf("rustup-init failed: %w", err)
	}
	return nil
}

// runDepsCommand implements `exobuild deps`: one-shot host setup for the
// whole tool family.
func runDepsCommand(ctx context.Context, cfg *Config) int {
	id, err := detectHostOS()
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	pkgs, ok := hostPackages[id]
	if !ok {
		colError.Printf("unsupported host OS: %s\n", id)
		return 1
	}

	colArrow.Print("-> ")
	colNote.Printf("Installing host packages for %s\n", id)
	cmd, err := installCommand(id, pkgs)
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	installExec := &Executor{Context: ctx, Interactive: true}
	if err := installExec.Run(cmd); err != nil {
		colError.Printf("package install failed: %v\n", err)
		return 1
	}

	if err := bootstrapRustup(ctx, cfg); err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	colArrow.Print("-> ")
	colSuccess.Println("Host dependencies ready")
	return 0
}
