package exobuild

import (
	"slices"
	"strings"
	"testing"
)

func TestInstallCommandDispatch(t *testing.T) {
	cases := []struct {
		id      string
		wantSub string
	}{
		{"debian", "apt-get"},
		{"ubuntu", "apt-get"},
		{"fedora", "dnf"},
		{"arch", "pacman"},
		{"opensuse-tumbleweed", "zypper"},
	}
	for _, c := range cases {
		cmd, err := installCommand(c.id, hostPackages[c.id])
		if err != nil {
			t.Fatalf("installCommand(%s) error: %v", c.id, err)
		}
		joined := strings.Join(cmd.Args, " ")
		if !strings.Contains(joined, c.wantSub) {
			t.Fatalf("%s command %q missing %q", c.id, joined, c.wantSub)
		}
	}
}

func TestInstallCommandUnsupportedOS(t *testing.T) {
	if _, err := installCommand("plan9", nil); err == nil {
		t.Fatal("unsupported OS did not error")
	}
}

func TestHostPackagesCoverToolFamily(t *testing.T) {
	// Every supported distro needs the image tool and at least one qemu.
	for id, pkgs := range hostPackages {
		hasISO := slices.Contains(pkgs, "xorriso")
		if !hasISO {
			t.Fatalf("%s package set lacks xorriso: %v", id, pkgs)
		}
		hasQemu := false
		for _, p := range pkgs {
			if strings.Contains(p, "qemu") {
				hasQemu = true
			}
		}
		if !hasQemu {
			t.Fatalf("%s package set lacks qemu: %v", id, pkgs)
		}
	}
}
