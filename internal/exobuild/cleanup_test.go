package exobuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCleanRemovesOutputs(t *testing.T) {
	setupDirs(t)
	tc := newFakeToolchain()
	tgt, _ := resolveTarget("x86_64")
	if out := buildTarget(context.Background(), tc, tgt); !out.OK {
		t.Fatalf("setup build failed: %+v", out)
	}

	code := runCleanCommand(&Config{Values: map[string]string{}}, &fixedPrompter{answer: true})
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}

	for _, p := range []string{
		filepath.Join(kernelDir, "target"),
		logDir,
		tgt.AliasPath(),
	} {
		if _, err := os.Lstat(p); !os.IsNotExist(err) {
			t.Fatalf("%s survived cleanup", p)
		}
	}
}

func TestCleanDeclinedKeepsOutputs(t *testing.T) {
	setupDirs(t)
	tc := newFakeToolchain()
	tgt, _ := resolveTarget("x86_64")
	if out := buildTarget(context.Background(), tc, tgt); !out.OK {
		t.Fatalf("setup build failed: %+v", out)
	}

	code := runCleanCommand(&Config{Values: map[string]string{}}, &fixedPrompter{answer: false})
	if code != 0 {
		t.Fatalf("exit = %d, want 0 even when declined", code)
	}
	if _, err := os.Lstat(tgt.AliasPath()); err != nil {
		t.Fatal("declined cleanup still removed the alias")
	}
}
