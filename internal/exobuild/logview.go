package exobuild

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ulikunitz/xz"
)

// openLog returns a reader over the retained log for one target,
// transparently decompressing the archived form of successful builds.
func openLog(t Target) (io.ReadCloser, error) {
	if f, err := os.Open(t.LogPath()); err == nil {
		return f, nil
	}

	f, err := os.Open(t.CompressedLogPath())
	if err != nil {
		return nil, fmt.Errorf("no build log found for %s", t.Arch)
	}
	xr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating xz reader: %w", err)
	}
	return struct {
		io.Reader
		io.Closer
	}{xr, f}, nil
}

// pageLog pipes one target's log through the user's pager, falling back
// to a plain dump when no pager works.
func pageLog(t Target) int {
	r, err := openLog(t)
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}
	pager := os.Getenv("PAGER")
	var args []string
	if pager == "" || pager == "less" {
		pager = "less"
		args = []string{"-r"}
	}

	cmd := exec.Command(pager, args...)
	cmd.Stdin = r
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()
	r.Close()
	if runErr != nil {
		// Pager unavailable; the reader may be partially consumed, so
		// reopen before dumping.
		if r2, err2 := openLog(t); err2 == nil {
			io.Copy(os.Stdout, r2)
			r2.Close()
		}
	}
	return 0
}

// runLogCommand implements `exobuild log [arch]`: one log through the
// pager, or the interactive browser over all of them.
func runLogCommand(args []string) int {
	if len(args) >= 1 {
		t, err := resolveTarget(args[0])
		if err != nil {
			colError.Printf("%v\n", err)
			return 1
		}
		return pageLog(t)
	}
	return runLogTUI()
}
