package exobuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
	"lukechampine.com/blake3"
)

// buildTarget drives one target through the toolchain and converts every
// per-target error into a BuildOutcome. Nothing in here propagates past
// the main loop: one broken target must stay invisible to the next.
func buildTarget(ctx context.Context, tc Toolchain, t Target) BuildOutcome {
	// 1. Ensure target support is installed. If rustup cannot install
	// the triple the compiler is never invoked at all.
	if err := tc.AddTarget(ctx, t.Triple); err != nil {
		debugf("target add failed for %s: %v\n", t.Arch, err)
		return BuildOutcome{Reason: TargetUnsupported}
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		colError.Printf("cannot create log directory: %v\n", err)
		return BuildOutcome{Reason: CompileFailure, LogPath: t.LogPath()}
	}

	// 2. Invoke the compiler with output captured to the per-arch log.
	// os.Create truncates, so a rerun overwrites the previous attempt.
	logFile, err := os.Create(t.LogPath())
	if err != nil {
		colError.Printf("cannot create log file: %v\n", err)
		return BuildOutcome{Reason: CompileFailure, LogPath: t.LogPath()}
	}

	var logw io.Writer = logFile
	if Verbose || Debug {
		logw = io.MultiWriter(os.Stdout, logFile)
	}

	start := time.Now()
	runErr := runWithTicker(ctx, t, start, func() error {
		return tc.Build(ctx, t, logw)
	})
	logFile.Close()
	elapsed := time.Since(start).Truncate(time.Millisecond)

	// 3. The artifact check is independent of the process exit status: a
	// compiler driver can exit zero without leaving a usable binary, so
	// success is "artifact exists", not "process exited zero".
	st, statErr := os.Stat(t.ArtifactPath())
	if runErr != nil {
		return BuildOutcome{Duration: elapsed, Reason: CompileFailure, LogPath: t.LogPath()}
	}
	if statErr != nil {
		return BuildOutcome{Duration: elapsed, Reason: ArtifactMissing, LogPath: t.LogPath()}
	}

	// 4. Artifact present: checksum it, refresh the alias, and archive
	// the log the way installed packages keep theirs.
	sum, err := blake3File(t.ArtifactPath())
	if err != nil {
		debugf("checksum failed for %s: %v\n", t.Arch, err)
	}
	if err := updateAlias(t); err != nil {
		colWarn.Printf("alias update failed for %s: %v\n", t.Arch, err)
	}
	if err := compressLog(t); err != nil {
		debugf("log compression failed for %s: %v\n", t.Arch, err)
	}

	return BuildOutcome{
		OK:           true,
		Duration:     elapsed,
		ArtifactSize: st.Size(),
		Checksum:     sum,
	}
}

// runWithTicker runs fn while printing a one-line elapsed counter, the
// same feedback loop long package builds get. Quiet when verbose: the
// compiler output is already scrolling by.
func runWithTicker(ctx context.Context, t Target, start time.Time, fn func() error) error {
	doneCh := make(chan struct{})
	defer close(doneCh)

	if !Verbose && !Debug {
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					elapsed := time.Since(start).Truncate(time.Second)
					colArrow.Print("-> ")
					colSuccess.Printf("Building %s elapsed: %s\r", t.Arch, elapsed)
				case <-doneCh:
					fmt.Print("\r")
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	return fn()
}

// updateAlias points the stable per-arch name at the freshly built
// artifact, replacing whatever the previous run left behind.
func updateAlias(t Target) error {
	alias := t.AliasPath()
	if err := os.MkdirAll(filepath.Dir(alias), 0o755); err != nil {
		return err
	}
	abs, err := filepath.Abs(t.ArtifactPath())
	if err != nil {
		return err
	}
	if err := os.Remove(alias); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(abs, alias)
}

// compressLog archives a successful build's log as .log.xz and removes
// the plain file. Failure logs stay uncompressed for quick inspection.
func compressLog(t Target) error {
	in, err := os.Open(t.LogPath())
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(t.CompressedLogPath())
	if err != nil {
		return err
	}
	defer out.Close()

	xw, err := xz.NewWriter(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(xw, in); err != nil {
		return err
	}
	if err := xw.Close(); err != nil {
		return err
	}
	return os.Remove(t.LogPath())
}

// blake3File returns the BLAKE3-256 hex digest of a file.
func blake3File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// runBuildAll is the main orchestration loop: preflight once, then every
// cataloged target in fixed order, strictly sequentially. Targets share
// one output tree and one toolchain environment, so sequencing is the
// concurrency control.
func runBuildAll(ctx context.Context, cfg *Config, tc Toolchain, prompter Prompter) (int, error) {
	if err := ensureToolchain(ctx, cfg, tc); err != nil {
		return 1, err
	}

	session := newSession()
	for _, t := range targetCatalog {
		// Cancellation is checked between targets; an in-flight cargo
		// call is not preemptible beyond the context kill in Executor.
		if ctx.Err() != nil {
			return 130, ctx.Err()
		}

		colArrow.Print("-> ")
		colNote.Printf("Building %s (%s)\n", t.Arch, t.Triple)
		session.Record(t, buildTarget(ctx, tc, t))
	}
	session.Finalize()

	fmt.Print(renderReport(session))

	if len(session.Successes()) > 0 {
		offerImageAuthoring(ctx, cfg, session, prompter)
	}

	return session.ExitCode(), nil
}

// runBuildOne is the single-target path used by the image-authoring
// step. It resolves through the same catalog as the main loop.
func runBuildOne(ctx context.Context, cfg *Config, tc Toolchain, arch string) (int, error) {
	session := newSession()

	t, err := resolveTarget(arch)
	if err != nil {
		// Unknown names still yield exactly one recorded outcome; the
		// compiler is never started for them.
		colError.Printf("%v\n", err)
		session.Record(Target{Arch: arch}, BuildOutcome{Reason: TargetUnsupported})
		session.Finalize()
		fmt.Print(renderReport(session))
		return 1, nil
	}
	if err := ensureToolchain(ctx, cfg, tc); err != nil {
		return 1, err
	}

	session.Record(t, buildTarget(ctx, tc, t))
	session.Finalize()

	fmt.Print(renderReport(session))
	return session.ExitCode(), nil
}
