package exobuild

import (
	"time"
)

// FailReason classifies why a single target failed. Per-target reasons
// are isolated: they are converted into an outcome at the build executor
// boundary and never abort the remaining targets.
type FailReason int

const (
	// TargetUnsupported: rustup could not install the target, the
	// compiler was never invoked.
	TargetUnsupported FailReason = iota
	// CompileFailure: cargo exited nonzero.
	CompileFailure
	// ArtifactMissing: cargo exited zero but the expected binary is not
	// on disk. Reported separately from CompileFailure so the root cause
	// stays diagnosable.
	ArtifactMissing
)

func (r FailReason) String() string {
	switch r {
	case TargetUnsupported:
		return "target unsupported by toolchain"
	case CompileFailure:
		return "compile failed"
	case ArtifactMissing:
		return "artifact missing after build"
	default:
		return "unknown failure"
	}
}

// BuildOutcome is produced exactly once per target per session and never
// mutated afterwards.
type BuildOutcome struct {
	OK           bool
	Duration     time.Duration
	ArtifactSize int64
	Checksum     string // BLAKE3-256 hex of the artifact, success only
	Reason       FailReason
	LogPath      string // retained log, failure only
}

// TargetResult pairs a target with its outcome, in processing order.
type TargetResult struct {
	Target  Target
	Outcome BuildOutcome
}

// Session is the complete ordered record of one orchestrator run. It is
// an explicit value threaded through the build loop, appended to by
// Record, and frozen by Finalize before the reporter sees it.
type Session struct {
	Results   []TargetResult
	StartedAt time.Time
	EndedAt   time.Time
	frozen    bool
}

func newSession() *Session {
	return &Session{StartedAt: time.Now()}
}

// Record appends one outcome in call order. Outcomes are never
// overwritten or removed; Record on a finalized session is a programming
// error and is ignored.
func (s *Session) Record(t Target, o BuildOutcome) {
	if s.frozen {
		return
	}
	s.Results = append(s.Results, TargetResult{Target: t, Outcome: o})
}

// Finalize freezes the session and stamps the end time.
func (s *Session) Finalize() {
	if !s.frozen {
		s.EndedAt = time.Now()
		s.frozen = true
	}
}

// TotalDuration is the wall-clock time of the whole run.
func (s *Session) TotalDuration() time.Duration {
	end := s.EndedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(s.StartedAt)
}

// Successes returns the successful results in processing order.
func (s *Session) Successes() []TargetResult {
	var out []TargetResult
	for _, r := range s.Results {
		if r.Outcome.OK {
			out = append(out, r)
		}
	}
	return out
}

// Failures returns the failed results in processing order.
func (s *Session) Failures() []TargetResult {
	var out []TargetResult
	for _, r := range s.Results {
		if !r.Outcome.OK {
			out = append(out, r)
		}
	}
	return out
}

// ExitCode is 0 only when every recorded outcome succeeded.
func (s *Session) ExitCode() int {
	for _, r := range s.Results {
		if !r.Outcome.OK {
			return 1
		}
	}
	return 0
}
