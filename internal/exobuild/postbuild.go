package exobuild

import (
	"context"
	"time"
)

// isoPromptTimeout bounds the post-build prompt so unattended runs fall
// through to "no" instead of hanging.
const isoPromptTimeout = 15 * time.Second

// offerImageAuthoring runs after the report, only when at least one
// target succeeded. Packaging is best-effort and strictly secondary: the
// session exit code is already final and nothing here changes it.
func offerImageAuthoring(ctx context.Context, cfg *Config, s *Session, prompter Prompter) {
	if !prompter.AskYesNo("Generate bootable image(s) for successful target(s)?", isoPromptTimeout) {
		return
	}

	for _, r := range s.Successes() {
		if ctx.Err() != nil {
			return
		}
		if !r.Target.ISO {
			colWarn.Printf("Skipping %s: no bootable image support\n", r.Target.Arch)
			continue
		}
		if err := authorISO(ctx, cfg, r.Target); err != nil {
			colArrow.Print("-> ")
			colWarn.Printf("Image authoring for %s failed: %v\n", r.Target.Arch, err)
		}
	}
}
