package exobuild

import (
	"context"
	"fmt"
)

// ensureToolchain runs once before any per-target work. A missing rustup
// or cargo aborts the whole run: no target could succeed and there is
// nothing to isolate. A missing rust-src component gets one remedial
// install; if that fails every subsequent build would fail identically,
// so it is fatal too. Checking up front avoids N identical failures.
func ensureToolchain(ctx context.Context, cfg *Config, tc Toolchain) error {
	if err := tc.Check(); err != nil {
		return fmt.Errorf("toolchain missing, run 'exobuild deps' first: %w", err)
	}

	// Bare-metal targets need the rust-src component for core/alloc.
	ok, err := tc.HasComponent(ctx, "rust-src")
	if err != nil {
		return err
	}
	if !ok {
		colArrow.Print("-> ")
		colNote.Println("Installing missing rust-src component")
		if err := tc.AddComponent(ctx, "rust-src"); err != nil {
			return fmt.Errorf("rust-src install failed: %w", err)
		}
	}
	return nil
}
