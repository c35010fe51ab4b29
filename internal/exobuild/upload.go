package exobuild

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// runUploadCommand pushes dist archives and authored images to the
// configured bucket. Release publishing is separate from the build exit
// code: it only ever runs on demand.
func runUploadCommand(ctx context.Context, cfg *Config) int {
	client, err := NewReleaseClient(cfg)
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	var files []string
	if entries, err := os.ReadDir(distDir); err == nil {
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tar.zst") {
				files = append(files, filepath.Join(distDir, e.Name()))
			}
		}
	}
	for _, t := range targetCatalog {
		if _, err := os.Stat(t.ISOPath()); err == nil {
			files = append(files, t.ISOPath())
		}
	}

	if len(files) == 0 {
		colError.Println("Nothing to upload, run 'exobuild dist' or 'exobuild iso' first.")
		return 1
	}

	failed := 0
	for _, f := range files {
		if ctx.Err() != nil {
			return 130
		}
		key := "releases/" + filepath.Base(f)
		colArrow.Print("-> ")
		colNote.Printf("Uploading %s\n", key)
		if err := client.UploadLocalFile(ctx, key, f); err != nil {
			colError.Printf("upload of %s failed: %v\n", key, err)
			failed++
		}
	}

	if failed > 0 {
		return 1
	}
	colArrow.Print("-> ")
	colSuccess.Printf("Uploaded %d file(s)\n", len(files))
	return 0
}
