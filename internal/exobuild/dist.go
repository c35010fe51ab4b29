package exobuild

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// runDistCommand packs every built artifact plus a BLAKE3 checksum
// manifest into a single tar.zst under the dist directory.
func runDistCommand(cfg *Config) int {
	var built []Target
	for _, t := range targetCatalog {
		if _, err := os.Stat(t.ArtifactPath()); err == nil {
			built = append(built, t)
		}
	}
	if len(built) == 0 {
		colError.Println("No artifacts to package, run 'exobuild build' first.")
		return 1
	}

	if err := os.MkdirAll(distDir, 0o755); err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	stamp := time.Now().Format("20060102")
	outPath := filepath.Join(distDir, fmt.Sprintf("exokernel-%s-%s.tar.zst", version, stamp))

	if err := writeDistArchive(outPath, built); err != nil {
		colError.Printf("dist failed: %v\n", err)
		return 1
	}

	colArrow.Print("-> ")
	colSuccess.Printf("Packaged %d artifact(s) into %s\n", len(built), outPath)
	return 0
}

func writeDistArchive(outPath string, targets []Target) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)

	var manifest strings.Builder
	for _, t := range targets {
		name := "exokernel-" + t.Arch + ".elf"
		if err := addFileToTar(tw, t.ArtifactPath(), name); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		sum, err := blake3File(t.ArtifactPath())
		if err != nil {
			return err
		}
		fmt.Fprintf(&manifest, "%s  %s\n", sum, name)
	}

	hdr := &tar.Header{
		Name:    "B3SUMS",
		Mode:    0o644,
		Size:    int64(manifest.Len()),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.WriteString(tw, manifest.String()); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return zw.Close()
}

func addFileToTar(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	hdr := &tar.Header{
		Name:    name,
		Mode:    0o755,
		Size:    st.Size(),
		ModTime: st.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
