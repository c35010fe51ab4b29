package exobuild

import (
	"os"
	"path/filepath"
)

// runCleanCommand removes everything the tool family generates: cargo
// output, logs, aliases, images and dist archives. Always exits 0 so it
// can close out CI jobs unconditionally.
func runCleanCommand(cfg *Config, prompter Prompter) int {
	colArrow.Print("-> ")
	colWarn.Printf("This removes build outputs under %s and %s.\n", filepath.Join(kernelDir, "target"), buildDir)
	if !prompter.AskYesNo("Are you sure you want to proceed?", isoPromptTimeout) {
		colArrow.Print("-> ")
		colSuccess.Println("Cleanup canceled.")
		return 0
	}

	paths := []string{
		filepath.Join(kernelDir, "target"),
		logDir,
		isoDir,
		distDir,
	}
	for _, t := range targetCatalog {
		paths = append(paths, t.AliasPath(), t.ISOPath())
	}

	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			colWarn.Printf("could not remove %s: %v\n", p, err)
		}
	}

	colArrow.Print("-> ")
	colSuccess.Println("Build outputs removed.")
	return 0
}
