package exobuild

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// multiboot2Magic is the header magic a bootable kernel image must carry
// in its leading bytes.
const multiboot2Magic uint32 = 0xE85250D6

// verifyHeader checks the first four bytes of an artifact against the
// multiboot2 magic.
func verifyHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	var head [4]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		return false, fmt.Errorf("reading header: %w", err)
	}
	return binary.BigEndian.Uint32(head[:]) == multiboot2Magic, nil
}

// runVerifyCommand implements `exobuild verify <artifact>`: magic check
// plus a BLAKE3 digest for release bookkeeping.
func runVerifyCommand(args []string) int {
	if len(args) < 1 {
		colError.Println("Usage: exobuild verify <artifact>")
		return 1
	}
	path := args[0]

	ok, err := verifyHeader(path)
	if err != nil {
		colError.Printf("%v\n", err)
		return 1
	}

	if sum, err := blake3File(path); err == nil {
		colNote.Printf("blake3: %s\n", sum)
	}

	if !ok {
		colError.Printf("%s: multiboot2 magic mismatch\n", path)
		return 1
	}
	colArrow.Print("-> ")
	colSuccess.Printf("%s: multiboot2 header OK\n", path)
	return 0
}
