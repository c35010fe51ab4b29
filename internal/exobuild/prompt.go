package exobuild

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// interactiveMu ensures only one interactive prompt reads stdin at a time.
var interactiveMu sync.Mutex

// Prompter answers yes/no questions. The production implementation reads
// the terminal with a deadline; tests substitute a canned answer.
type Prompter interface {
	AskYesNo(prompt string, timeout time.Duration) bool
}

// terminalPrompter reads stdin with a bounded wait so the pipeline stays
// usable under CI: an unanswered or non-interactive prompt resolves to
// the default answer after the timeout.
type terminalPrompter struct{}

func (terminalPrompter) AskYesNo(prompt string, timeout time.Duration) bool {
	interactiveMu.Lock()
	defer interactiveMu.Unlock()

	// No terminal attached, nobody can answer.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	colArrow.Print("-> ")
	colNote.Printf("%s [y/N] (%s timeout): ", prompt, timeout)

	answerCh := make(chan bool, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			answerCh <- false // Ctrl+D and friends default to "no"
			return
		}
		line = strings.ToLower(strings.TrimSpace(line))
		answerCh <- line == "y" || line == "yes"
	}()

	select {
	case ans := <-answerCh:
		return ans
	case <-time.After(timeout):
		fmt.Println()
		colWarn.Println("No answer, assuming no.")
		return false
	}
}
