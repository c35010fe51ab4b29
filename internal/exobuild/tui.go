package exobuild

import (
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type logEntry struct {
	arch    string
	content string
}

// loadLogEntries reads every per-arch log that exists, archived or not.
func loadLogEntries() []logEntry {
	var entries []logEntry
	for _, t := range targetCatalog {
		r, err := openLog(t)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		entries = append(entries, logEntry{arch: t.Arch, content: string(data)})
	}
	return entries
}

// runLogTUI shows a tabbed browser over the per-arch build logs.
// Left/Right switch targets, Esc or q quits.
func runLogTUI() int {
	logs := loadLogEntries()
	if len(logs) == 0 {
		colWarn.Println("No build logs found.")
		return 1
	}

	app := tview.NewApplication()
	active := 0

	header := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetTextAlign(tview.AlignLeft)
	header.SetBorder(true)
	header.SetTitle("exobuild log viewer")

	logView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetScrollable(true).
		SetChangedFunc(func() {
			app.Draw()
		})
	logView.SetBorder(true)

	footer := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignLeft)
	footer.SetBorder(true)
	footer.SetText("[yellow]←/→[-] switch target   [yellow]↑/↓[-] scroll   [yellow]q/Esc[-] quit")

	update := func() {
		entry := logs[active]
		header.SetText(fmt.Sprintf("[::b]%s[-] (%d/%d)", entry.arch, active+1, len(logs)))
		logView.SetText(tview.TranslateANSI(entry.content))
		logView.ScrollToEnd()
	}

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, false).
		AddItem(logView, 0, 1, true).
		AddItem(footer, 3, 0, false)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc, tcell.KeyCtrlQ:
			app.Stop()
			return nil
		case tcell.KeyLeft:
			active--
			if active < 0 {
				active = len(logs) - 1
			}
			update()
			return nil
		case tcell.KeyRight:
			active = (active + 1) % len(logs)
			update()
			return nil
		}
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	update()
	if err := app.SetRoot(flex, true).Run(); err != nil {
		colError.Printf("TUI error: %v\n", err)
		return 1
	}
	return 0
}
