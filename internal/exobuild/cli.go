package exobuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
)

// printHelp prints the commands table
func printHelp() {
	colSuccess.Println("Usage: exobuild <command> [arguments]")
	fmt.Println()
	color.Info.Println("Available Commands:")

	type cmdInfo struct {
		Cmd  string
		Args string
		Desc string
	}
	cmds := []cmdInfo{
		{"build, b", "[arch]", "Build every cataloged target, or a single one"},
		{"deps", "", "Install host packages and bootstrap the Rust toolchain"},
		{"iso", "[arch]", "Author a bootable image around a built artifact"},
		{"run", "<arch> [debug|gdb] [iso]", "Launch the kernel in qemu"},
		{"verify", "<artifact>", "Check the multiboot2 header magic"},
		{"log", "[arch]", "View one build log, or browse all of them"},
		{"dist", "", "Package built artifacts into a tar.zst archive"},
		{"upload", "", "Push dist archives and images to the release bucket"},
		{"clean", "", "Remove build outputs, images, aliases and logs"},
		{"version, --version", "", "Version information"},
	}

	maxLen := 0
	for _, c := range cmds {
		length := len(c.Cmd) + len(c.Args)
		if c.Args != "" {
			length++
		}
		if length > maxLen {
			maxLen = length
		}
	}
	columnWidth := maxLen + 4

	for _, c := range cmds {
		var usageString string
		if c.Args != "" {
			usageString = fmt.Sprintf("  %s %s", c.Cmd, c.Args)
		} else {
			usageString = fmt.Sprintf("  %s", c.Cmd)
		}

		fmt.Print("  ")
		color.Bold.Print(c.Cmd)
		if c.Args != "" {
			fmt.Print(" ")
			color.Cyan.Print(c.Args)
		}

		pad := columnWidth - len(usageString)
		if pad < 1 {
			pad = 1
		}
		fmt.Print(strings.Repeat(" ", pad))
		color.Info.Println(c.Desc)
	}

	fmt.Println()
}

// Main is the CLI entrypoint for cmd/exobuild.
func Main() {
	// 1. CONTEXT AND SIGNAL SETUP
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	// 2. SIGNAL HANDLING GOROUTINE
	// An interrupt cancels the context; the build loop notices between
	// targets and unwinds with exit 130, skipping the summary. A second
	// signal or a stuck child forces immediate exit.
	go func() {
		select {
		case sig := <-sigs:
			colArrow.Print("\n-> ")
			color.Danger.Printf("Received %v. Cancelling process gracefully\n", sig)
			cancel()
			time.Sleep(100 * time.Millisecond)

			select {
			case <-sigs:
				colArrow.Print("\n-> ")
				color.Danger.Println("Second interrupt received. Forcing immediate exit.")
				os.Exit(130)
			case <-time.After(2 * time.Second):
				colArrow.Print("\n-> ")
				color.Danger.Println("Graceful shutdown timeout. Exiting.")
				os.Exit(130)
			}
		case <-ctx.Done():
		}
	}()

	if len(os.Args) < 2 {
		printHelp()
		return
	}

	configPath := ConfigFile
	if p := os.Getenv("EXOBUILD_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed: %v\n", err)
	}
	initConfig(cfg)

	// 3. INITIALIZE EXECUTOR AND TOOLCHAIN
	BuildExec = &Executor{Context: ctx}
	tc := newRustToolchain(cfg, BuildExec)
	var prompter Prompter = terminalPrompter{}

	// 4. DISPATCH
	var exitCode int

	switch os.Args[1] {
	case "build", "b":
		var code int
		var err error
		if len(os.Args) >= 3 {
			code, err = runBuildOne(ctx, cfg, tc, os.Args[2])
		} else {
			code, err = runBuildAll(ctx, cfg, tc, prompter)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				os.Exit(130)
			}
			colError.Printf("%v\n", err)
		}
		exitCode = code

	case "deps":
		exitCode = runDepsCommand(ctx, cfg)

	case "iso":
		exitCode = runISOCommand(ctx, cfg, os.Args[2:])

	case "run":
		exitCode = runQemuCommand(ctx, cfg, os.Args[2:])

	case "verify":
		exitCode = runVerifyCommand(os.Args[2:])

	case "log":
		exitCode = runLogCommand(os.Args[2:])

	case "dist":
		exitCode = runDistCommand(cfg)

	case "upload":
		exitCode = runUploadCommand(ctx, cfg)

	case "clean":
		exitCode = runCleanCommand(cfg, prompter)

	case "version", "--version":
		colSuccess.Printf("exobuild %s (%s) built %s\n", version, hostArch, buildDate)

	default:
		colError.Printf("Unknown command: %s\n", os.Args[1])
		printHelp()
		exitCode = 1
	}

	if ctx.Err() != nil {
		os.Exit(130)
	}
	os.Exit(exitCode)
}
