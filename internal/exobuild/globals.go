package exobuild

import (
	"errors"
	"runtime"

	"github.com/gookit/color"
)

// Global variables
var (
	kernelDir  string
	buildDir   string
	logDir     string
	distDir    string
	isoDir     string
	Debug      bool
	Verbose    bool
	ConfigFile = "exobuild.conf"
	version    = "dev"     // default version; overridden at build time
	buildDate  = "unknown" // overridden at build time
	hostArch   = runtime.GOARCH

	errUnsupportedArch = errors.New("unsupported architecture")

	// Global executor (declared, assigned in Main)
	BuildExec *Executor
)

// color helpers
var (
	colInfo    = color.Info
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
	colNote    = color.Tag("notice")
)

func debugf(format string, a ...any) {
	if Debug {
		colInfo.Printf(format, a...)
	}
}
