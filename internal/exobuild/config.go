package exobuild

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Config struct
type Config struct {
	Values map[string]string
}

// loadConfig reads a key=value config file and applies defaults.
// A missing file is not an error: every key has a sane default and
// EXOBUILD_* environment variables override everything.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{Values: make(map[string]string)}

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			val = strings.Trim(val, `"'`)
			cfg.Values[key] = val
		}
		if err := scanner.Err(); err != nil {
			return cfg, err
		}
	}

	mergeEnvOverrides(cfg)

	return cfg, nil
}

// Merge EXOBUILD_* env overrides
func mergeEnvOverrides(cfg *Config) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "EXOBUILD_") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				cfg.Values[parts[0]] = parts[1]
			}
		}
	}
}

func initConfig(cfg *Config) {
	kernelDir = cfg.Values["EXOBUILD_KERNEL_DIR"]
	if kernelDir == "" {
		kernelDir = "."
	}

	buildDir = cfg.Values["EXOBUILD_BUILD_DIR"]
	if buildDir == "" {
		buildDir = filepath.Join(kernelDir, "build")
	}

	Debug = cfg.Values["EXOBUILD_DEBUG"] == "1"
	Verbose = cfg.Values["EXOBUILD_VERBOSE"] == "1"

	logDir = filepath.Join(buildDir, "logs")
	distDir = filepath.Join(buildDir, "dist")
	isoDir = filepath.Join(buildDir, "iso")
}

// cargoBin returns the cargo binary to invoke, honoring an override so a
// pinned toolchain wrapper can be substituted.
func cargoBin(cfg *Config) string {
	if v := cfg.Values["EXOBUILD_CARGO"]; v != "" {
		return v
	}
	return "cargo"
}

func rustupBin(cfg *Config) string {
	if v := cfg.Values["EXOBUILD_RUSTUP"]; v != "" {
		return v
	}
	return "rustup"
}
