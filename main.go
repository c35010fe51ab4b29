package main

import "exobuild/internal/exobuild"

func main() {
	exobuild.Main()
}
