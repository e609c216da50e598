// envmon-sim runs the monitor against the simulated board: interactively
// as a TUI, or headless against a scenario script with -script.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	script := flag.String("script", "", "scenario file to run headless")
	flag.Parse()

	if *script != "" {
		if err := runScriptFile(*script); err != nil {
			fmt.Fprintln(os.Stderr, "scenario:", err)
			os.Exit(1)
		}
		fmt.Println("scenario passed")
		return
	}

	runTUI()
}
