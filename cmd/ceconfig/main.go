// Command ceconfig edits the game configuration files of the Conquest
// Enhanced mod and switches its war period.
//
// Usage:
//
//	./ceconfig [--config config.json] [--debug]
//	./ceconfig period set early
//	./ceconfig set win-points 24000
//
// Run without a sub-command in a terminal to open the full-screen editor.
package main

import (
	"fmt"
	"os"

	"github.com/conquest-enhanced/ceconfig/internal/util"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if hint := util.GetErrorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
