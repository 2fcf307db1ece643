// Command clario summarizes legal text, flags risky clauses and answers legal
// questions from the terminal. "clario mcp" serves the same tools over MCP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
