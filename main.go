// main is the entry point of the fpstats CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/fpstats/cmd"
	"github.com/huangsam/fpstats/internal/statstore"
)

func main() {
	err := cmd.Execute()
	if perr := cmd.StopProfiling(); perr != nil {
		_, _ = fmt.Fprintln(os.Stderr, "⚠️ ", perr)
	}
	statstore.CloseStores()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
