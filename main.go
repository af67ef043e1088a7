// main is the entry point for the archmine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/archmine/cmd"
	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	iocache.CloseCaching()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
