// Command zephyr is the Zephyr interpreter and compiler entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/mochacinno-dev/zephyr/internal/replcli"
)

func main() {
	if err := replcli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
