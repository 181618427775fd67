package main

import (
	"fmt"
	"os"

	"cardview/internal/state"
	"cardview/pkg/cmd/root"
)

func main() {
	s, err := state.NewState(os.Getenv("CARDVIEW_VAULT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cardview: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	rootCmd, err := root.NewCmdRoot(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cardview: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
