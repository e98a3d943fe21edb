package main

import (
	"github.com/Deepak-techy/QuickLink-Url-Shortner/cmd"

	// Subcommands register themselves with the root command on import.
	_ "github.com/Deepak-techy/QuickLink-Url-Shortner/cmd/cli"
	_ "github.com/Deepak-techy/QuickLink-Url-Shortner/cmd/server"
)

func main() {
	cmd.Execute()
}
