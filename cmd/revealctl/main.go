// Command revealctl drives a running reveal server from the terminal.
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

func newCommandRegistry(c *client) *Registry {
	r := NewRegistry()
	r.Register(&HealthCommand{c: c})
	r.Register(&CreateCommand{c: c})
	r.Register(&PlayCommand{c: c})
	r.Register(&AckCommand{c: c})
	r.Register(&StatusCommand{c: c})
	r.Register(&WatchCommand{c: c})
	r.Register(&DeleteCommand{c: c})
	r.Register(&ReloadCommand{c: c})
	return r
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	registry := newCommandRegistry(newClient(os.Getenv("API_URL"), os.Getenv("API_KEY")))

	if len(os.Args) < 2 {
		registry.PrintHelp(os.Stdout)
		os.Exit(1)
	}

	cmd, ok := registry.Get(os.Args[1])
	if !ok {
		PrintError("Unknown command: %s", os.Args[1])
		registry.PrintHelp(os.Stdout)
		os.Exit(1)
	}

	if err := cmd.Run(os.Args[2:]); err != nil {
		PrintError("%v", err)
		if errors.Is(err, errUsage) {
			PrintInfo("%s: %s", cmd.Name(), cmd.Description())
		}
		os.Exit(1)
	}
}
