package cli

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"

	"github.com/julianstephens/go-utils/cliutil"
	"github.com/julianstephens/redolog/internal/logger"
	"github.com/julianstephens/redolog/internal/redolog"
	"github.com/julianstephens/redolog/internal/redolog/db"
)

// ShellCmd runs an interactive session against one open database instance.
type ShellCmd struct {
	Dir string `help:"Database directory" default:"." type:"path"`
}

func (c *ShellCmd) Run(lg logger.Logger) error {
	database, err := db.OpenWithOptions(c.Dir, redolog.OpenOptions{}, lg)
	if err != nil {
		cliutil.PrintError("Failed to open database: " + err.Error())
		return err
	}
	defer func() { _ = database.Close() }()

	line := liner.NewLiner()
	defer func() { _ = line.Close() }()
	line.SetCtrlCAborts(true)

	fmt.Println("redolog shell")
	fmt.Println("commands: set <key> <value> | get <key> | del <key> | dump | checkpoint | stats | exit")

	for {
		input, err := line.Prompt("redolog> ")
		if err != nil {
			// io.EOF or liner.ErrPromptAborted
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if done := c.dispatch(database, input); done {
			return nil
		}
	}
}

func (c *ShellCmd) dispatch(database *db.DB, input string) (done bool) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "set":
		if len(parts) < 3 {
			fmt.Println("usage: set <key> <value>")
			return false
		}
		// Everything after the key is the value; values may contain spaces.
		value := strings.Join(parts[2:], " ")
		if err := database.Set(parts[1], value); err != nil {
			fmt.Printf("set error: %v\n", err)
			return false
		}
		fmt.Println("ok")

	case "get":
		if len(parts) != 2 {
			fmt.Println("usage: get <key>")
			return false
		}
		value, ok, err := database.Get(parts[1])
		if err != nil {
			fmt.Printf("get error: %v\n", err)
			return false
		}
		if !ok {
			fmt.Println("(not found)")
			return false
		}
		fmt.Println(value)

	case "del":
		if len(parts) != 2 {
			fmt.Println("usage: del <key>")
			return false
		}
		if err := database.Delete(parts[1]); err != nil {
			fmt.Printf("del error: %v\n", err)
			return false
		}
		fmt.Println("ok")

	case "dump":
		payloads, err := database.Entries()
		if err != nil {
			fmt.Printf("dump error: %v\n", err)
			return false
		}
		for i, payload := range payloads {
			fmt.Printf("%d: %s\n", i, string(payload))
		}
		fmt.Printf("(%d entries)\n", len(payloads))

	case "checkpoint":
		if err := database.Checkpoint(); err != nil {
			fmt.Printf("checkpoint error: %v\n", err)
			return false
		}
		fmt.Println("checkpoint complete")

	case "stats":
		stats, err := database.Stats()
		if err != nil {
			fmt.Printf("stats error: %v\n", err)
			return false
		}
		fmt.Printf("wal_size_bytes=%d wal_entries=%d keys=%d\n",
			stats.WalSizeBytes, stats.WalEntries, stats.Keys)

	case "exit", "quit":
		return true

	default:
		fmt.Printf("unknown command: %s\n", cmd)
	}
	return false
}
