package cli

import (
	"fmt"

	"github.com/julianstephens/go-utils/cliutil"

	"github.com/julianstephens/redolog/internal/logger"
	"github.com/julianstephens/redolog/internal/redolog"
	"github.com/julianstephens/redolog/internal/redolog/db"
	"github.com/julianstephens/redolog/internal/redolog/manifest"
)

// InitCmd initializes a new database directory with a default manifest.
type InitCmd struct {
	Dir string `arg:"" help:"Database directory" type:"path"`
}

func (c *InitCmd) Run(lg logger.Logger) error {
	database, err := db.OpenWithOptions(c.Dir, redolog.OpenOptions{}, lg)
	if err != nil {
		cliutil.PrintError("Failed to initialize database: " + err.Error())
		return err
	}
	defer func() { _ = database.Close() }()

	fmt.Printf("initialized database at %s\n", c.Dir)
	return nil
}

// SetCmd stores a key-value pair.
type SetCmd struct {
	Dir   string `help:"Database directory" default:"." type:"path"`
	Key   string `arg:"" help:"Key to store"`
	Value string `arg:"" help:"Value to store"`
}

func (c *SetCmd) Run(lg logger.Logger) error {
	return withDB(c.Dir, lg, func(database *db.DB) error {
		if err := database.Set(c.Key, c.Value); err != nil {
			cliutil.PrintError("Failed to set key: " + err.Error())
			return err
		}
		fmt.Println("ok")
		return nil
	})
}

// GetCmd retrieves a value by key.
type GetCmd struct {
	Dir string `help:"Database directory" default:"." type:"path"`
	Key string `arg:"" help:"Key to retrieve"`
}

func (c *GetCmd) Run(lg logger.Logger) error {
	return withDB(c.Dir, lg, func(database *db.DB) error {
		value, ok, err := database.Get(c.Key)
		if err != nil {
			cliutil.PrintError("Failed to get key: " + err.Error())
			return err
		}
		if !ok {
			fmt.Printf("(not found) %s\n", c.Key)
			return nil
		}
		fmt.Println(value)
		return nil
	})
}

// DelCmd deletes a key.
type DelCmd struct {
	Dir string `help:"Database directory" default:"." type:"path"`
	Key string `arg:"" help:"Key to delete"`
}

func (c *DelCmd) Run(lg logger.Logger) error {
	return withDB(c.Dir, lg, func(database *db.DB) error {
		if err := database.Delete(c.Key); err != nil {
			cliutil.PrintError("Failed to delete key: " + err.Error())
			return err
		}
		fmt.Println("ok")
		return nil
	})
}

// DumpCmd prints every entry currently in the WAL.
type DumpCmd struct {
	Dir string `help:"Database directory" default:"." type:"path"`
}

func (c *DumpCmd) Run(lg logger.Logger) error {
	return withDB(c.Dir, lg, func(database *db.DB) error {
		payloads, err := database.Entries()
		if err != nil {
			cliutil.PrintError("Failed to read WAL: " + err.Error())
			return err
		}
		for i, payload := range payloads {
			fmt.Printf("%d: %s\n", i, string(payload))
		}
		fmt.Printf("(%d entries)\n", len(payloads))
		return nil
	})
}

// CheckpointCmd truncates the WAL after its entries have been applied.
type CheckpointCmd struct {
	Dir string `help:"Database directory" default:"." type:"path"`
}

func (c *CheckpointCmd) Run(lg logger.Logger) error {
	return withDB(c.Dir, lg, func(database *db.DB) error {
		if err := database.Checkpoint(); err != nil {
			cliutil.PrintError("Failed to checkpoint: " + err.Error())
			return err
		}
		fmt.Println("checkpoint complete")
		return nil
	})
}

// StatsCmd displays database statistics.
type StatsCmd struct {
	Dir string `help:"Database directory" default:"." type:"path"`
}

func (c *StatsCmd) Run(lg logger.Logger) error {
	return withDB(c.Dir, lg, func(database *db.DB) error {
		stats, err := database.Stats()
		if err != nil {
			cliutil.PrintError("Failed to collect stats: " + err.Error())
			return err
		}
		fmt.Printf("wal_size_bytes=%d wal_entries=%d keys=%d\n",
			stats.WalSizeBytes, stats.WalEntries, stats.Keys)
		return nil
	})
}

// ManifestCmd prints the manifest of a database directory.
type ManifestCmd struct {
	Dir string `help:"Database directory" default:"." type:"path"`
}

func (c *ManifestCmd) Run(lg logger.Logger) error {
	m, err := manifest.Open(c.Dir)
	if err != nil {
		cliutil.PrintError("Failed to open manifest: " + err.Error())
		return err
	}
	fmt.Printf("version=%d wal_file=%s store_driver=%s\n", m.Version, m.WalFileName, m.StoreDriver)
	return nil
}

func withDB(dir string, lg logger.Logger, fn func(*db.DB) error) error {
	database, err := db.OpenWithOptions(dir, redolog.OpenOptions{}, lg)
	if err != nil {
		cliutil.PrintError("Failed to open database: " + err.Error())
		return err
	}
	defer func() { _ = database.Close() }()

	return fn(database)
}
