package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/migration"
)

// schemaStore is implemented by every SQL-backed store
type schemaStore interface {
	Migrate(logFn func(string)) (int, error)
	MigrationStatus() (migration.Status, error)
}

type MigrateCmd struct {
	Status bool `help:"Show pending migrations without applying them."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, ok := ctx.Store.(schemaStore)
	if !ok {
		return fmt.Errorf("storage %s does not support migrations", ctx.Store.GetConfigPath())
	}

	if c.Status {
		st, err := store.MigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		printStatus(st)
		return nil
	}

	return ctx.WithLock(func(_ context.Context) error {
		ctx.PerformAutomaticBackup()

		count, err := store.Migrate(func(msg string) { fmt.Println(msg) })
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if count == 0 {
			fmt.Println("Database is up to date.")
			return nil
		}
		fmt.Println(cli.Check("Applied %d migration(s)", count))
		return nil
	})
}

func printStatus(st migration.Status) {
	fmt.Printf("Schema version %d of %d\n", st.Current, st.Latest)
	if st.UpToDate() {
		fmt.Println(cli.Check("Up to date"))
		return
	}
	rows := make([][]string, 0, len(st.Pending))
	for _, m := range st.Pending {
		rows = append(rows, []string{fmt.Sprintf("%03d", m.Version), m.Name})
	}
	fmt.Println(cli.Table([]string{"Version", "Pending migration"}, rows))
}
