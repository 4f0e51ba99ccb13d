package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/aurora/aurora-cli/internal/backup"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqlite"
)

// manager returns the backup manager for the current store. Only SQLite
// files are backed up; PostgreSQL has its own tooling for this.
func manager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage, use pg_dump for PostgreSQL")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Println(cli.Check("Backup created: %s", filepath.Base(backupPath)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		rows = append(rows, []string{
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0),
		})
	}
	fmt.Printf("Available backups (%d total, keeping most recent %d):\n", len(backups), mgr.Retention())
	fmt.Println(cli.Table([]string{"Created", "File", "Size"}, rows))
	fmt.Printf("Backup directory: %s\n", mgr.BackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Restore without asking for confirmation." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	fmt.Println(cli.Warn("This will replace your current database with the backup."))
	fmt.Println(cli.Warn("Stop every other aurora process before restoring."))
	fmt.Printf("Restore from: %s\n", backupPath)

	ok, err := ctx.Confirmed(c.Yes, "Restore this backup? A backup of the current database is taken first.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Restore cancelled.")
		return nil
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println(cli.Check("Database restored successfully"))
	if previous != "" {
		fmt.Printf("  Previous database saved as: %s\n", filepath.Base(previous))
	}
	return nil
}
