package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/backup"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/lock"
	"github.com/julianstephens/aurora/aurora-cli/internal/migration"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqlite"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
	"github.com/julianstephens/aurora/aurora-cli/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	// warnOnly failures are reported but do not fail the command
	warnOnly bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Preferences", run: checkPreferences, needsDB: true},
	{name: "Event validation", run: checkEvents, needsDB: true},
	{name: "Task validation", run: checkTasks, needsDB: true},
	{name: "Scheduling lock", run: checkLock},
	{name: "Clock/timezone", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Println(cli.Check("%s: OK", c.name))
		case c.warnOnly:
			fmt.Println(cli.Warn("%s: WARNING", c.name))
			fmt.Printf("   %v\n", err)
		default:
			fmt.Println(cli.DangerStyle.Render("✗") + fmt.Sprintf(" %s: FAIL", c.name))
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
		if i == 0 {
			dbReachable = err == nil
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetPreferences(ctx.UserID()); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

type migrationStatuser interface {
	MigrationStatus() (migration.Status, error)
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(migrationStatuser)
	if !ok {
		return nil
	}
	st, err := store.MigrationStatus()
	if err != nil {
		return err
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'aurora migrate')", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'aurora backup create'")
	}
	return nil
}

func checkPreferences(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetPreferences(ctx.UserID())
	if err != nil {
		return err
	}
	if err := prefs.Validate(); err != nil {
		return err
	}
	if !utils.ValidateTimezone(prefs.Timezone) {
		return fmt.Errorf("invalid timezone: %s", prefs.Timezone)
	}
	return nil
}

func checkEvents(ctx *cli.Context) error {
	events, err := ctx.Store.GetAllEvents(ctx.UserID())
	if err != nil {
		return err
	}
	result := validation.New().ValidateEvents(events)
	if result.HasConflicts() {
		return fmt.Errorf("%d event conflict(s), run 'aurora validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkTasks(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks(ctx.UserID())
	if err != nil {
		return err
	}
	result := validation.New().ValidateTasks(tasks)
	if result.HasConflicts() {
		return fmt.Errorf("%d task problem(s), run 'aurora validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	r, ok := ctx.Locker.(*lock.RedisLocker)
	if !ok {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
