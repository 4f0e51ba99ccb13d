package main

import (
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/backups"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/events"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/plans"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/samples"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/settings"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/system"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/tasks"
	"github.com/julianstephens/aurora/aurora-cli/internal/config"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding aurora.yaml, logs and the default database." default:"${config_dir}"`
	Database  string `help:"SQLite path or PostgreSQL connection string; overrides the config file. PostgreSQL passwords must come from the keyring, AURORA_DB_CONNECTION or .pgpass."`
	Debug     bool   `help:"Log debug output to stderr."`

	Init         system.InitCmd         `cmd:"" help:"Initialize aurora storage."`
	Migrate      system.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Doctor       system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Validate     system.ValidateCmd     `cmd:"" help:"Check events and tasks for conflicts."`
	Settings     settings.SettingsCmd   `cmd:"" help:"Show or change scheduling preferences."`
	Routine      settings.RoutineCmd    `cmd:"" help:"Show or change the daily routine."`
	Slots        plans.SlotsCmd         `cmd:"" help:"List free working time."`
	Suggest      plans.SuggestCmd       `cmd:"" help:"Suggest the best slot for a task."`
	Schedule     plans.ScheduleCmd      `cmd:"" help:"Suggest slots for every unscheduled task."`
	Place        plans.PlaceCmd         `cmd:"" help:"Place tasks back to back from a start time."`
	Move         events.MoveCmd         `cmd:"" help:"Move an event and reschedule its dependents."`
	ValidateMove events.ValidateMoveCmd `cmd:"" name:"validate-move" help:"Check whether an event can move to a new time."`
	Event        struct {
		Add    events.EventAddCmd    `cmd:"" help:"Add an event."`
		List   events.EventListCmd   `cmd:"" help:"List events." default:"1"`
		Delete events.EventDeleteCmd `cmd:"" help:"Delete an event."`
	} `cmd:"" help:"Manage calendar events."`
	Task struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks." default:"1"`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Energy struct {
		Log     samples.EnergyLogCmd     `cmd:"" help:"Log an energy and mood sample."`
		Profile samples.EnergyProfileCmd `cmd:"" help:"Show your energy profile." default:"1"`
	} `cmd:"" help:"Track energy levels."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Energy-aware scheduling: free slots, task placement and dependency rescheduling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.Database != "" {
		cfg.Database = CLI.Database
		if !cfg.IsPostgres() {
			if cfg.Database, err = config.ExpandHome(cfg.Database); err != nil {
				apperrors.Fatal(err)
			}
		}
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.Dir,
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
	}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	command := ctx.Command()
	var appCtx *cli.Context
	switch {
	case strings.HasPrefix(command, "keyring"):
		// keyring commands must work before any database is reachable
		appCtx = cli.NewContext(cfg, nil, localLocation(cfg))
	case strings.HasPrefix(command, "init"):
		store, err := cli.OpenStore(cfg)
		if err != nil {
			apperrors.Fatal(err)
		}
		appCtx = cli.NewContext(cfg, store, localLocation(cfg))
	default:
		store, err := cli.OpenStore(cfg)
		if err != nil {
			apperrors.Fatal(err)
		}
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}

		appCtx = &cli.Context{Config: cfg, Store: store}
		loc, err := cli.ResolveLocation(cfg, store, appCtx.UserID())
		if err != nil {
			_ = store.Close()
			apperrors.Fatal(err)
		}
		appCtx = cli.NewContext(cfg, store, loc)
	}

	err = ctx.Run(appCtx)
	if appCtx.Store != nil {
		_ = appCtx.Store.Close()
	}
	if closer, ok := appCtx.Locker.(io.Closer); ok {
		_ = closer.Close()
	}
	apperrors.Fatal(err)
}

// localLocation is the clock timezone before preferences can be read
func localLocation(cfg *config.Config) *time.Location {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
