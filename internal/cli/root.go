package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/aurora/aurora-cli/internal/backup"
	"github.com/julianstephens/aurora/aurora-cli/internal/config"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/dependency"
	"github.com/julianstephens/aurora/aurora-cli/internal/energy"
	"github.com/julianstephens/aurora/aurora-cli/internal/lock"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/scheduler"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqlite"
)

// lockTimeout bounds how long a command waits to acquire the user's write lock
const lockTimeout = 10 * time.Second

type Context struct {
	Store       storage.Provider
	Scheduler   *scheduler.Scheduler
	Rescheduler *dependency.Rescheduler
	Locker      lock.Locker
	Config      *config.Config
	// Confirm asks a yes/no question; nil prompts on the terminal
	Confirm func(title string) (bool, error)
	// LockTimeout bounds lock acquisition; zero means 10s
	LockTimeout time.Duration
}

// UserID is the user every command reads and writes as
func (c *Context) UserID() string {
	if c.Config == nil || c.Config.UserID == "" {
		return constants.DefaultUserID
	}
	return c.Config.UserID
}

func (c *Context) Now() time.Time {
	return c.Scheduler.Now()
}

// DaysAhead returns the configured availability horizon
func (c *Context) DaysAhead() int {
	if c.Config == nil || c.Config.DaysAhead <= 0 {
		return constants.DefaultDaysAhead
	}
	return c.Config.DaysAhead
}

// Snapshot is the stored state a scheduling command computes from
type Snapshot struct {
	Preferences models.SchedulingPreferences
	Routine     string
	Events      []models.Event
	Profile     models.EnergyProfile
}

// LoadSnapshot reads preferences, routine, the energy profile and every
// event overlapping [today, today+days+1)
func (c *Context) LoadSnapshot(days int) (Snapshot, error) {
	user := c.UserID()
	now := c.Now()

	prefs, err := c.Store.GetPreferences(user)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get preferences: %w", err)
	}
	routine, err := c.Store.GetRoutine(user)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get routine: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	events, err := c.EventsBetween(today, today.AddDate(0, 0, days+1))
	if err != nil {
		return Snapshot{}, err
	}

	profile, err := energy.NewAnalyzer(c.Store).Profile(user, now)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Preferences: prefs,
		Routine:     routine,
		Events:      events,
		Profile:     profile,
	}, nil
}

// EventsBetween returns the events overlapping [from, to) in the clock's timezone
func (c *Context) EventsBetween(from, to time.Time) ([]models.Event, error) {
	events, err := c.Store.GetEvents(c.UserID(), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	localize(events, c.Now().Location())
	return events, nil
}

// AllEvents returns every stored event in the clock's timezone
func (c *Context) AllEvents() ([]models.Event, error) {
	events, err := c.Store.GetAllEvents(c.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	localize(events, c.Now().Location())
	return events, nil
}

// localize converts stored UTC times to loc so day arithmetic happens in
// the user's timezone
func localize(events []models.Event, loc *time.Location) {
	for i := range events {
		events[i].StartTime = events[i].StartTime.In(loc)
		events[i].EndTime = events[i].EndTime.In(loc)
	}
}

// WithLock runs fn while holding the user's write lock. The timeout applies
// to acquiring the lock only: fn may wait on a prompt for as long as the
// user takes, and its context stays live until fn returns.
func (c *Context) WithLock(fn func(ctx context.Context) error) error {
	if c.Locker == nil {
		c.Locker = lock.NewMemLocker()
	}
	timeout := c.LockTimeout
	if timeout <= 0 {
		timeout = lockTimeout
	}

	acquireCtx, cancelAcquire := context.WithTimeout(context.Background(), timeout)
	unlock, err := c.Locker.Lock(acquireCtx, c.UserID())
	cancelAcquire()
	if err != nil {
		return fmt.Errorf("failed to acquire scheduling lock: %w", err)
	}
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	return fn(ctx)
}

// Confirmed returns true without asking when yes is set
func (c *Context) Confirmed(yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Confirm != nil {
		return c.Confirm(title)
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// PerformAutomaticBackup snapshots a SQLite database before a destructive
// commit. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	store, ok := c.Store.(*sqlite.Store)
	if !ok {
		return
	}
	if _, err := backup.NewManager(store.GetConfigPath()).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
