// Package backup snapshots and restores the SQLite database file.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
)

const timestampLayout = "20060102-150405"

// Info describes one backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Manager creates, lists, rotates and restores backups of one database
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

type Option func(*Manager)

// WithClock sets the clock used to name backups
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRetention sets how many backups rotation keeps
func WithRetention(keep int) Option {
	return func(m *Manager) {
		if keep > 0 {
			m.keep = keep
		}
	}
}

// NewManager stores backups in a directory next to dbPath
func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) BackupDir() string {
	return m.backupDir
}

func (m *Manager) Retention() int {
	return m.keep
}

// CreateBackup snapshots the database and rotates old backups
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.createBackup()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.With("backup").Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) createBackup() (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.snapshot(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.With("backup").Info("backup created", "path", path)
	return path, nil
}

// nextPath names a backup after the current second, adding a counter when
// that name is taken
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampLayout)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for counter := 1; fileExists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		name := fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, constants.BackupFileSuffix)
		path = filepath.Join(m.backupDir, name)
	}
	return path, nil
}

// snapshot writes a consistent copy with VACUUM INTO, falling back to a
// plain file copy on engines without it
func (m *Manager) snapshot(dest string) error {
	src, err := sqlx.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.With("backup").Debug("VACUUM INTO failed, copying file", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// ListBackups returns the backups newest first, ignoring unrelated files
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})
	return backups, nil
}

// parseName extracts the timestamp and collision counter from
// aurora-YYYYMMDD-HHMMSS[-N].db
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	seq := 0
	if len(stamp) > len(timestampLayout) {
		suffix := stamp[len(timestampLayout):]
		n, err := strconv.Atoi(strings.TrimPrefix(suffix, "-"))
		if err != nil || !strings.HasPrefix(suffix, "-") || n <= 0 {
			return time.Time{}, 0, false
		}
		stamp, seq = stamp[:len(timestampLayout)], n
	}
	ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Resolve finds a backup given an absolute path, a path relative to the
// working directory, or a file name in the backup directory
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if !fileExists(name) {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if fileExists(name) {
		return filepath.Abs(name)
	}
	if candidate := filepath.Join(m.backupDir, name); fileExists(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", m.backupDir)
}

// RestoreBackup replaces the database with backupPath. The current database
// is backed up first, outside rotation, so a restore can be undone.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if !fileExists(backupPath) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	db, err := sqlx.Open("sqlite", backupPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	err = verify(db)
	db.Close()
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if fileExists(m.dbPath) {
		previous, err = m.createBackup()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.With("backup").Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.With("backup").Info("database restored", "from", backupPath)
	return previous, nil
}

func verify(db *sqlx.DB) error {
	var count int
	return db.Get(&count, "SELECT COUNT(*) FROM sqlite_master")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
