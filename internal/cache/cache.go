// Package cache stores transcription results in SQLite so re-rendering the
// same media with the same collaborator skips the model call.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mgpai22/srtalign/internal/transcript"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Key identifies one transcription of one media file.
type Key struct {
	MediaHash string
	MediaPath string
	Provider  string
	Model     string
	Language  string
}

func (k Key) String() string {
	return strings.Join([]string{k.MediaHash, k.Provider, k.Model, k.Language}, "|")
}

// NewKey hashes the media file contents and combines the digest with the
// collaborator settings that influence the transcript.
func NewKey(mediaPath, provider, model, language string) (Key, error) {
	file, err := os.Open(mediaPath)
	if err != nil {
		return Key{}, fmt.Errorf("open media: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return Key{}, fmt.Errorf("hash media: %w", err)
	}

	return Key{
		MediaHash: hex.EncodeToString(hash.Sum(nil)),
		MediaPath: mediaPath,
		Provider:  provider,
		Model:     model,
		Language:  language,
	}, nil
}

// Store is a transcript cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the cache database at path and applies
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path is the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached transcript for key. ok is false on a miss.
func (s *Store) Get(ctx context.Context, key Key) (*transcript.Transcript, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT raw_json FROM transcripts WHERE cache_key = ?",
		key.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query transcript: %w", err)
	}

	t, err := transcript.Parse(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached transcript: %w", err)
	}
	return t, true, nil
}

// Put stores t under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key Key, t *transcript.Transcript) error {
	raw := t.Raw
	if len(raw) == 0 {
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode transcript: %w", err)
		}
		raw = encoded
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transcripts (
            cache_key, media_path, provider, model, language, raw_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key.String(),
		key.MediaPath,
		key.Provider,
		key.Model,
		key.Language,
		raw,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// Delete drops the entry for key, if any.
func (s *Store) Delete(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE cache_key = ?", key.String()); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

type migration struct {
	version string
	sql     string
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)

	migrations := make([]migration, 0, len(versions))
	for _, name := range versions {
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, migration{
			version: strings.TrimSuffix(name, ".sql"),
			sql:     string(data),
		})
	}
	return migrations, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}
