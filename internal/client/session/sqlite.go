package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
	"github.com/BraisonWabwire/shopke-cli/internal/client/session/migrations"
	"github.com/BraisonWabwire/shopke-cli/internal/dbx"
)

const (
	keyToken = "auth_token"
	keyUser  = "user"
	keySeq   = "seq"
)

// SQLiteStore persists the session in a small key/value table. All running
// client instances on the machine share one database file, which is what
// makes a logout in one instance observable in the others.
type SQLiteStore struct {
	db *sql.DB
}

// DSN builds the connection string for a session database at path. WAL mode
// and a busy timeout keep concurrent instances from tripping over each other.
func DSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
}

// OpenSQLiteStore opens (creating if needed) the session database and runs
// its migrations.
func OpenSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func bumpSeq(ctx context.Context, q dbx.DBTX) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1
	`, keySeq)
	if err != nil {
		return fmt.Errorf("failed to bump session seq: %w", err)
	}
	return nil
}

// Load returns the persisted session. Missing keys, a token without an
// identity, or an identity that fails to decode all load as absent.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Session, error) {
	token, err := s.get(ctx, s.db, keyToken)
	if err != nil {
		return nil, err
	}
	userRaw, err := s.get(ctx, s.db, keyUser)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 || len(userRaw) == 0 {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		return nil, nil
	}
	sess := &models.Session{Token: string(token), User: user}
	if !sess.Valid() {
		return nil, nil
	}
	return sess, nil
}

// Save writes token and identity in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, sess *models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("refusing to persist incomplete session")
	}
	userRaw, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		if err := s.set(ctx, tx, keyUser, userRaw); err != nil {
			return err
		}
		return bumpSeq(ctx, tx)
	})
}

// Clear removes both keys in one transaction.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyUser)
		if err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return bumpSeq(ctx, tx)
	})
}

// Seq returns the current change counter.
func (s *SQLiteStore) Seq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, keySeq).Scan(&seq)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read session seq: %w", err)
	}
	return seq, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
