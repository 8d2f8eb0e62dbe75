package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rho-lang/rho/internal/sexpr"
	"github.com/rho-lang/rho/internal/term"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Store persists trace sessions to SQLite. WAL mode allows concurrent
// readers while a session is being written.
type Store struct {
	db *sql.DB
}

// Open creates or opens the trace database at path. Pragmas and schema
// are applied automatically; the call is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to trace database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply trace schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// SaveSession writes a complete session and its steps in one
// transaction. Saving the same session ID twice is a no-op, so replays
// of a persisted trace cannot duplicate rows.
func (s *Store) SaveSession(ctx context.Context, sess *Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, rule_hash, input, output, iterations, step_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.RuleHash,
		formatMaybe(sess.Input()),
		formatMaybe(sess.Output()),
		sess.Iterations(),
		len(sess.Steps),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Session already persisted.
		return tx.Commit()
	}

	for _, st := range sess.Steps {
		bindingsJSON, err := marshalBindings(st.Bindings)
		if err != nil {
			return fmt.Errorf("save step %d: %w", st.Seq, err)
		}
		pattern := formatMaybe(st.Pattern)
		if st.PatternTag != "" {
			pattern = st.PatternTag
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO steps
			(session_id, seq, kind, expr, before_expr, after_expr, pattern, skeleton, rule_name, bindings, iterations)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			sess.ID,
			st.Seq,
			st.Kind,
			formatMaybe(st.Expr),
			formatMaybe(st.Before),
			formatMaybe(st.After),
			pattern,
			formatMaybe(st.Skeleton),
			st.RuleName,
			bindingsJSON,
			st.Iterations,
		)
		if err != nil {
			return fmt.Errorf("save step %d: %w", st.Seq, err)
		}
	}

	return tx.Commit()
}

// SessionSummary is one row of a session listing.
type SessionSummary struct {
	ID         string `json:"id"`
	RuleHash   string `json:"rule_hash"`
	Input      string `json:"input"`
	Output     string `json:"output"`
	Iterations int    `json:"iterations"`
	StepCount  int    `json:"step_count"`
	CreatedAt  string `json:"created_at"`
}

// ListSessions returns summaries of every stored session, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_hash, input, output, iterations, step_count, created_at
		FROM sessions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.ID, &sum.RuleHash, &sum.Input, &sum.Output,
			&sum.Iterations, &sum.StepCount, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// LoadSession reads one session and its steps back from the store.
// Returns sql.ErrNoRows wrapped if the session does not exist.
func (s *Store) LoadSession(ctx context.Context, id string) (*Session, error) {
	var ruleHash string
	err := s.db.QueryRowContext(ctx,
		"SELECT rule_hash FROM sessions WHERE id = ?", id).Scan(&ruleHash)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, expr, before_expr, after_expr, pattern, skeleton, rule_name, bindings, iterations
		FROM steps
		WHERE session_id = ?
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	defer rows.Close()

	sess := &Session{ID: id, RuleHash: ruleHash}
	for rows.Next() {
		var st Step
		var exprS, beforeS, afterS, patternS, skeletonS, bindingsJSON string
		if err := rows.Scan(&st.Seq, &st.Kind, &exprS, &beforeS, &afterS,
			&patternS, &skeletonS, &st.RuleName, &bindingsJSON, &st.Iterations); err != nil {
			return nil, fmt.Errorf("load session %s: %w", id, err)
		}

		if st.Expr, err = parseMaybe(exprS); err != nil {
			return nil, fmt.Errorf("load session %s step %d: %w", id, st.Seq, err)
		}
		if st.Before, err = parseMaybe(beforeS); err != nil {
			return nil, fmt.Errorf("load session %s step %d: %w", id, st.Seq, err)
		}
		if st.After, err = parseMaybe(afterS); err != nil {
			return nil, fmt.Errorf("load session %s step %d: %w", id, st.Seq, err)
		}
		if st.Skeleton, err = parseMaybe(skeletonS); err != nil {
			return nil, fmt.Errorf("load session %s step %d: %w", id, st.Seq, err)
		}
		if st.Kind == KindFold {
			st.PatternTag = patternS
		} else if st.Pattern, err = parseMaybe(patternS); err != nil {
			return nil, fmt.Errorf("load session %s step %d: %w", id, st.Seq, err)
		}
		if st.Bindings, err = unmarshalBindings(bindingsJSON); err != nil {
			return nil, fmt.Errorf("load session %s step %d: %w", id, st.Seq, err)
		}

		sess.Steps = append(sess.Steps, st)
	}
	return sess, rows.Err()
}

func marshalBindings(b map[string]term.Expr) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	m := make(map[string]string, len(b))
	for k, v := range b {
		m[k] = sexpr.Format(v)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalBindings(s string) (map[string]term.Expr, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	out := make(map[string]term.Expr, len(m))
	for k, v := range m {
		e, err := sexpr.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", k, err)
		}
		out[k] = e
	}
	return out, nil
}

func parseMaybe(s string) (term.Expr, error) {
	if s == "" {
		return nil, nil
	}
	return sexpr.Parse(s)
}
