package server

import (
	"context"
	"database/sql"
	"database/sql/driver"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
)

//go:embed schema/schema.sql
var schemaSQL string

const (
	busyTimeout     = 5000 // milliseconds
	maxOpenConns    = 10
	maxIdleConns    = 5
	defaultPageSize = 10
	maxPageSize     = 100

	// Fixed width so that lexical order matches time order.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, foldFunc)
}

// foldFunc lowercases text with Go's Unicode rules. SQLite's own LOWER
// only folds ASCII.
func foldFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// sortColumns maps wire sort keys to SQL expressions.
var sortColumns = map[string]string{
	"id":          "id",
	"title":       "title COLLATE NOCASE",
	"description": "description",
	"status":      "CASE status WHEN 'open' THEN 1 WHEN 'in-progress' THEN 2 WHEN 'closed' THEN 3 ELSE 0 END",
	"priority":    "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 WHEN 'critical' THEN 4 ELSE 0 END",
	"assignee":    "assignee COLLATE NOCASE",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// SQLiteStore is a Store backed by modernc.org/sqlite.
type SQLiteStore struct {
	conn *sql.DB
	now  func() time.Time
}

// OpenSQLite opens (and creates if needed) the database at path. An
// empty path opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	var dsn string
	memory := strings.TrimSpace(path) == ""
	if memory {
		dsn = fmt.Sprintf("file:issuedesk-%s?mode=memory&cache=shared", uuid.NewString())
	} else {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeout)
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// The in-memory database lives as long as one connection does.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(maxOpenConns)
		conn.SetMaxIdleConns(maxIdleConns)
	}
	conn.SetConnMaxLifetime(0)

	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{conn: conn, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// List returns one page of issues matching q.
func (s *SQLiteStore) List(ctx context.Context, q issues.Query) ([]domain.Issue, error) {
	var (
		where []string
		args  []any
	)
	if q.Search != "" {
		where = append(where, `fold(title) LIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, escapeLike(strings.ToLower(q.Search)))
	}
	if q.Status != domain.StatusAny {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Priority != domain.PriorityAny {
		where = append(where, "priority = ?")
		args = append(args, string(q.Priority))
	}
	if q.Assignee != "" {
		where = append(where, "assignee = ?")
		args = append(args, q.Assignee)
	}

	query := "SELECT id, title, description, status, priority, assignee, created_at, updated_at FROM issues"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if expr, ok := sortColumns[q.SortBy]; ok {
		dir := "ASC"
		if q.SortOrder == domain.SortDesc {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s, rowid %s", expr, dir, dir)
	} else {
		query += " ORDER BY rowid"
	}

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page-1 > math.MaxInt64/size {
		return []domain.Issue{}, nil
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, size, (page-1)*size)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	out := []domain.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return out, nil
}

// Get returns the issue with id or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Issue, error) {
	return s.get(ctx, s.conn, id)
}

// Create inserts a new issue with a generated id and the current time.
func (s *SQLiteStore) Create(ctx context.Context, in domain.IssueInput) (domain.Issue, error) {
	now := s.now()
	issue := in.WithCreateDefaults().Apply(domain.Issue{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	})

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO issues (id, title, description, status, priority, assignee, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.ID, issue.Title, nullable(issue.Description), string(issue.Status), string(issue.Priority),
		nullable(issue.Assignee), formatTime(issue.CreatedAt), formatTime(issue.UpdatedAt),
	)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("create issue: %w", err)
	}
	return issue, nil
}

// Update merges the set fields of in onto the stored issue.
func (s *SQLiteStore) Update(ctx context.Context, id string, in domain.IssueInput) (domain.Issue, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := s.get(ctx, tx, id)
	if err != nil {
		return domain.Issue{}, err
	}
	issue := in.Apply(current)
	issue.UpdatedAt = s.now()

	_, err = tx.ExecContext(ctx,
		`UPDATE issues SET title = ?, description = ?, status = ?, priority = ?, assignee = ?, updated_at = ?
		 WHERE id = ?`,
		issue.Title, nullable(issue.Description), string(issue.Status), string(issue.Priority),
		nullable(issue.Assignee), formatTime(issue.UpdatedAt), id,
	)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("update issue: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Issue{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return issue, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) get(ctx context.Context, q queryer, id string) (domain.Issue, error) {
	row := q.QueryRowContext(ctx,
		"SELECT id, title, description, status, priority, assignee, created_at, updated_at FROM issues WHERE id = ?", id)
	issue, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Issue{}, ErrNotFound
	}
	return issue, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIssue(row scanner) (domain.Issue, error) {
	var (
		issue                domain.Issue
		description, assign  sql.NullString
		status, priority     string
		createdAt, updatedAt string
	)
	if err := row.Scan(&issue.ID, &issue.Title, &description, &status, &priority, &assign, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Issue{}, err
		}
		return domain.Issue{}, fmt.Errorf("scan issue: %w", err)
	}
	issue.Status = domain.Status(status)
	issue.Priority = domain.Priority(priority)
	if description.Valid {
		issue.Description = &description.String
	}
	if assign.Valid {
		issue.Assignee = &assign.String
	}
	var err error
	if issue.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return domain.Issue{}, fmt.Errorf("parse created_at for %s: %w", issue.ID, err)
	}
	if issue.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return domain.Issue{}, fmt.Errorf("parse updated_at for %s: %w", issue.ID, err)
	}
	return issue, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
