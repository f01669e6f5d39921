package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// casefoldFunc lowers its argument with Go's Unicode rules. The built-in
// LIKE only folds ASCII.
const casefoldFunc = "casefold"

func init() {
	msqlite.MustRegisterDeterministicScalarFunction(casefoldFunc, 1,
		func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return casefold(v), nil
			case []byte:
				return casefold(string(v)), nil
			default:
				return v, nil
			}
		})
}

func casefold(s string) string { return strings.ToLower(s) }

// timeLayout is fixed width so lexical order equals chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db  *sql.DB
	dsn string
}

// NewStore opens the database at dsn (a file path or ":memory:").
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One connection: writers never contend and ":memory:" stays one database.
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close(context.Context) error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users       { return &usersRepo{db: s.db} }
func (s *Store) Projects() store.Projects { return &projectsRepo{db: s.db} }
func (s *Store) Tasks() store.Tasks       { return &tasksRepo{db: s.db} }

// withTx runs fn in a transaction, rolling back when it fails.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

// table describes how a resource is laid out so listing queries can be
// built generically.
type table[T any] struct {
	from    string
	columns string
	// filters maps a document field to a condition with one placeholder.
	filters map[string]string
	// sorts maps a document field to its column.
	sorts map[string]string
	// search is the column matched by Query.Search.
	search string
	scan   func(scanner) (T, error)
}

// where builds the WHERE clause for f plus an optional name search.
func (t table[T]) where(f domain.Filter, search string) (string, []any, error) {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		conds []string
		args  []any
	)
	for _, k := range keys {
		cond, ok := t.filters[k]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", store.ErrInvalidField, k)
		}
		conds = append(conds, cond)
		args = append(args, f[k])
	}
	if search != "" {
		conds = append(conds, casefoldFunc+"("+t.search+`) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(casefold(search))+"%")
	}
	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (t table[T]) orderBy(q domain.Query) (string, error) {
	field, desc := q.SortField()
	if field == "" {
		return " ORDER BY id", nil
	}
	col, ok := t.sorts[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", store.ErrInvalidField, field)
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir), nil
}

func (t table[T]) all(ctx context.Context, db queryer, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (t table[T]) one(ctx context.Context, db queryer, query string, args ...any) (T, error) {
	v, err := t.scan(db.QueryRowContext(ctx, query, args...))
	return v, mapNotFound(err)
}

func (t table[T]) find(ctx context.Context, db queryer, f domain.Filter) ([]T, error) {
	where, args, err := t.where(f, "")
	if err != nil {
		return nil, err
	}
	return t.all(ctx, db, "SELECT "+t.columns+" FROM "+t.from+where+" ORDER BY id", args...)
}

func (t table[T]) findOne(ctx context.Context, db queryer, f domain.Filter) (T, error) {
	where, args, err := t.where(f, "")
	if err != nil {
		var zero T
		return zero, err
	}
	return t.one(ctx, db, "SELECT "+t.columns+" FROM "+t.from+where+" ORDER BY id LIMIT 1", args...)
}

func (t table[T]) findByID(ctx context.Context, db queryer, id string) (T, error) {
	return t.one(ctx, db, "SELECT "+t.columns+" FROM "+t.from+" WHERE id = ?", id)
}

func (t table[T]) paginate(ctx context.Context, db queryer, q domain.Query) (domain.Page[T], error) {
	q = q.Normalized()

	where, args, err := t.where(q.Filter, q.Search)
	if err != nil {
		return domain.Page[T]{}, err
	}
	order, err := t.orderBy(q)
	if err != nil {
		return domain.Page[T]{}, err
	}

	var total int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.from+where, args...).Scan(&total); err != nil {
		return domain.Page[T]{}, err
	}

	docs, err := t.all(ctx, db,
		"SELECT "+t.columns+" FROM "+t.from+where+order+" LIMIT ? OFFSET ?",
		append(args, q.Size, q.Offset())...,
	)
	if err != nil {
		return domain.Page[T]{}, err
	}
	return domain.NewPage(docs, total, q), nil
}

// set accumulates the assignments of an UPDATE.
type set struct {
	cols []string
	args []any
}

func (s *set) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

// exec runs the update against id, reporting ErrNotFound when no row matched.
func (s *set) exec(ctx context.Context, db queryer, tableName, id string) error {
	if len(s.cols) == 0 {
		var one int
		err := db.QueryRowContext(ctx, "SELECT 1 FROM "+tableName+" WHERE id = ?", id).Scan(&one)
		return mapNotFound(err)
	}

	res, err := db.ExecContext(ctx,
		"UPDATE "+tableName+" SET "+strings.Join(s.cols, ", ")+" WHERE id = ?",
		append(s.args, id)...,
	)
	if err != nil {
		return mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	}
	return err
}
