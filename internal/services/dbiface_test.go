package services

import (
	"context"
	"fmt"
	"reflect"
)

// Hand-rolled fakes over the DB interfaces. Service tests script them with
// per-call funcs; any method a test does not script behaves as a harmless
// default except Begin and QueryRow, which fail loudly so a test cannot
// silently exercise the wrong path.

type fakeDB struct {
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	BeginFunc    func(ctx context.Context) (Tx, error)
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc == nil {
		return fakeCommandTag{}, nil
	}
	return f.ExecFunc(ctx, sql, args...)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc == nil {
		return &fakeRows{}, nil
	}
	return f.QueryFunc(ctx, sql, args...)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc == nil {
		return fakeRow{scanFunc: func(dest ...any) error {
			return fmt.Errorf("unscripted QueryRow: %s", sql)
		}}
	}
	return f.QueryRowFunc(ctx, sql, args...)
}

func (f *fakeDB) Begin(ctx context.Context) (Tx, error) {
	if f.BeginFunc == nil {
		return nil, fmt.Errorf("unscripted Begin")
	}
	return f.BeginFunc(ctx)
}

// fakeTx carries no Query: the transaction interface only covers single
// statements plus commit/rollback.
type fakeTx struct {
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc == nil {
		return fakeCommandTag{}, nil
	}
	return f.ExecFunc(ctx, sql, args...)
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc == nil {
		return fakeRow{scanFunc: func(dest ...any) error {
			return fmt.Errorf("unscripted tx QueryRow: %s", sql)
		}}
	}
	return f.QueryRowFunc(ctx, sql, args...)
}

func (f *fakeTx) Commit(ctx context.Context) error {
	if f.CommitFunc == nil {
		return nil
	}
	return f.CommitFunc(ctx)
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if f.RollbackFunc == nil {
		return nil
	}
	return f.RollbackFunc(ctx)
}

type fakeCommandTag struct {
	rowsAffected int64
}

func (f fakeCommandTag) RowsAffected() int64 {
	return f.rowsAffected
}

type fakeRow struct {
	scanFunc func(dest ...any) error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.scanFunc == nil {
		return fmt.Errorf("fakeRow has no scanFunc")
	}
	return f.scanFunc(dest...)
}

// fakeRows yields its value rows in order; Scan reads the row most recently
// advanced to by Next.
type fakeRows struct {
	rows   [][]any
	idx    int
	err    error
	closed bool
}

func (f *fakeRows) Close() { f.closed = true }

func (f *fakeRows) Err() error { return f.err }

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	if f.idx == 0 || f.idx > len(f.rows) {
		return fmt.Errorf("Scan without a current row")
	}
	return assignRow(dest, f.rows[f.idx-1])
}

// rowFromValues builds a Row whose Scan assigns the given values in order.
func rowFromValues(values ...any) Row {
	return fakeRow{scanFunc: func(dest ...any) error {
		return assignRow(dest, values)
	}}
}

// assignRow copies values into scan destinations via reflection so fakes can
// feed uuid.UUID, *string, time.Time and friends without per-type plumbing.
// A nil value zeroes the destination, which is how NULL columns come back.
func assignRow(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan expects %d destinations, got %d", len(values), len(dest))
	}
	for i, value := range values {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Ptr || dv.IsNil() {
			return fmt.Errorf("scan destination %d is not a pointer", i)
		}
		elem := dv.Elem()
		if value == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		vv := reflect.ValueOf(value)
		switch {
		case vv.Type().AssignableTo(elem.Type()):
			elem.Set(vv)
		case vv.Type().ConvertibleTo(elem.Type()):
			elem.Set(vv.Convert(elem.Type()))
		default:
			return fmt.Errorf("value %d: cannot put %T into %s", i, value, elem.Type())
		}
	}
	return nil
}
