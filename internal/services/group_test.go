package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGroupService_Join(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()

	var gotSQL string
	var gotArgs []any
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			gotSQL = sql
			gotArgs = args
			return fakeCommandTag{rowsAffected: 1}, nil
		},
	}

	svc := NewGroupService(db)
	if err := svc.Join(context.Background(), userID, groupID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if !strings.Contains(gotSQL, "ON CONFLICT DO NOTHING") {
		t.Errorf("expected conflict clause, got %q", gotSQL)
	}
	if len(gotArgs) != 2 || gotArgs[0] != userID || gotArgs[1] != groupID {
		t.Errorf("expected args [user, group], got %v", gotArgs)
	}
}

func TestGroupService_Join_RepeatIsNoOp(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{rowsAffected: 0}, nil
		},
	}

	svc := NewGroupService(db)
	if err := svc.Join(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected repeat join to succeed, got %v", err)
	}
}

func TestGroupService_Join_ExecError(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return nil, errors.New("foreign key violation")
		},
	}

	svc := NewGroupService(db)
	if err := svc.Join(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected error from failed insert")
	}
}
