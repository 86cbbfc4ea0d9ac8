package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FriendService manages the friend-request lifecycle: an ordered pair goes
// Pending when requested and Accepted when the target accepts, which also
// materializes an undirected friendship edge. All idempotency is delegated
// to the store's conflict handling; there is no in-process locking.
type FriendService struct {
	db DB
}

func NewFriendService(db DB) *FriendService {
	return &FriendService{db: db}
}

// Request records requester -> target as Pending. A repeat request for the
// same ordered pair is a successful no-op: the conflict clause swallows the
// duplicate, so concurrent calls leave at most one row. The reverse
// direction is an independent row and is never checked here.
func (s *FriendService) Request(ctx context.Context, requesterID, targetID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO friend_requests (user_id_one, user_id_two, status)
		 VALUES ($1, $2, 'Pending')
		 ON CONFLICT DO NOTHING`,
		requesterID, targetID,
	)
	if err != nil {
		return fmt.Errorf("inserting friend request: %w", err)
	}
	return nil
}

// Accept marks the (requester -> accepter) request Accepted and inserts the
// friendship edge. The two statements run in one transaction, but the edge
// insert always runs, even when the update matched no request row: an
// accept with no prior request still creates the friendship. That
// permissiveness is deliberate and callers depend on it; do not turn the
// missing request into a precondition failure.
func (s *FriendService) Accept(ctx context.Context, accepterID, requesterID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting accept transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx,
		`UPDATE friend_requests
		 SET status = 'Accepted'
		 WHERE user_id_one = $1 AND user_id_two = $2`,
		requesterID, accepterID,
	); err != nil {
		return fmt.Errorf("updating friend request: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO friend (user_id_1, user_id_2)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		requesterID, accepterID,
	); err != nil {
		return fmt.Errorf("inserting friendship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing accept: %w", err)
	}
	committed = true
	return nil
}
