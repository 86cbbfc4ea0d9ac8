package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type GroupService struct {
	db DBConn
}

func NewGroupService(db DBConn) *GroupService {
	return &GroupService{db: db}
}

// Join adds the user to the group. Joining a group twice is a successful
// no-op, same contract as the friend-request insert.
func (s *GroupService) Join(ctx context.Context, userID, groupID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO group_membership (user_id, group_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("inserting group membership: %w", err)
	}
	return nil
}
