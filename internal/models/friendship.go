package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "Pending"
	FriendRequestStatusAccepted FriendRequestStatus = "Accepted"
)

// FriendRequest is directional: UserIDOne requested, UserIDTwo was asked.
// One row per ordered pair; the reverse direction may exist independently.
type FriendRequest struct {
	UserIDOne uuid.UUID           `json:"user_id_one"`
	UserIDTwo uuid.UUID           `json:"user_id_two"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// Friendship has no direction; the columns only record who requested and
// who accepted.
type Friendship struct {
	UserID1   uuid.UUID `json:"user_id_1"`
	UserID2   uuid.UUID `json:"user_id_2"`
	CreatedAt time.Time `json:"created_at"`
}
