package models

import "time"

// FriendEdge is a directed relationship record: UserID points at FriendID.
// Edges are one-directional; the reciprocal edge is a separate row.
type FriendEdge struct {
	ID        string
	UserID    string
	FriendID  string
	CreatedAt time.Time
}
