package models

import "time"

// Request is a wish for an item that does not exist yet. Items created in
// response reference it via Item.RequestID.
type Request struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	CreatorID   int64     `json:"creatorId"`
	Created     time.Time `json:"created"`
}
