package models

// Item is a shareable thing listed by its owner. OwnerID is immutable after
// creation. RequestID links the originating request, 0 when listed directly.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   int64  `json:"requestId,omitempty"`
}

// ItemPatch carries optional item changes; nil fields stay untouched.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}
