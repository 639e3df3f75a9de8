package models

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserPatch carries optional profile changes; nil fields stay untouched.
type UserPatch struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}
