package model

import "encoding/json"

// User is a registered contestant or administrator.
type User struct {
	ID        ID        `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

func (u User) Key() ID {
	return u.ID
}

// UnmarshalJSON accepts both `id` and the document-store style `_id`.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		LegacyID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID.IsZero() {
		u.ID = aux.LegacyID
	}
	return nil
}
