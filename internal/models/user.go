package models

import "time"

// User represents a HabitFlow account.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	AvatarURL      string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	HashedPassword string    `bson:"hashed_password" json:"-"`
	Role           string    `bson:"role" json:"role"`
	LastActiveAt   time.Time `bson:"last_active_at" json:"last_active_at"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Public strips private fields and fills in a generated avatar when the user
// has none.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: AvatarFor(u.Name, u.AvatarURL),
	}
}
