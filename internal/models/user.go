package models

import "time"

// User represents a registered account. Password holds the bcrypt hash and
// is never serialized to clients.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Avatar    string    `bson:"avatar" json:"avatar"`
	CreatedAt time.Time `bson:"createdAt" json:"date"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
