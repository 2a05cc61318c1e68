package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleAdmin = "admin"

// User is a storefront account keyed by email. Email is not unique.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string             `bson:"email" json:"email"`
	DisplayName string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Role        string             `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin reports whether the role is exactly "admin". Any other value, or
// none, is a regular user.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
