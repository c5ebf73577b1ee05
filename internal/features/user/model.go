package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. Password holds the bcrypt hash and is never
// serialized; the reset-token fields store the sha256 of the emailed token.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`

	// The bson tags deliberately omit omitempty: Update persists the whole
	// document with $set, so a field cleared in memory must still be written
	// out or the stored value survives.
	Phone    string `json:"phone,omitempty" bson:"phone"`
	Bio      string `json:"bio,omitempty" bson:"bio"`
	Title    string `json:"title,omitempty" bson:"title"`
	Company  string `json:"company,omitempty" bson:"company"`
	Location string `json:"location,omitempty" bson:"location"`
	Website  string `json:"website,omitempty" bson:"website"`
	Linkedin string `json:"linkedin,omitempty" bson:"linkedin"`
	Github   string `json:"github,omitempty" bson:"github"`

	PasswordResetToken   string     `json:"-" bson:"password_reset_token"`
	PasswordResetExpires *time.Time `json:"-" bson:"password_reset_expires"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
