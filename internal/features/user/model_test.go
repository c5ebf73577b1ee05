package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func marshalToMap(t *testing.T, u *User) bson.M {
	t.Helper()
	raw, err := bson.Marshal(u)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

// Update writes the whole struct with $set, so clearing a field in memory
// must produce a key in the marshaled document. Reset-token fields that
// vanish from the $set would leave a consumed token live in storage.
func TestClearedResetTokenIsMarshaled(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute)
	u := &User{
		ID:                   primitive.NewObjectID(),
		Name:                 "Jo",
		Email:                "jo@example.com",
		PasswordResetToken:   "abc123",
		PasswordResetExpires: &expires,
	}

	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil

	doc := marshalToMap(t, u)
	require.Contains(t, doc, "password_reset_token")
	require.Contains(t, doc, "password_reset_expires")
	assert.Equal(t, "", doc["password_reset_token"])
	assert.Nil(t, doc["password_reset_expires"])
}

func TestClearedProfileFieldsAreMarshaled(t *testing.T) {
	u := &User{
		ID:    primitive.NewObjectID(),
		Name:  "Jo",
		Email: "jo@example.com",
		Phone: "555-0100",
		Bio:   "old bio",
	}

	u.Phone = ""
	u.Bio = ""

	doc := marshalToMap(t, u)
	require.Contains(t, doc, "phone")
	require.Contains(t, doc, "bio")
	assert.Equal(t, "", doc["phone"])
	assert.Equal(t, "", doc["bio"])
}
