package credential

import (
	"context"
	"time"

	"mailflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CredentialRepository interface {
	Create(ctx context.Context, c *Credential) error
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Credential, error)
	FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Credential, error)
	Delete(ctx context.Context, id string, owner primitive.ObjectID) error
}

type CredentialRepositoryImpl struct {
	collection *mongo.Collection
}

func NewCredentialRepository(db *database.MongodbDB) CredentialRepository {
	return &CredentialRepositoryImpl{
		collection: db.DB.Collection("credentials"),
	}
}

func (r *CredentialRepositoryImpl) Create(ctx context.Context, c *Credential) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *CredentialRepositoryImpl) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Credential, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user": owner})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var credentials []Credential
	if err = cursor.All(ctx, &credentials); err != nil {
		return nil, err
	}

	return credentials, nil
}

func (r *CredentialRepositoryImpl) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Credential, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCredentialNotFound
	}

	var c Credential
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user": owner}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *CredentialRepositoryImpl) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrCredentialNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
