package ai

import (
	"context"
	"time"

	"mailflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository interface {
	Create(ctx context.Context, c *Chat) error
	FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Chat, error)
	ListRecent(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]Chat, error)
	Update(ctx context.Context, c *Chat) error
	Delete(ctx context.Context, id string, owner primitive.ObjectID) error
}

type ChatRepositoryImpl struct {
	collection *mongo.Collection
}

func NewChatRepository(db *database.MongodbDB) ChatRepository {
	return &ChatRepositoryImpl{
		collection: db.DB.Collection("chats"),
	}
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, c *Chat) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Messages == nil {
		c.Messages = []ChatMessage{}
	}

	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *ChatRepositoryImpl) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Chat, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrChatNotFound
	}

	var c Chat
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user": owner}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *ChatRepositoryImpl) ListRecent(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []Chat
	if err = cursor.All(ctx, &chats); err != nil {
		return nil, err
	}

	return chats, nil
}

func (r *ChatRepositoryImpl) Update(ctx context.Context, c *Chat) error {
	c.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": c.ID, "user": c.User}, bson.M{"$set": c})
	return err
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrChatNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}
