package template

import (
	"context"
	"time"

	"mailflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Template, error)
	FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id string, owner primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type TemplateRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTemplateRepository(db *database.MongodbDB) TemplateRepository {
	return &TemplateRepositoryImpl{
		collection: db.DB.Collection("templates"),
	}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, t *Template) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, t)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateTemplate
	}
	return err
}

func (r *TemplateRepositoryImpl) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Template, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []Template
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *TemplateRepositoryImpl) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Template, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}

	var t Template
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user": owner}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, t *Template) error {
	t.UpdatedAt = time.Now()

	filter := bson.M{"_id": t.ID, "user": t.User}
	update := bson.M{"$set": t}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateTemplate
	}
	return err
}

func (r *TemplateRepositoryImpl) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrTemplateNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "position", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	_, err := r.collection.Indexes().CreateOne(ctx, model)
	return err
}
