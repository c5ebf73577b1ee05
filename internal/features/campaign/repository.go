package campaign

import (
	"context"
	"fmt"
	"time"

	"mailflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) error
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Campaign, error)
	FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Campaign, error)
	Update(ctx context.Context, c *Campaign) error
	Delete(ctx context.Context, id string, owner primitive.ObjectID) error

	// Send-pipeline write points.
	UpdateRecipient(ctx context.Context, campaignID primitive.ObjectID, index int, entry Recipient) error
	Finalize(ctx context.Context, campaignID primitive.ObjectID, status Status, sent, failed int) error
}

type CampaignRepositoryImpl struct {
	collection *mongo.Collection
}

func NewCampaignRepository(db *database.MongodbDB) CampaignRepository {
	return &CampaignRepositoryImpl{
		collection: db.DB.Collection("campaigns"),
	}
}

func (r *CampaignRepositoryImpl) Create(ctx context.Context, c *Campaign) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *CampaignRepositoryImpl) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Campaign, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []Campaign
	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}

	return campaigns, nil
}

func (r *CampaignRepositoryImpl) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCampaignNotFound
	}

	var c Campaign
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user": owner}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *CampaignRepositoryImpl) Update(ctx context.Context, c *Campaign) error {
	c.UpdatedAt = time.Now()

	filter := bson.M{"_id": c.ID}
	update := bson.M{"$set": c}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *CampaignRepositoryImpl) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrCampaignNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepositoryImpl) UpdateRecipient(ctx context.Context, campaignID primitive.ObjectID, index int, entry Recipient) error {
	update := bson.M{
		"$set": bson.M{
			fmt.Sprintf("recipients.%d", index): entry,
			"updated_at":                        time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": campaignID}, update)
	return err
}

func (r *CampaignRepositoryImpl) Finalize(ctx context.Context, campaignID primitive.ObjectID, status Status, sent, failed int) error {
	update := bson.M{
		"$set": bson.M{
			"status":       status,
			"sent_count":   sent,
			"failed_count": failed,
			"updated_at":   time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": campaignID}, update)
	return err
}
