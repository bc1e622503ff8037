package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyengine/internal/model"
)

type mongoResponseRepository struct {
	collection *mongo.Collection
}

func NewMongoResponseRepository(db *mongo.Database) ResponseRepository {
	return &mongoResponseRepository{
		collection: db.Collection("responses"),
	}
}

func (r *mongoResponseRepository) Create(ctx context.Context, resp *model.Response) error {
	if err := checkResponse(resp); err != nil {
		return err
	}
	_, err := r.collection.InsertOne(ctx, resp)
	return err
}

func (r *mongoResponseRepository) List(ctx context.Context) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.Response{}
	if err = cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}
