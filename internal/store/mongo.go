package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore keeps the whole serialized collection as a single document keyed
// by path, with a version field regenerated on every write. Compare-and-swap
// comes from filtering the replace on both _id and version: MatchedCount == 0
// while the document exists means a concurrent writer won.
type MongoStore struct {
	col  *mongo.Collection
	path string
}

type mongoDoc struct {
	ID        string    `bson:"_id"`
	Content   string    `bson:"content"`
	Version   string    `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func NewMongoStore(col *mongo.Collection, path string) *MongoStore {
	return &MongoStore{col: col, path: path}
}

func (m *MongoStore) Read(ctx context.Context) (*Document, error) {
	var d mongoDoc
	err := m.col.FindOne(ctx, bson.M{"_id": m.path}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Document{Content: []byte(d.Content), Version: d.Version}, nil
}

func (m *MongoStore) Write(ctx context.Context, content []byte, expectedVersion string) (string, error) {
	newVersion := primitive.NewObjectID().Hex()
	doc := mongoDoc{ID: m.path, Content: string(content), Version: newVersion, UpdatedAt: time.Now().UTC()}

	if expectedVersion == "" {
		if _, err := m.col.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return "", ErrConflict
			}
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return newVersion, nil
	}

	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": m.path, "version": expectedVersion}, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return "", ErrConflict
	}
	return newVersion, nil
}
