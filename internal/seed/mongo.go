package seed

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/care-tracker-api/internal/store"
)

// Collection names used by LoadMongo and SaveMongo.
const (
	UsersCollection      = "users"
	MilestonesCollection = "milestones"
	TestsCollection      = "tests"
	CareTipsCollection   = "careTips"
	MessagesCollection   = "messages"
)

// Connect opens a client and checks it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// LoadMongo reads every collection of db in natural order, which for
// collections written by SaveMongo is insertion order.
func LoadMongo(ctx context.Context, db *mongo.Database) (store.Seed, error) {
	var s store.Seed
	if err := readAll(ctx, db.Collection(UsersCollection), &s.Users); err != nil {
		return store.Seed{}, err
	}
	if err := readAll(ctx, db.Collection(MilestonesCollection), &s.Milestones); err != nil {
		return store.Seed{}, err
	}
	if err := readAll(ctx, db.Collection(TestsCollection), &s.Tests); err != nil {
		return store.Seed{}, err
	}
	if err := readAll(ctx, db.Collection(CareTipsCollection), &s.CareTips); err != nil {
		return store.Seed{}, err
	}
	if err := readAll(ctx, db.Collection(MessagesCollection), &s.Messages); err != nil {
		return store.Seed{}, err
	}
	return s, nil
}

func readAll(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return fmt.Errorf("read %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return nil
}

// SaveMongo replaces the content of db's collections with s. It is how a
// JSON seed gets loaded into a database for later LoadMongo calls.
func SaveMongo(ctx context.Context, db *mongo.Database, s store.Seed) error {
	batches := []struct {
		name string
		docs []interface{}
	}{
		{UsersCollection, toDocs(s.Users)},
		{MilestonesCollection, toDocs(s.Milestones)},
		{TestsCollection, toDocs(s.Tests)},
		{CareTipsCollection, toDocs(s.CareTips)},
		{MessagesCollection, toDocs(s.Messages)},
	}
	for _, b := range batches {
		coll := db.Collection(b.name)
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", b.name, err)
		}
		if len(b.docs) == 0 {
			continue
		}
		if _, err := coll.InsertMany(ctx, b.docs, options.InsertMany().SetOrdered(true)); err != nil {
			return fmt.Errorf("insert %s: %w", b.name, err)
		}
	}
	return nil
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}
