package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default database and collection for MongoStore.
const (
	DefaultMongoDatabase   = "casperflow"
	DefaultMongoCollection = "library"
)

// MongoStore stores one document per key in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoEntry is the stored document. Expired documents are filtered on
// read; a TTL index on expires_at may be added by operators.
type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// NewMongoStore connects to uri and uses the given database and
// collection, falling back to the defaults when empty.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb store: no uri configured")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb store: connect: %w: %v", ErrBackend, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb store: ping: %w: %v", ErrBackend, err)
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// Get retrieves a value.
func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(fmt.Errorf("%w: find %s: %v", ErrBackend, key, err))
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_, _ = s.coll.DeleteOne(ctx, bson.M{"_id": key})
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set upserts a value.
func (s *MongoStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return Retryable(fmt.Errorf("%w: replace %s: %v", ErrBackend, key, err))
	}
	return nil
}

// Delete removes a value.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return Retryable(fmt.Errorf("%w: delete %s: %v", ErrBackend, key, err))
	}
	return nil
}

// List returns the live keys with prefix in ascending order.
func (s *MongoStore) List(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{
		"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)},
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": bson.M{"$gt": time.Now()}},
		},
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, Retryable(fmt.Errorf("%w: find: %v", ErrBackend, err))
	}
	defer cur.Close(ctx)

	var keys []string
	for cur.Next(ctx) {
		var entry mongoEntry
		if err := cur.Decode(&entry); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrBackend, err)
		}
		keys = append(keys, entry.Key)
	}
	if err := cur.Err(); err != nil {
		return nil, Retryable(fmt.Errorf("%w: cursor: %v", ErrBackend, err))
	}
	return keys, nil
}

// Backend returns "mongodb".
func (s *MongoStore) Backend() string { return BackendMongo }

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
