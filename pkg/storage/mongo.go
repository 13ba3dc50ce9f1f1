package storage

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

const mongoCollection = "snapshots"

// mongoDoc is the stored document. Data holds the enterprise in the JSON
// export format so documents stay readable in the shell.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Mongo stores one document per key in the snapshots collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	key    string
}

// NewMongo connects to uri and verifies the connection.
func NewMongo(ctx context.Context, uri, database, key string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	if database == "" {
		database = "assetcanvas"
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
		key:    key,
	}, nil
}

// Load fetches the document for the key.
func (m *Mongo) Load(ctx context.Context) (*hierarchy.Enterprise, error) {
	var doc mongoDoc
	err := withRetry(ctx, func() error {
		err := m.coll.FindOne(ctx, bson.M{"_id": m.key}).Decode(&doc)
		if err != nil && err != mongo.ErrNoDocuments && mongo.IsNetworkError(err) {
			return Retryable(err)
		}
		return err
	})
	if err == mongo.ErrNoDocuments {
		return nil, notFound("mongo", m.key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "mongo find %s", m.key)
	}

	var e hierarchy.Enterprise
	if err := json.Unmarshal([]byte(doc.Data), &e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode mongo document %s", m.key)
	}
	return checked(&e, "mongo")
}

// Save upserts the document for the key.
func (m *Mongo) Save(ctx context.Context, e *hierarchy.Enterprise) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode enterprise")
	}
	doc := mongoDoc{ID: m.key, Data: string(data), UpdatedAt: time.Now().UTC()}
	err = withRetry(ctx, func() error {
		_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": m.key}, doc, options.Replace().SetUpsert(true))
		if mongo.IsNetworkError(err) {
			return Retryable(err)
		}
		return err
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "mongo replace %s", m.key)
	}
	return nil
}

// Clear deletes the document.
func (m *Mongo) Clear(ctx context.Context) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": m.key}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "mongo delete %s", m.key)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Name returns "mongo".
func (m *Mongo) Name() string { return "mongo" }

// Ensure Mongo implements Backend.
var _ Backend = (*Mongo)(nil)
