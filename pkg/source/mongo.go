package source

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/poi"
)

// DefaultDatabase is used when a MongoDB URI names no database.
const DefaultDatabase = "poimap"

const mongoTimeout = 30 * time.Second

// MongoSource reads POI documents from a MongoDB collection. Documents use
// the same field names as the JSON format; unknown fields such as _id are
// ignored.
type MongoSource struct {
	URI        string
	Collection string
}

// Load connects, reads the whole collection in insertion order and
// disconnects.
func (s *MongoSource) Load(ctx context.Context) ([]poi.POI, error) {
	db, err := mongoDatabase(s.URI)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "connect to %s", Redact(s.URI))
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(db).Collection(s.Collection)
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "query %s.%s", db, s.Collection)
	}
	var pois []poi.POI
	if err := cur.All(ctx, &pois); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "decode %s.%s", db, s.Collection)
	}
	return pois, nil
}

// Remote is true for MongoDB.
func (s *MongoSource) Remote() bool { return true }

// mongoDatabase returns the database named in uri, or DefaultDatabase.
func mongoDatabase(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid MongoDB URI %s", Redact(uri))
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}
