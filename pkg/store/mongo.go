package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gerrors "github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/graph"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "glyphgraph"

// mongoCollection holds one document per record.
const mongoCollection = "graphs"

// Mongo stores records in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to uri and uses the graphs collection of database.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeNetwork, err, "connect mongo")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, gerrors.Wrap(gerrors.ErrCodeNetwork, err, "ping mongo")
	}

	coll := client.Database(database).Collection(mongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, gerrors.Wrap(gerrors.ErrCodeStorage, err, "create index")
	}
	return &Mongo{client: client, coll: coll}, nil
}

func (m *Mongo) Put(ctx context.Context, r *Record) error {
	r.prepare()
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeStorage, err, "save graph %s", r.ID)
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, id string) (*Record, error) {
	var r Record
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, gerrors.New(gerrors.ErrCodeGraphNotFound, "graph %s not found", id)
	}
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeStorage, err, "load graph %s", id)
	}
	if r.Graph == nil {
		r.Graph = graph.Graph{}
	}
	return &r, nil
}

func (m *Mongo) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit))).
		SetProjection(bson.M{"graph": 0, "overlay": 0})

	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeStorage, err, "list graphs")
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeStorage, err, "decode graphs")
	}
	return out, nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
