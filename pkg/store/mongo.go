package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
	galaxyio "github.com/matzehuels/stargen/pkg/io"
)

// DefaultCollection is the collection galaxies are stored in.
const DefaultCollection = "galaxies"

// Mongo stores galaxies in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored document. Seeds are stored as int64 since BSON
// has no unsigned integers.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	Seed      int64     `bson:"seed"`
	Width     int       `bson:"width"`
	Height    int       `bson:"height"`
	Shape     string    `bson:"shape"`
	Systems   int       `bson:"systems"`
	Colonies  int       `bson:"colonies"`
	Document  []byte    `bson:"document,omitempty"`
}

// OpenMongo connects to uri and uses the given database. The connection is
// verified with a ping.
func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(DefaultCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Mongo{client: client, coll: coll}, nil
}

// Save inserts g.
func (m *Mongo) Save(ctx context.Context, g *galaxy.Galaxy) (Record, error) {
	rec, doc, err := newRecord(g)
	if err != nil {
		return Record{}, err
	}
	d := toMongoDoc(rec)
	d.Document = doc
	if _, err := m.coll.InsertOne(ctx, d); err != nil {
		return Record{}, fmt.Errorf("insert galaxy: %w", err)
	}
	return rec, nil
}

// Get loads a galaxy by ID.
func (m *Mongo) Get(ctx context.Context, id string) (*galaxy.Galaxy, Record, error) {
	if err := serrors.ValidateGalaxyID(id); err != nil {
		return nil, Record{}, err
	}
	var d mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, Record{}, notFound(id)
	}
	if err != nil {
		return nil, Record{}, fmt.Errorf("find galaxy: %w", err)
	}
	g, err := galaxyio.Unmarshal(d.Document)
	if err != nil {
		return nil, Record{}, serrors.Wrap(serrors.ErrCodeInternal, err, "decode galaxy %s", id)
	}
	return g, d.record(), nil
}

// List returns the newest records first.
func (m *Mongo) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit))).
		SetProjection(bson.M{"document": 0})
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list galaxies: %w", err)
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list galaxies: %w", err)
	}
	out := make([]Record, len(docs))
	for i, d := range docs {
		out[i] = d.record()
	}
	return out, nil
}

// Delete removes a galaxy by ID.
func (m *Mongo) Delete(ctx context.Context, id string) error {
	if err := serrors.ValidateGalaxyID(id); err != nil {
		return err
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete galaxy: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func toMongoDoc(r Record) mongoDoc {
	return mongoDoc{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Seed:      int64(r.Seed),
		Width:     r.Width,
		Height:    r.Height,
		Shape:     r.Shape,
		Systems:   r.Systems,
		Colonies:  r.Colonies,
	}
}

func (d mongoDoc) record() Record {
	return Record{
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
		Seed:      uint64(d.Seed),
		Width:     d.Width,
		Height:    d.Height,
		Shape:     d.Shape,
		Systems:   d.Systems,
		Colonies:  d.Colonies,
	}
}

var _ Store = (*Mongo)(nil)
