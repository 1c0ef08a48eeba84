package source

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// MongoConfig locates a collection of load documents.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// Timeout bounds connecting and querying. Zero means 30 seconds.
	Timeout time.Duration `toml:"-"`
}

const defaultMongoTimeout = 30 * time.Second

// Mongo reads records from a MongoDB collection. Documents carry the fields
// start, end, buyer, table and rows.
type Mongo struct {
	cfg    MongoConfig
	window Window
}

// NewMongo returns a Mongo source. It does not connect until Load.
func NewMongo(cfg MongoConfig, window Window) (*Mongo, error) {
	switch {
	case cfg.URI == "":
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	case cfg.Database == "":
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo database is required")
	case cfg.Collection == "":
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo collection is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultMongoTimeout
	}
	return &Mongo{cfg: cfg, window: window}, nil
}

// Name implements Source.
func (m *Mongo) Name() string {
	return "mongo:" + m.cfg.Database + "." + m.cfg.Collection
}

type mongoRecord struct {
	Start time.Time `bson:"start"`
	End   time.Time `bson:"end"`
	Buyer string    `bson:"buyer"`
	Table string    `bson:"table"`
	Rows  int64     `bson:"rows"`
}

// Load implements Source.
func (m *Mongo) Load(ctx context.Context) ([]interval.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect %s", m.Name())
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database(m.cfg.Database).Collection(m.cfg.Collection)
	cur, err := coll.Find(ctx, windowFilter(m.window),
		options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "query %s", m.Name())
	}

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", m.Name())
	}

	records := make([]interval.Record, len(docs))
	for i, d := range docs {
		records[i] = interval.Record{
			Start: d.Start.UTC(),
			End:   d.End.UTC(),
			Buyer: d.Buyer,
			Table: d.Table,
			Rows:  d.Rows,
		}
	}
	return validated(m, records)
}

// windowFilter builds the query document for w. An open window matches every
// document.
func windowFilter(w Window) bson.M {
	if w.IsZero() {
		return bson.M{}
	}
	start := bson.M{}
	if !w.From.IsZero() {
		start["$gte"] = w.From
	}
	if !w.To.IsZero() {
		start["$lt"] = w.To
	}
	return bson.M{"start": start}
}

var _ Source = (*Mongo)(nil)
