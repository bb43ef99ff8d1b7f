package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"stockk_backend/config"
	"stockk_backend/schemas"
)

const (
	archiveDBName     = "stockk"
	archiveCollection = "board_snapshots"
)

// archivedPrice stores decimal fields as strings, which round-trips
// exactly through BSON.
type archivedPrice struct {
	Ticker        string `bson:"ticker"`
	Exchange      string `bson:"exchange"`
	RefPrice      string `bson:"ref_price"`
	CeilingPrice  string `bson:"ceiling_price"`
	FloorPrice    string `bson:"floor_price"`
	OpenPrice     string `bson:"open_price"`
	HighestPrice  string `bson:"highest_price"`
	LowestPrice   string `bson:"lowest_price"`
	MatchPrice    string `bson:"match_price"`
	Change        string `bson:"change"`
	ChangePercent string `bson:"change_percent"`
	TotalVolume   string `bson:"total_volume"`
	TotalValue    string `bson:"total_value"`
}

// boardSnapshotDoc is the archived form of a price-board snapshot. One
// document per trading day keeps the collection bounded.
type boardSnapshotDoc struct {
	ID       string          `bson:"_id"`
	SyncedAt time.Time       `bson:"synced_at"`
	Count    int             `bson:"count"`
	Prices   []archivedPrice `bson:"prices"`
}

func toArchivedPrice(p schemas.BoardPrice) archivedPrice {
	return archivedPrice{
		Ticker:        p.Ticker,
		Exchange:      p.Exchange,
		RefPrice:      p.RefPrice.String(),
		CeilingPrice:  p.CeilingPrice.String(),
		FloorPrice:    p.FloorPrice.String(),
		OpenPrice:     p.OpenPrice.String(),
		HighestPrice:  p.HighestPrice.String(),
		LowestPrice:   p.LowestPrice.String(),
		MatchPrice:    p.MatchPrice.String(),
		Change:        p.Change.String(),
		ChangePercent: p.ChangePercent.String(),
		TotalVolume:   p.TotalVolume.String(),
		TotalValue:    p.TotalValue.String(),
	}
}

func fromArchivedPrice(p archivedPrice) schemas.BoardPrice {
	parse := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return schemas.BoardPrice{
		Ticker:        p.Ticker,
		Exchange:      p.Exchange,
		RefPrice:      parse(p.RefPrice),
		CeilingPrice:  parse(p.CeilingPrice),
		FloorPrice:    parse(p.FloorPrice),
		OpenPrice:     parse(p.OpenPrice),
		HighestPrice:  parse(p.HighestPrice),
		LowestPrice:   parse(p.LowestPrice),
		MatchPrice:    parse(p.MatchPrice),
		Change:        parse(p.Change),
		ChangePercent: parse(p.ChangePercent),
		TotalVolume:   parse(p.TotalVolume),
		TotalValue:    parse(p.TotalValue),
	}
}

// PriceArchive persists price-board snapshots to MongoDB. The archive is
// optional: NewPriceArchive returns nil when no URI is configured and all
// call sites treat a nil archive as disabled.
type PriceArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewPriceArchive connects to MongoDB when MONGO_URI is set
func NewPriceArchive(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*PriceArchive, error) {
	if cfg.MongoURI == "" {
		logger.Info("MONGO_URI not set, price archive disabled")
		return nil, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetMaxPoolSize(10).
		SetConnectTimeout(30 * time.Second).
		SetRetryWrites(true)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("price archive connected")
	return &PriceArchive{
		client:     client,
		collection: client.Database(archiveDBName).Collection(archiveCollection),
		logger:     logger,
	}, nil
}

// Store upserts the day's snapshot document
func (a *PriceArchive) Store(ctx context.Context, snapshot *schemas.BoardSnapshot) error {
	if a == nil || snapshot == nil {
		return nil
	}

	doc := boardSnapshotDoc{
		ID:       snapshot.SyncedAt.Format("2006-01-02"),
		SyncedAt: snapshot.SyncedAt,
		Count:    len(snapshot.Prices),
	}
	for _, price := range snapshot.Prices {
		doc.Prices = append(doc.Prices, toArchivedPrice(price))
	}
	_, err := a.collection.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	a.logger.Debug("price board snapshot archived",
		zap.String("id", doc.ID), zap.Int("rows", doc.Count))
	return nil
}

// Latest returns the most recent archived snapshot, nil when none exist
func (a *PriceArchive) Latest(ctx context.Context) (*schemas.BoardSnapshot, error) {
	if a == nil {
		return nil, nil
	}

	var doc boardSnapshotDoc
	err := a.collection.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.M{"synced_at": -1}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archived snapshot: %w", err)
	}
	snapshot := &schemas.BoardSnapshot{SyncedAt: doc.SyncedAt}
	for _, price := range doc.Prices {
		snapshot.Prices = append(snapshot.Prices, fromArchivedPrice(price))
	}
	return snapshot, nil
}

// Close disconnects from MongoDB
func (a *PriceArchive) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}
