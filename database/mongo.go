package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindsgn-studio/price-watch/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type priceDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Product string             `bson:"product"`
	Price   string             `bson:"price"`
	URL     string             `bson:"url"`
	Date    time.Time          `bson:"date"`
}

type MongoStore struct {
	mongoClient *mongo.Client
	pricesColl  *mongo.Collection
}

func NewMongoStore(parentCtx context.Context, uri, dbName, collName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(parentCtx, DefaultConnectTimeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &MongoStore{
		mongoClient: client,
		pricesColl:  client.Database(dbName).Collection(collName),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.mongoClient.Disconnect(ctx)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.pricesColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product", Value: 1}, {Key: "url", Value: 1}, {Key: "date", Value: -1}},
	})
	return err
}

func (s *MongoStore) FindLatest(parentCtx context.Context, product, url string, from, to time.Time) (*model.PriceRecord, error) {
	ctx, cancel := context.WithTimeout(parentCtx, DefaultDBOpTimeout)
	defer cancel()

	filter := bson.M{
		"product": product,
		"url":     url,
		"date":    bson.M{"$gte": from, "$lt": to},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var doc priceDocument
	err := s.pricesColl.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find price: %w", err)
	}

	return &model.PriceRecord{
		ID:      doc.ID.Hex(),
		Product: doc.Product,
		Price:   doc.Price,
		URL:     doc.URL,
		Date:    doc.Date.UTC(),
	}, nil
}

func (s *MongoStore) Insert(parentCtx context.Context, rec *model.PriceRecord) error {
	ctx, cancel := context.WithTimeout(parentCtx, DefaultDBOpTimeout)
	defer cancel()

	doc := priceDocument{
		Product: rec.Product,
		Price:   rec.Price,
		URL:     rec.URL,
		Date:    rec.Date.UTC(),
	}
	res, err := s.pricesColl.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert price: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

func (s *MongoStore) UpdatePrice(parentCtx context.Context, id, price string, date time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("price id %q: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(parentCtx, DefaultDBOpTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"price": price, "date": date.UTC()}}
	res, err := s.pricesColl.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update price %s: %w", id, mongo.ErrNoDocuments)
	}
	return nil
}
