// Package mongostore implements the repositories on MongoDB. Prices are
// stored as Decimal128 so the database never rounds them.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection = "products"
	ordersCollection   = "orders"
	usersCollection    = "users"
)

// Store owns the client and hands out the three repositories.
type Store struct {
	client   *mongo.Client
	Products *ProductStore
	Orders   *OrderStore
	Users    *UserStore
}

// Connect dials uri, pings the server and ensures indexes on database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		Products: &ProductStore{coll: db.Collection(productsCollection)},
		Orders:   &OrderStore{coll: db.Collection(ordersCollection)},
		Users:    &UserStore{coll: db.Collection(usersCollection)},
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Infow("connected to mongodb", "database", database)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.Users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating users.email index: %w", err)
	}
	_, err = s.Orders.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("creating orders.userId index: %w", err)
	}
	_, err = s.Products.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating products.category index: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		// decimal.String never produces a form Decimal128 rejects within its range
		panic(fmt.Sprintf("mongostore: converting %s to Decimal128: %v", d, err))
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// objectID parses a hex id. ok is false for ids this store could not have
// issued.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

// Drop removes the database. Used to clean up test databases.
func (s *Store) Drop(ctx context.Context) error {
	return s.Users.coll.Database().Drop(ctx)
}
