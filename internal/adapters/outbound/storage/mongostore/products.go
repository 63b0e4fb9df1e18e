package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDoc struct {
	ID             primitive.ObjectID   `bson:"_id"`
	Name           string               `bson:"name"`
	Description    string               `bson:"description"`
	Price          primitive.Decimal128 `bson:"price"`
	Category       string               `bson:"category"`
	Images         []string             `bson:"images"`
	Stock          int                  `bson:"stock"`
	Featured       bool                 `bson:"featured"`
	Specifications map[string]string    `bson:"specifications,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func newProductDoc(id primitive.ObjectID, p *domain.Product) productDoc {
	return productDoc{
		ID:             id,
		Name:           p.Name,
		Description:    p.Description,
		Price:          toDecimal128(p.Price),
		Category:       p.Category,
		Images:         p.Images,
		Stock:          p.Stock,
		Featured:       p.Featured,
		Specifications: p.Specifications,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d productDoc) product() *domain.Product {
	return &domain.Product{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Description:    d.Description,
		Price:          fromDecimal128(d.Price),
		Category:       d.Category,
		Images:         d.Images,
		Stock:          d.Stock,
		Featured:       d.Featured,
		Specifications: d.Specifications,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// productQuery translates f into a query document.
func productQuery(f domain.ProductFilter) bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = toDecimal128(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		price["$lte"] = toDecimal128(*f.MaxPrice)
	}
	if len(price) > 0 {
		q["price"] = price
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{bson.M{"name": re}, bson.M{"description": re}}
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	return q
}

// ProductStore implements domain.ProductRepository.
type ProductStore struct {
	coll *mongo.Collection
}

func (s *ProductStore) Create(ctx context.Context, p *domain.Product) error {
	id := primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, newProductDoc(id, p)); err != nil {
		return err
	}
	p.ID = id.Hex()
	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	var doc productDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return doc.product(), nil
}

func (s *ProductStore) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	cur, err := s.coll.Find(ctx, productQuery(f), newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.product())
	}
	return out, nil
}

func (s *ProductStore) Update(ctx context.Context, p *domain.Product) error {
	oid, ok := objectID(p.ID)
	if !ok {
		return domain.ErrProductNotFound
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, newProductDoc(oid, p))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProductNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock matches the product only while it still holds qty units,
// so two concurrent orders can never both take the last one.
func (s *ProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProductNotFound
	}
	var doc productDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$currentDate": bson.M{"updatedAt": true}},
		options.FindOneAndUpdate().SetProjection(bson.M{"_id": 1}),
	).Decode(&doc)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &domain.StockError{
		ProductID:   id,
		ProductName: current.Name,
		Requested:   qty,
		Available:   current.Stock,
	}
}

func (s *ProductStore) RestoreStock(ctx context.Context, id string, qty int) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProductNotFound
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"stock": qty}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
