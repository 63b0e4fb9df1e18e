package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderLineDoc struct {
	ProductID primitive.ObjectID   `bson:"product"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
}

type orderDoc struct {
	ID              primitive.ObjectID     `bson:"_id"`
	UserID          primitive.ObjectID     `bson:"userId"`
	Items           []orderLineDoc         `bson:"items"`
	TotalAmount     primitive.Decimal128   `bson:"totalAmount"`
	ShippingAddress domain.ShippingAddress `bson:"shippingAddress"`
	PaymentMethod   string                 `bson:"paymentMethod"`
	Status          string                 `bson:"status"`
	OrderDate       time.Time              `bson:"orderDate"`
	CreatedAt       time.Time              `bson:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
}

func (d orderDoc) order() *domain.Order {
	items := make([]domain.OrderLine, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderLine{
			ProductID: it.ProductID.Hex(),
			Quantity:  it.Quantity,
			Price:     fromDecimal128(it.Price),
		})
	}
	return &domain.Order{
		ID:              d.ID.Hex(),
		UserID:          d.UserID.Hex(),
		Items:           items,
		TotalAmount:     fromDecimal128(d.TotalAmount),
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   d.PaymentMethod,
		Status:          domain.OrderStatus(d.Status),
		OrderDate:       d.OrderDate,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// OrderStore implements domain.OrderRepository.
type OrderStore struct {
	coll *mongo.Collection
}

func (s *OrderStore) Create(ctx context.Context, o *domain.Order) error {
	uid, ok := objectID(o.UserID)
	if !ok {
		return domain.ErrUserNotFound
	}
	items := make([]orderLineDoc, 0, len(o.Items))
	for _, it := range o.Items {
		pid, ok := objectID(it.ProductID)
		if !ok {
			return &domain.ProductNotFoundError{ProductID: it.ProductID}
		}
		items = append(items, orderLineDoc{ProductID: pid, Quantity: it.Quantity, Price: toDecimal128(it.Price)})
	}

	id := primitive.NewObjectID()
	doc := orderDoc{
		ID:              id,
		UserID:          uid,
		Items:           items,
		TotalAmount:     toDecimal128(o.TotalAmount),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Status:          string(o.Status),
		OrderDate:       o.OrderDate,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	o.ID = id.Hex()
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	var doc orderDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.order(), nil
}

func (s *OrderStore) List(ctx context.Context, userID string) ([]*domain.Order, error) {
	q := bson.M{}
	if userID != "" {
		uid, ok := objectID(userID)
		if !ok {
			return []*domain.Order{}, nil
		}
		q["userId"] = uid
	}
	cur, err := s.coll.Find(ctx, q, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.order())
	}
	return out, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	var doc orderDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.order(), nil
}
