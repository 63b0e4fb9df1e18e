package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	Role        string             `bson:"role"`
	IsActive    bool               `bson:"isActive"`
	LastLogin   time.Time          `bson:"lastLogin"`
	Address     *domain.Address    `bson:"address,omitempty"`
	Phone       string             `bson:"phone,omitempty"`
	Preferences domain.Preferences `bson:"preferences"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newUserDoc(id primitive.ObjectID, u *domain.User) userDoc {
	return userDoc{
		ID:          id,
		Name:        u.Name,
		Email:       domain.NormalizeEmail(u.Email),
		Password:    u.PasswordHash,
		Role:        u.Role.String(),
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
		Address:     u.Address,
		Phone:       u.Phone,
		Preferences: u.Preferences,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (d userDoc) user() (*domain.User, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         role,
		IsActive:     d.IsActive,
		LastLogin:    d.LastLogin,
		Address:      d.Address,
		Phone:        d.Phone,
		Preferences:  d.Preferences,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

// UserStore implements domain.UserRepository. A unique index on email backs
// ErrDuplicateEmail.
type UserStore struct {
	coll *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	id := primitive.NewObjectID()
	doc := newUserDoc(id, u)
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	u.ID = id.Hex()
	u.Email = doc.Email
	return nil
}

func (s *UserStore) findOne(ctx context.Context, q bson.M) (*domain.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, q).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return doc.user()
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.user()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *UserStore) Update(ctx context.Context, u *domain.User) error {
	oid, ok := objectID(u.ID)
	if !ok {
		return domain.ErrUserNotFound
	}
	doc := newUserDoc(oid, u)
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	u.Email = doc.Email
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
