package domain

import "context"

// ProductRepository persists catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	// GetByID returns ErrProductNotFound when no product has the id.
	GetByID(ctx context.Context, id string) (*Product, error)
	// List returns the products matching f, newest first.
	List(ctx context.Context, f ProductFilter) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock subtracts qty from the product's stock only if at least
	// qty units remain, as one atomic operation. It returns ErrProductNotFound
	// or a StockError when it cannot.
	DecrementStock(ctx context.Context, id string, qty int) error
	// RestoreStock adds qty back, undoing a DecrementStock.
	RestoreStock(ctx context.Context, id string, qty int) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	// GetByID returns ErrOrderNotFound when no order has the id.
	GetByID(ctx context.Context, id string) (*Order, error)
	// List returns the orders of userID, or every order when userID is empty,
	// newest first.
	List(ctx context.Context, userID string) ([]*Order, error)
	// UpdateStatus sets the status and returns the updated order.
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
}

// UserRepository persists accounts. Emails are stored normalized.
type UserRepository interface {
	// Create returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *User) error
	// GetByID returns ErrUserNotFound when no user has the id.
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByEmail returns ErrUserNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]*User, error)
	// Update overwrites the stored user; ErrDuplicateEmail if the new email
	// belongs to another account.
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}

// CartRepository is the durable slot a client-local cart lives in.
type CartRepository interface {
	// Load returns the stored cart; an empty slot is an empty cart.
	Load(ctx context.Context) (Cart, error)
	Save(ctx context.Context, c Cart) error
}

// PasswordHasher hashes and verifies passwords with a slow salted primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns a non-nil error when password does not match hash.
	Compare(hash, password string) error
}

// TokenIssuer signs session claims into an opaque token and verifies them.
type TokenIssuer interface {
	Issue(c SessionClaims) (string, error)
	// Parse returns ErrUnauthorized for any invalid or expired token.
	Parse(token string) (SessionClaims, error)
}

// RevisionSource reports the source revision the running build came from.
type RevisionSource interface {
	CommitHash(path string) (string, error)
}
