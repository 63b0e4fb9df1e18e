package mongostore

import (
	"testing"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductQuery_Empty(t *testing.T) {
	assert.Empty(t, productQuery(domain.ProductFilter{}))
}

func TestProductQuery_AllCriteria(t *testing.T) {
	min := decimal.RequireFromString("10")
	max := decimal.RequireFromString("99.99")
	featured := true

	q := productQuery(domain.ProductFilter{
		Category: "Electronics",
		MinPrice: &min,
		MaxPrice: &max,
		Search:   "head.phones",
		Featured: &featured,
	})

	assert.Equal(t, "Electronics", q["category"])
	assert.Equal(t, true, q["featured"])

	price, ok := q["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "10", price["$gte"].(primitive.Decimal128).String())
	assert.Equal(t, "99.99", price["$lte"].(primitive.Decimal128).String())

	or, ok := q["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	re := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `head\.phones`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestDecimal128RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "19.99", "1234567.89", "0.01"} {
		d := decimal.RequireFromString(s)
		assert.True(t, d.Equal(fromDecimal128(toDecimal128(d))), s)
	}
}

func TestObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	got, ok := objectID(id.Hex())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = objectID("not-an-id")
	assert.False(t, ok)
}

func TestUserDoc_RoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	in := &domain.User{
		Name:         "Jane",
		Email:        " Jane@Example.com ",
		PasswordHash: "hash",
		Role:         domain.RoleModerator,
		IsActive:     true,
		Preferences:  domain.DefaultPreferences(),
	}
	doc := newUserDoc(id, in)
	assert.Equal(t, "moderator", doc.Role)
	assert.Equal(t, "jane@example.com", doc.Email)

	out, err := doc.user()
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), out.ID)
	assert.Equal(t, domain.RoleModerator, out.Role)
	assert.Equal(t, "hash", out.PasswordHash)
}
