package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMoneyJSONIsBareNumber(t *testing.T) {
	price := MustMoney("160.50")
	vt := VisaType{ID: "b1b2", Name: "Tourist", Duration: "6 months", Validity: "10 years", Price: &price}
	b, err := json.Marshal(vt)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":160.5`)

	var back VisaType
	require.NoError(t, json.Unmarshal([]byte(`{"price":"99.99"}`), &back))
	assert.Equal(t, "99.99", back.Price.String())
	require.NoError(t, json.Unmarshal([]byte(`{"price":12}`), &back))
	assert.Equal(t, "12", back.Price.String())
}

func TestMoneyStoredAsDecimal128(t *testing.T) {
	p := Payment{Status: PaymentPending, Amount: &Money{}, Currency: DefaultCurrency}
	*p.Amount = MustMoney("185.25")

	raw, err := bson.Marshal(p)
	require.NoError(t, err)
	val := bson.Raw(raw).Lookup("amount")
	_, ok := val.Decimal128OK()
	require.True(t, ok, "amount should be Decimal128, got %s", val.Type)

	var back Payment
	require.NoError(t, bson.Unmarshal(raw, &back))
	require.NotNil(t, back.Amount)
	assert.True(t, back.Amount.Equal(p.Amount.Decimal))
}

func TestMoneyDecodesLegacyDouble(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "price", Value: 160.0}})
	require.NoError(t, err)

	var vt VisaType
	require.NoError(t, bson.Unmarshal(raw, &vt))
	assert.Equal(t, "160", vt.Price.String())

	d, _ := primitive.ParseDecimal128("1")
	raw, err = bson.Marshal(bson.D{{Key: "price", Value: d}})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(raw, &vt))
	assert.Equal(t, "1", vt.Price.String())
}

func TestDocumentTypeValid(t *testing.T) {
	assert.True(t, DocPassport.Valid())
	assert.True(t, DocHotelBooking.Valid())
	assert.False(t, DocumentType("selfie").Valid())
}
