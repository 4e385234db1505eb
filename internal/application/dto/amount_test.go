package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/pkg/money"
)

func TestAmount_JSON(t *testing.T) {
	var item dto.LineItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"unit_price":"142.80","quantity":12,"tax_rate":"19"}`), &item))
	assert.Equal(t, dto.Amount("142.8"), item.UnitPrice)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, dto.Amount("12"), *item.Quantity)
	assert.Nil(t, item.Discount)

	err := json.Unmarshal([]byte(`{"unit_price":142.8}`), &item)
	assert.ErrorIs(t, err, money.ErrFloatInput)

	err = json.Unmarshal([]byte(`{"unit_price":"1,5"}`), &item)
	assert.ErrorIs(t, err, money.ErrInvalidDecimal)
}

func TestAmount_YAML(t *testing.T) {
	var item dto.LineItemRequest
	require.NoError(t, yaml.Unmarshal([]byte("unit_price: '29.75'\nquantity: 3\ntax_rate: \"19\"\n"), &item))
	assert.Equal(t, dto.Amount("29.75"), item.UnitPrice)
	assert.Equal(t, dto.Amount("3"), *item.Quantity)
	assert.Equal(t, dto.Amount("19"), *item.TaxRate)

	err := yaml.Unmarshal([]byte("unit_price: 29.75\n"), &item)
	assert.ErrorIs(t, err, money.ErrFloatInput)

	err = yaml.Unmarshal([]byte("unit_price: [1, 2]\n"), &item)
	assert.ErrorIs(t, err, money.ErrInvalidDecimal)
}

func TestAmount_Decimal(t *testing.T) {
	v, err := dto.Amount("12.40").Decimal()
	require.NoError(t, err)
	assert.Equal(t, "12.4", v.String())

	_, err = dto.Amount("").Decimal()
	assert.ErrorIs(t, err, money.ErrInvalidDecimal)
}
