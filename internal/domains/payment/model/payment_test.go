package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMethod_AcceptsAmount(t *testing.T) {
	m := &Method{FromAmount: decimal.NewFromInt(10), ToAmount: decimal.NewFromInt(100)}

	assert.False(t, m.AcceptsAmount(decimal.NewFromInt(9)))
	assert.True(t, m.AcceptsAmount(decimal.NewFromInt(10)))
	assert.True(t, m.AcceptsAmount(decimal.NewFromInt(100)))
	assert.False(t, m.AcceptsAmount(decimal.NewFromInt(101)))

	m.ToAmount = decimal.Zero
	assert.True(t, m.AcceptsAmount(decimal.NewFromInt(1_000_000)))
}

func TestMethod_Restrictions(t *testing.T) {
	m := &Method{}
	assert.True(t, m.AllowsShipSet("any"))
	assert.True(t, m.AllowsGroups(nil))

	m.AllowedShipSets = []string{"standard"}
	m.UserGroups = []string{"b2b"}
	assert.True(t, m.AllowsShipSet("standard"))
	assert.False(t, m.AllowsShipSet("express"))
	assert.True(t, m.AllowsGroups([]string{"customer", "b2b"}))
	assert.False(t, m.AllowsGroups([]string{"customer"}))
}

func TestMethod_MissingField(t *testing.T) {
	m := &Method{RequiredFields: []string{"lsbankname", "lsktonr"}}

	field, missing := m.MissingField(map[string]string{"lsbankname": "Bank", "lsktonr": " "})
	assert.True(t, missing)
	assert.Equal(t, "lsktonr", field)

	_, missing = m.MissingField(map[string]string{"lsbankname": "Bank", "lsktonr": "123"})
	assert.False(t, missing)
}
