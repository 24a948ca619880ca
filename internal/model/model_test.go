package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	for _, in := range []string{"store", "Store", " STORE "} {
		l, err := ParseLocation(in)
		require.NoError(t, err)
		assert.Equal(t, LocationStore, l)
	}
	_, err := ParseLocation("garage")
	assert.Error(t, err)
}

func TestParseSaleStatus(t *testing.T) {
	s, err := ParseSaleStatus("fulfilled")
	require.NoError(t, err)
	assert.Equal(t, SaleFulfilled, s)

	_, err = ParseSaleStatus("SHIPPED")
	assert.Error(t, err)
}

func TestRoleSet(t *testing.T) {
	set, err := NewRoleSet("admin", RoleSalesperson, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleSet{RoleSalesperson, RoleAdmin}, set)
	assert.True(t, set.HasAny(RoleFulfillment, RoleAdmin))
	assert.False(t, set.Has(RoleFulfillment))
	assert.Equal(t, RoleSet{RoleSalesperson}, set.Without(RoleAdmin))

	_, err = NewRoleSet("JANITOR")
	assert.Error(t, err)

	v, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, "SALESPERSON,ADMIN", v)

	var scanned RoleSet
	require.NoError(t, scanned.Scan([]byte("ADMIN, SALESPERSON")))
	assert.Equal(t, set, scanned)
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
	assert.Error(t, scanned.Scan(42))

	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["SALESPERSON","ADMIN"]`, string(raw))

	var decoded RoleSet
	assert.Error(t, json.Unmarshal([]byte(`["BOSS"]`), &decoded))
}

func TestEmployeePIN(t *testing.T) {
	e := &Employee{Name: "Sam"}
	assert.False(t, e.CheckPIN(""), "no pin set means no login")

	require.NoError(t, e.SetPIN("1234"))
	assert.True(t, e.CheckPIN("1234"))
	assert.False(t, e.CheckPIN("4321"))
	assert.True(t, e.ToResponse().HasPIN)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), e.PINHash)
}
