package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID       uuid.UUID `validate:"uuid_required"`
	Price    string    `validate:"required,decimal"`
	Location string    `validate:"required,location"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(&sample{ID: uuid.New(), Price: "1299.99", Location: "store"})
	assert.Empty(t, errs)
}

func TestValidateStruct_CustomTags(t *testing.T) {
	errs := ValidateStruct(&sample{ID: uuid.Nil, Price: "12,50", Location: "GARAGE"})
	require.Len(t, errs, 3)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "uuid_required", tags["sample.ID"])
	assert.Equal(t, "decimal", tags["sample.Price"])
	assert.Equal(t, "location", tags["sample.Location"])
}
