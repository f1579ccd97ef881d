package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type choice struct {
	TypeID int64 `json:"type_id" validate:"required,gt=0"`
}

type request struct {
	ProductID int64    `json:"product_id" validate:"required,gt=0"`
	Mode      string   `json:"mode" validate:"omitempty,oneof=summary detail"`
	Limit     int      `mapstructure:"limit" validate:"lte=100"`
	Choices   []choice `json:"selection" validate:"dive"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(request{ProductID: 1, Mode: "detail"}))

	err := ValidateStruct(request{Mode: "pivot", Limit: 101, Choices: []choice{{TypeID: 0}}})
	require.Error(t, err)

	got := GetValidationErrors(err)
	require.Len(t, got, 4)

	byField := make(map[string]ValidationError)
	for _, e := range got {
		byField[e.Field] = e
	}
	assert.Equal(t, "product_id is required", byField["product_id"].Message)
	assert.Equal(t, "mode must be one of: summary detail", byField["mode"].Message)
	assert.Equal(t, "limit must be at most 100", byField["limit"].Message)
	assert.Equal(t, "required", byField["selection[0].type_id"].Tag)
}

func TestGetValidationErrors_OtherError(t *testing.T) {
	assert.Nil(t, GetValidationErrors(errors.New("boom")))
	assert.Nil(t, GetValidationErrors(nil))
}
