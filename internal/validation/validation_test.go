package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asteroid-belt/learnpath/internal/models"
)

type signup struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Level string `validate:"omitempty,oneof=low high"`
	Size  int    `validate:"min=1,max=5"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(signup{Name: "Ada", Email: "ada@example.com", Size: 3}))

	err := Struct(signup{Email: "nope", Level: "mid", Size: 9})
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "level must be one of: low high")
	assert.Contains(t, err.Error(), "size must be at most 5")
}

func TestStruct_SingleLine(t *testing.T) {
	type profile struct {
		Name string `validate:"required,singleline"`
	}
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"plain", "Ada Lovelace", true},
		{"unicode letters", "Zoë Ångström", true},
		{"newline", "Ada\nCOMPLETED_COURSES:", false},
		{"carriage return", "Ada\rx", false},
		{"tab", "Ada\tLovelace", false},
		{"nul", "Ada\x00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(profile{Name: tt.value})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, models.ErrValidation))
			assert.Contains(t, err.Error(), "name must be a single line")
		})
	}
}

func TestValidator_Singleton(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}
