package crossbind_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crossbind/crossbind"
)

func TestCheckConstraints(t *testing.T) {
	t.Parallel()

	type constrained struct {
		Name   string   `json:"name" minLength:"2" maxLength:"5"`
		Code   string   `json:"code" pattern:"^[A-Z]{3}$"`
		Color  string   `json:"color" enum:"red,green,blue"`
		Count  int      `json:"count" minimum:"1" maximum:"10"`
		Rate   float64  `json:"rate" minimum:"0"`
		Labels []string `json:"labels" minItems:"1" maxItems:"3"`
	}

	valid := constrained{
		Name:   "abc",
		Code:   "ABC",
		Color:  "red",
		Count:  5,
		Rate:   0.5,
		Labels: []string{"a"},
	}

	tests := map[string]struct {
		mutate  func(c *constrained)
		wantErr string
	}{
		"valid": {
			mutate: func(*constrained) {},
		},
		"name too short": {
			mutate:  func(c *constrained) { c.Name = "a" },
			wantErr: `field "name" must be at least 2 characters`,
		},
		"name too long": {
			mutate:  func(c *constrained) { c.Name = "abcdef" },
			wantErr: `field "name" must be at most 5 characters`,
		},
		"pattern mismatch": {
			mutate:  func(c *constrained) { c.Code = "abc" },
			wantErr: `field "code" must match pattern`,
		},
		"enum mismatch": {
			mutate:  func(c *constrained) { c.Color = "purple" },
			wantErr: `field "color" must be one of [red,green,blue]`,
		},
		"below minimum": {
			mutate:  func(c *constrained) { c.Count = 0 },
			wantErr: `field "count" must be at least 1`,
		},
		"above maximum": {
			mutate:  func(c *constrained) { c.Count = 11 },
			wantErr: `field "count" must be at most 10`,
		},
		"too few items": {
			mutate:  func(c *constrained) { c.Labels = nil },
			wantErr: `field "labels" must have at least 1 items`,
		},
		"too many items": {
			mutate:  func(c *constrained) { c.Labels = []string{"a", "b", "c", "d"} },
			wantErr: `field "labels" must have at most 3 items`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := valid
			tc.mutate(&c)

			err := crossbind.CheckConstraints(reflect.ValueOf(c))
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCheckConstraints_nested(t *testing.T) {
	t.Parallel()

	type inner struct {
		Name string `json:"name" minLength:"3"`
	}
	type outer struct {
		Item inner `json:"item"`
	}

	err := crossbind.CheckConstraints(reflect.ValueOf(outer{Item: inner{Name: "ab"}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "item"`)
	assert.Contains(t, err.Error(), `field "name"`)
}

func TestCheckConstraints_nilPointer(t *testing.T) {
	t.Parallel()

	type inner struct {
		Name string `json:"name" minLength:"3"`
	}
	type outer struct {
		Item *inner `json:"item"`
	}

	assert.NoError(t, crossbind.CheckConstraints(reflect.ValueOf(outer{})))
}
