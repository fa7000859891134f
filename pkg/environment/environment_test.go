package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/accesskit/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected environment.Environment
	}{
		{"development", environment.Development},
		{"dev", environment.Development},
		{"local", environment.Development},
		{"staging", environment.Staging},
		{"stage", environment.Staging},
		{"production", environment.Production},
		{"prod", environment.Production},
		{"PRODUCTION", environment.Production},
		{"  Dev  ", environment.Development},
		{"", environment.Development},
		{"garbage", environment.Production},
	}

	for _, tt := range tests {
		t.Run("parse "+tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, environment.Parse(tt.raw))
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "production", environment.Production.String())
	assert.Equal(t, "custom", environment.Environment("custom").String())
}
