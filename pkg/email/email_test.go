package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "filingcontrol/pkg/domain-errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain address", "owner@example.com", "owner@example.com"},
		{"surrounding whitespace", "  owner@example.com  ", "owner@example.com"},
		{"mixed-case domain lowered", "Owner@Example.COM", "Owner@example.com"},
		{"local part case preserved", "First.Last@example.com", "First.Last@example.com"},
		{"plus tag kept", "owner+llc@example.com", "owner+llc@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing at sign", "owner.example.com"},
		{"missing local part", "@example.com"},
		{"missing domain", "owner@"},
		{"domain without dot", "owner@localhost"},
		{"too long", strings.Repeat("a", 250) + "@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
