package referral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		assert.True(t, IsValidFormat(code), "generated code %q should be valid", code)
		seen[code] = true
	}
	// 36^8 possibilities; collisions in 200 draws would point at a broken source.
	assert.Len(t, seen, 200)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ab12cd34", "AB12CD34"},
		{"  AB12 CD34\n", "AB12CD34"},
		{"ab\t12\tcd\t34", "AB12CD34"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"AB12CD34", true},
		{"ab12cd34", true},
		{" AB12 CD34 ", true},
		{"AB12CD3", false},
		{"AB12CD345", false},
		{"AB12-D34", false},
		{"ÄB12CD34", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.valid, IsValidFormat(tc.code), "IsValidFormat(%q)", tc.code)
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alexander@example.com", "ale***@example.com"},
		{"jo@example.com", "jo***@example.com"},
		{"abc@uni.edu", "abc***@uni.edu"},
		{"not-an-email", "***"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MaskEmail(tc.email))
	}
}
