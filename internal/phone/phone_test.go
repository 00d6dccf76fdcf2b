package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-congrats/internal/phone"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Already normalized", "+380501233234", "+380501233234"},
		{"Parentheses and dashes", "    +38(050)123-32-34", "+380501233234"},
		{"Local with leading spaces", "     0503451234", "+380503451234"},
		{"Local with parentheses", "(050)8889900", "+380508889900"},
		{"Country code without plus", "38050-111-22-22", "+380501112222"},
		{"Trailing spaces", "38050 111 22 11   ", "+380501112211"},
		{"Full-width characters", "＋３８０５０１２３３２３４", "+380501233234"},
		{"Plus in the middle is left alone", "050+123", "050+123"},
		{"No digits", "call me", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Normalize(tt.in))
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	got := phone.NormalizeAll([]string{"(050)8889900", "  ", "38050 111 22 11"})

	assert.Equal(t, []string{"+380508889900", "+380501112211"}, got)
}
