package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.5e12, "2.50T"},
		{60e9, "60.0B"},
		{-20e9, "-20.0B"},
		{3.5e6, "3.5M"},
		{950, "950"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in), "%v", tt.in)
	}
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★★★", Stars(97))
	assert.Equal(t, "★★★★", Stars(85))
	assert.Equal(t, "★★★", Stars(72))
	assert.Equal(t, "★★", Stars(50))
	assert.Equal(t, "★", Stars(10))
}
