package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"alice", true},
		{"alice123", true},
		{"Abcde12345Fghij", true},
		{"bob", false},             // too short
		{"abcdefghijklmnop", false}, // too long
		{"alice_1", false},          // underscore
		{"alice one", false},        // space
		{"", false},
	}
	for _, tt := range tests {
		r := Check(Username("username", tt.value))
		assert.Equal(t, tt.ok, r.OK(), "username %q", tt.value)
	}
}

func TestEmail(t *testing.T) {
	assert.True(t, Check(Email("email", "alice@example.com")).OK())
	assert.False(t, Check(Email("email", "not-an-email")).OK())
	assert.False(t, Check(Email("email", "")).OK())
}

func TestPassword(t *testing.T) {
	assert.True(t, Check(Password("password", "longenough")).OK())
	assert.False(t, Check(Password("password", "short")).OK())
}

func TestPositive(t *testing.T) {
	assert.True(t, Check(Positive("quantity", 0.5)).OK())
	assert.False(t, Check(Positive("quantity", 0)).OK())
	assert.False(t, Check(Positive("quantity", -2)).OK())
	assert.False(t, Check(Positive("quantity", math.NaN())).OK())
}

func TestCheckCombinesErrors(t *testing.T) {
	r := Check(
		Username("username", "x"),
		Email("email", "bad"),
		Required("unit", "  "),
	)
	assert.False(t, r.OK())
	assert.Len(t, r.Errors, 3)
	assert.Equal(t, "username", r.Errors[0].Field)
	assert.Equal(t, "unit", r.Errors[2].Field)
}
