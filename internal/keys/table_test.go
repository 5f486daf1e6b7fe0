package keys

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		token string
		want  Key
		found bool
	}{
		{token: "f1", want: F1, found: true},
		{token: "f20", want: F20, found: true},
		{token: "left_arrow", want: LeftArrow, found: true},
		{token: "meta", want: Meta, found: true},
		{token: "return", want: Return, found: true},
		{token: "Meta", found: false},
		{token: "F1", found: false},
		{token: "f21", found: false},
		{token: "enter", found: false},
		{token: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := Lookup(tt.token)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTableRoundTrip(t *testing.T) {
	for _, token := range Tokens() {
		k, ok := Lookup(token)
		require.True(t, ok, token)
		assert.Equal(t, token, k.String())
		assert.True(t, k.Valid())
	}
	assert.Len(t, All(), len(Tokens()))
}

func TestNoSingleCharacterTokens(t *testing.T) {
	// Single characters are always literal keys, so the table must never shadow one.
	for _, token := range Tokens() {
		assert.Greater(t, utf8.RuneCountInString(token), 1, token)
	}
}

func TestUnknownKey(t *testing.T) {
	var k Key
	assert.False(t, k.Valid())
	assert.Equal(t, "unknown", k.String())
}
