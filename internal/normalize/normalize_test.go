package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	assert.Equal(t, "acme.com", Domain("  Acme.COM "))
	assert.Equal(t, "", Domain("   "))
}

func TestEmail_TrailingPeriod(t *testing.T) {
	assert.Equal(t, "hello@x.com", Email("  hello@x.com.  "))
}

func TestEmail_Quoted(t *testing.T) {
	assert.Equal(t, "hi@y.com", Email("'hi@y.com'"))
}

func TestEmail_RepeatedPunct(t *testing.T) {
	assert.Equal(t, "a@b.co", Email(`."a@b.co",.`))
}

func TestEmail_Empty(t *testing.T) {
	assert.Equal(t, "", Email(""))
	assert.Equal(t, "", Email(`.,;'"`))
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "press@acme.com", "press@acme.com"},
		{"inside sentence", "You can reach them at press@acme.com. Good luck!", "press@acme.com"},
		{"trailing period stripped", "press@acme.com.", "press@acme.com"},
		{"no address", "no contact listed on the site", ""},
		{"empty", "   ", ""},
		{"first of several", "a@x.com or b@y.com", "a@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEmail(tt.in))
		})
	}
}
