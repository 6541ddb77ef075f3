package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/jhoicas/retail-pos-api/pkg/search"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Cañón  Azúl ": "canon azul",
		"PANTALÓN":       "pantalon",
		"camisa":         "camisa",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, search.Normalize(in), "entrada %q", in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "blusa bordada cj-01 bl-100", search.Key("Blusa Bordada", "CJ-01", "BL-100"))
}
