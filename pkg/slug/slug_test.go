package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromName(t *testing.T) {
	cases := map[string]string{
		"Summer Tees":       "summer-tees",
		"  Men's / Shirts ": "men-s-shirts",
		"ÄÖÜ":               "category",
		"Kids_2024":         "kids-2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, FromName(in, "category"), in)
	}
}
