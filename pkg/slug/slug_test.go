package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Go & Gin: a primer!", "go-gin-a-primer"},
		{"  spaced   out  ", "spaced-out"},
		{"Already-Slugged", "already-slugged"},
		{"---", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.in), tc.in)
	}
}
