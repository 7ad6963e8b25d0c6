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
		{"Catan: Seafarers Expansion", "catan-seafarers-expansion"},
		{"Friday Night Magic", "friday-night-magic"},
		{"  D&D 5e Starter Set  ", "d-d-5e-starter-set"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER", "upper"},
		{"---", ""},
		{"", ""},
		{"café crème", "caf-cr-me"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Make(c.in), "input %q", c.in)
	}
}
