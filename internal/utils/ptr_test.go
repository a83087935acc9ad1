package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringOrNil(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  *string
	}{
		{name: "Empty", input: "", want: nil},
		{name: "Whitespace", input: "  \t", want: nil},
		{name: "Trimmed", input: " 012-3456789 ", want: Ptr("012-3456789")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StringOrNil(tc.input))
		})
	}
}

func TestClone(t *testing.T) {
	assert.Nil(t, Clone[string](nil))

	orig := Ptr("850101-05-1234")
	c := Clone(orig)
	*c = "changed"
	assert.Equal(t, "850101-05-1234", *orig)
}

func TestOrZeroAndClamp(t *testing.T) {
	assert.Equal(t, "", OrZero[string](nil))
	assert.Equal(t, 3, OrZero(Ptr(3)))

	assert.Equal(t, 0.0, Clamp(-0.5, 0, 1))
	assert.Equal(t, 1.0, Clamp(1.7, 0, 1))
	assert.Equal(t, 0.4, Clamp(0.4, 0, 1))
}
