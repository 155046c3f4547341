package scalar

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceTrialOrder(t *testing.T) {
	cases := []struct {
		token string
		want  any
	}{
		{"0", int64(0)},
		{"-12", int64(-12)},
		{"2.5", 2.5},
		{"1e3", 1000.0},
		{"Steady", "Steady"},
		{"T=100", "T=100"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Coerce(tc.token), "token %q", tc.token)
	}
}

func TestCoercePathSeparators(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash rewrite only applies off Windows")
	}
	assert.Equal(t, "../data/network.dat", Coerce(`..\data\network.dat`))
	assert.Equal(t, "no backslash here", Coerce("no backslash here"))
}

func TestFormatInverse(t *testing.T) {
	for _, token := range []string{"0", "-12", "2.5", "1000", "Steady"} {
		v := Coerce(token)
		assert.Equal(t, v, Coerce(Format(v)), "token %q", token)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, int64(3), Normalize(3))
	assert.Equal(t, int64(3), Normalize(int32(3)))
	assert.Equal(t, 1.5, Normalize(float32(1.5)))
	assert.Equal(t, "x", Normalize("x"))
}
