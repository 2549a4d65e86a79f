package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestDigest_Deterministic(t *testing.T) {
	build := func() uint64 {
		d := NewDigest()
		d.Add("modelDescription.xml", []byte("<xml/>"))
		d.Add("sources/model.c", []byte("int x;"))

		return d.Sum64()
	}

	require.Equal(t, build(), build())
}

func TestDigest_OrderSensitive(t *testing.T) {
	a := NewDigest()
	a.Add("a", []byte("1"))
	a.Add("b", []byte("2"))

	b := NewDigest()
	b.Add("b", []byte("2"))
	b.Add("a", []byte("1"))

	require.NotEqual(t, a.Sum64(), b.Sum64())
}

func TestDigest_BoundarySensitive(t *testing.T) {
	a := NewDigest()
	a.Add("x", []byte("ab"))
	a.Add("y", []byte("c"))

	b := NewDigest()
	b.Add("x", []byte("a"))
	b.Add("y", []byte("bc"))

	require.NotEqual(t, a.Sum64(), b.Sum64())
}
