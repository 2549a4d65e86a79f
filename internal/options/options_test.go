package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fitConfig struct {
	maxIter int
	name    string
}

func withMaxIter(n int) Option[*fitConfig] {
	return New(func(c *fitConfig) error {
		if n <= 0 {
			return errors.New("max iterations must be positive")
		}
		c.maxIter = n

		return nil
	})
}

func withName(name string) Option[*fitConfig] {
	return NoError(func(c *fitConfig) {
		c.name = name
	})
}

func TestApply(t *testing.T) {
	cfg := &fitConfig{}
	err := Apply(cfg, withMaxIter(50), withName("demo"))
	require.NoError(t, err)
	require.Equal(t, 50, cfg.maxIter)
	require.Equal(t, "demo", cfg.name)
}

func TestApply_StopsOnError(t *testing.T) {
	cfg := &fitConfig{}
	err := Apply(cfg, withMaxIter(-1), withName("never"))
	require.EqualError(t, err, "max iterations must be positive")
	require.Empty(t, cfg.name)
}

func TestApply_SkipsNil(t *testing.T) {
	cfg := &fitConfig{}
	require.NoError(t, Apply(cfg, nil, withName("x")))
	require.Equal(t, "x", cfg.name)
}

func TestApply_OrderMatters(t *testing.T) {
	cfg := &fitConfig{}
	require.NoError(t, Apply(cfg, withName("first"), withName("second")))
	require.Equal(t, "second", cfg.name)
}
