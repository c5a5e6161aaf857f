package di

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bdsm/pkg/archive"
	"github.com/ssargent/bdsm/pkg/metrics"
)

func TestContainerDefaults(t *testing.T) {
	c := NewContainer()

	require.NotNil(t, c.GetMetrics())
	require.NotNil(t, c.GetArchiveOpener())

	a, err := c.GetArchiveOpener()(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}

func TestContainerOverrides(t *testing.T) {
	c := NewContainer()

	m := metrics.New()
	c.SetMetrics(m)
	assert.Same(t, m, c.GetMetrics())

	errBoom := errors.New("boom")
	c.SetArchiveOpener(func(string) (*archive.Archive, error) { return nil, errBoom })
	_, err := c.GetArchiveOpener()("unused")
	assert.ErrorIs(t, err, errBoom)
}
