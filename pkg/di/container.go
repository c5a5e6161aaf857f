// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/bdsm/pkg/archive"
	"github.com/ssargent/bdsm/pkg/metrics"
)

// Container holds all the dependencies for the application
type Container struct {
	metrics       *metrics.Metrics
	archiveOpener archive.Opener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		metrics:       metrics.New(),
		archiveOpener: archive.Open,
	}
}

// GetMetrics returns the metrics shared by the shell and the persister
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetArchiveOpener returns the function used to open snapshot archives
func (c *Container) GetArchiveOpener() archive.Opener {
	return c.archiveOpener
}

// SetMetrics allows overriding the metrics (for testing)
func (c *Container) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// SetArchiveOpener allows overriding the archive opener (for testing)
func (c *Container) SetArchiveOpener(opener archive.Opener) {
	c.archiveOpener = opener
}
