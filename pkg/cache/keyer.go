package cache

import (
	"strconv"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// ArtifactKeyOpts holds everything besides the dataset that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Chart   timeline.Config
	Format  string
	Scale   float64
	Title   string
	Details bool
	Legend  bool
}

// fields lists every option as a string, in a fixed order.
func (o ArtifactKeyOpts) fields() []string {
	c := o.Chart
	return []string{
		strconv.Itoa(c.LaneCount),
		formatFloat(c.LaneWidth),
		formatFloat(c.ChartHeight),
		formatFloat(c.AxisOffset),
		strconv.Itoa(c.TickCount),
		strconv.Itoa(int(c.Overflow)),
		strconv.Itoa(int(c.Selection)),
		o.Format,
		formatFloat(o.Scale),
		o.Title,
		strconv.FormatBool(o.Details),
		strconv.FormatBool(o.Legend),
	}
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered format of a dataset.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", append([]string{datasetHash}, opts.fields()...)...)
}

// ScopedKeyer prefixes every key of an inner Keyer.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to the keys of inner,
// or of the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
