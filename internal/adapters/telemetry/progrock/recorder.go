// Package progrock records resolution progress on a progrock tape.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/ontoenv/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry. Every recorded vertex is streamed to a
// Progress writer that keeps the per-ontology outcome.
type Recorder struct {
	progress *Progress
	rec      *progrock.Recorder
}

// New creates a Recorder reporting vertex outcomes to logger.
func New(logger ports.Logger) *Recorder {
	return NewRecorder(NewProgress(logger))
}

// NewRecorder creates a Recorder on top of the given Progress writer.
func NewRecorder(progress *Progress) *Recorder {
	return &Recorder{
		progress: progress,
		rec:      progrock.NewRecorder(progress),
	}
}

// Record starts a vertex. Vertices are keyed by name, so recording the same
// ontology twice in one session updates a single vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Summary returns the outcome counts seen so far.
func (r *Recorder) Summary() Summary {
	return r.progress.Summary()
}

// Close flushes the recording session.
func (r *Recorder) Close() error {
	return r.progress.Close()
}
