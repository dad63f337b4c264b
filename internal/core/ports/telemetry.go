package ports

import (
	"context"
	"io"

	"go.trai.ch/ontoenv/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records progress of resolutions as a tree of vertices.
type Telemetry interface {
	// Record starts a vertex named name and attaches it to the returned context.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is one unit of recorded work, typically the retrieval of one ontology.
type Vertex interface {
	// Stdout returns a writer for output attached to the vertex.
	Stdout() io.Writer
	// Log records a message with the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished, failed when err is not nil.
	Complete(err error)
	// Cached marks the vertex as served from the index.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a context carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
