package progrock

import (
	"fmt"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/ontoenv/internal/ui/style"
)

type vertexStatus int

const (
	statusRunning vertexStatus = iota
	statusCached
	statusCompleted
	statusFailed
)

type vertexState struct {
	name   string
	status vertexStatus
}

// Summary counts vertex outcomes.
type Summary struct {
	Total     int
	Completed int
	Cached    int
	Failed    int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d ontologies: %d retrieved, %d cached, %d failed",
		s.Total, s.Completed, s.Cached, s.Failed)
}

// Progress is a progrock.Writer that tracks the state of every vertex and logs
// each one at debug level once it settles.
type Progress struct {
	mu       sync.Mutex
	logger   ports.Logger
	vertices map[string]*vertexState
	order    []string
}

// NewProgress creates a Progress writer. A nil logger disables reporting.
func NewProgress(logger ports.Logger) *Progress {
	return &Progress{
		logger:   logger,
		vertices: make(map[string]*vertexState),
	}
}

// WriteStatus applies a status update from the recorder.
func (p *Progress) WriteStatus(update *progrock.StatusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range update.Vertexes {
		p.updateOrAddVertex(v)
	}
	return nil
}

func (p *Progress) updateOrAddVertex(v *progrock.Vertex) {
	state, ok := p.vertices[v.Id]
	if !ok {
		state = &vertexState{name: v.Name, status: statusRunning}
		p.vertices[v.Id] = state
		p.order = append(p.order, v.Id)
	}

	next := state.status
	switch {
	case v.Completed != nil && v.Error != nil:
		next = statusFailed
	case v.Cached:
		next = statusCached
	case v.Completed != nil:
		next = statusCompleted
	}
	if next == state.status {
		return
	}
	state.status = next

	if p.logger == nil {
		return
	}
	switch next {
	case statusCached:
		p.logger.Debug(style.Tilde + " " + state.name + " (cached)")
	case statusCompleted:
		p.logger.Debug(style.Check + " " + state.name)
	case statusFailed:
		p.logger.Debug(style.Cross + " " + state.name + ": " + *v.Error)
	}
}

// Summary returns the outcome counts seen so far.
func (p *Progress) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Summary{Total: len(p.order)}
	for _, id := range p.order {
		switch p.vertices[id].status {
		case statusCached:
			s.Cached++
		case statusCompleted:
			s.Completed++
		case statusFailed:
			s.Failed++
		}
	}
	return s
}

// Close logs the summary of the session.
func (p *Progress) Close() error {
	summary := p.Summary()
	if p.logger != nil && summary.Total > 0 {
		p.logger.Debug(summary.String())
	}
	return nil
}
