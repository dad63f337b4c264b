package ports

import (
	"context"

	"go.trai.ch/ontoenv/internal/core/domain"
)

// Fetcher retrieves remote ontology documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch dereferences req.URI. Failures are reported as *domain.FetchError once
	// retries are exhausted. Concurrent calls for the same URI share one request.
	Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchedDocument, error)
}
