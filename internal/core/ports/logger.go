package ports

// Logger receives the progress notes and warnings of scans, resolutions and fetches.
// Error is reserved for failures that end a command.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
