// Package style provides shared UI styling primitives including brand colors
// and glyphs for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
)

// Tree glyphs used by the dependency tree renderer.
const (
	Branch     = "├── "
	LastBranch = "└── "
	Pipe       = "│   "
	Indent     = "    "
)
