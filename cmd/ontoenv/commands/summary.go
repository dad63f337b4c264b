package commands

import (
	"fmt"
	"io"
	"strings"

	"go.trai.ch/ontoenv/internal/app"
)

// printSummary writes one line about the index changes of a refresh, followed by the
// imports that stayed unresolved.
func printSummary(w io.Writer, report *app.RefreshReport) {
	if report == nil || report.Scan == nil {
		return
	}
	scan := report.Scan
	_, _ = fmt.Fprintf(w, "%d files scanned: %d added, %d updated, %d removed\n",
		scan.Files, len(scan.Added), len(scan.Updated), len(scan.Removed))

	if rv := report.Revalidate; rv != nil {
		_, _ = fmt.Fprintf(w, "%d remote ontologies revalidated: %d updated, %d failed\n",
			len(rv.Unchanged)+len(rv.Updated)+len(rv.Failed), len(rv.Updated), len(rv.Failed))
	}

	if res := report.Resolution; res != nil && len(res.Unresolved) > 0 {
		names := make([]string, len(res.Unresolved))
		for i, u := range res.Unresolved {
			names[i] = u.String()
		}
		_, _ = fmt.Fprintf(w, "%d unresolved imports: %s\n", len(names), strings.Join(names, ", "))
	}
}
