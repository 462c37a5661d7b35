package reporting

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

// WriteHTML writes res to <outDir>/<runID>.html.
func WriteHTML(runID, outDir string, res *Result) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := RenderHTML(f, res); err != nil {
		return "", err
	}
	return path, f.Close()
}

// RenderHTML writes a standalone HTML page for res.
func RenderHTML(w io.Writer, res *Result) error {
	ew := &errWriter{w: w}

	// Head + styles
	ew.printf("<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(res.ID))
	ew.print("<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}</style>")
	ew.print("</head><body>")

	// Title + summary
	ew.printf("<h1>sniffy %s report – <span class='mono'>%s</span></h1>", html.EscapeString(res.Variant), html.EscapeString(res.ID))
	ew.printf("<p>Rules: %d &nbsp; Enabled: %d &nbsp; Not enabled: %d</p>", res.Summary.Rules, res.Summary.Matched, res.Summary.Unmatched)
	ew.printf("<p class='dim'>Root: <span class='mono'>%s</span> &nbsp; Config: <span class='mono'>%s</span></p>",
		html.EscapeString(res.Root), html.EscapeString(res.Config))

	// Drift
	if res.Drift.Baseline {
		ew.printf("<h2>Drift</h2><p>%d rules removed, %d new rules.</p>", res.Summary.Removed, res.Summary.Added)
		idTable(ew, "Removed", res.Drift.Removed)
		idTable(ew, "New", res.Drift.Added)
	} else {
		ew.print("<h2>Drift</h2><p class='dim'>No previous snapshot; this run is the baseline.</p>")
	}

	// References
	ew.print("<h2>References</h2>")
	if res.Match.Skipped {
		ew.print("<p class='dim'>No configuration found; matching skipped.</p>")
	} else {
		ew.print("<table><tr><th>Reference</th><th>Matched rules</th></tr>")
		for _, m := range res.Match.Matches {
			cell := "<span class='dim'>none</span>"
			if len(m.RuleIDs) > 0 {
				cell = ""
				for i, id := range m.RuleIDs {
					if i > 0 {
						cell += "<br>"
					}
					cell += html.EscapeString(string(id))
				}
			}
			ew.printf("<tr><td class='mono'>%s</td><td class='mono'>%s</td></tr>", html.EscapeString(m.Reference), cell)
		}
		ew.print("</table>")
	}

	idTable(ew, "Not enabled", res.Match.Unmatched)

	ew.print("</body></html>")
	return ew.err
}

func idTable(ew *errWriter, title string, ids []ir.RuleID) {
	if len(ids) == 0 {
		return
	}
	ew.printf("<h2>%s</h2><table><tr><th>Rule</th></tr>", html.EscapeString(title))
	for _, id := range ids {
		ew.printf("<tr><td class='mono'>%s</td></tr>", html.EscapeString(string(id)))
	}
	ew.print("</table>")
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) print(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
