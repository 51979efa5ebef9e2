package render

import (
	"html/template"
	"io"
	"time"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Task Manager</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #f8f9fa; color: #212529; }
body.dark { background: #1e1e1e; color: #e9ecef; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(14rem, 1fr)); gap: 1rem; }
.card { border: 1px solid #dee2e6; border-radius: .5rem; padding: 1rem; background: #fff; }
body.dark .card { background: #2b2b2b; border-color: #444; }
.card.completed .title { text-decoration: line-through; opacity: .7; }
.badge { display: inline-block; padding: .1rem .5rem; border-radius: .4rem; font-size: .8rem; background: #6c757d; color: #fff; }
.badge.completed { background: #198754; }
.badge.pending { background: #ffc107; color: #212529; }
.overdue { color: #dc3545; }
</style>
</head>
<body{{if .Dark}} class="dark"{{end}}>
<h1>Task Manager</h1>
<p class="stats">
<span class="badge">{{.Board.Stats.Total}} total</span>
<span class="badge completed">{{.Board.Stats.Completed}} completed</span>
<span class="badge pending">{{.Board.Stats.Pending}} pending</span>
</p>
{{if .Board.Empty}}
<div class="empty-state">
<h5>{{.EmptyTitle}}</h5>
<p>{{.EmptyHint}}</p>
</div>
{{else}}
<div class="grid">
{{range .Board.Cards}}
<div class="card{{if .Completed}} completed{{end}}" data-id="{{.ID}}">
<h6 class="title">{{.Title}}</h6>
<div class="due{{if .Overdue}} overdue{{end}}">Due: {{.DueLabel}}{{if .DueHint}} ({{.DueHint}}){{end}}</div>
<span class="badge">{{.Category}}</span>
<span class="badge {{if .Completed}}completed{{else}}pending{{end}}">{{.StatusLabel}}</span>
</div>
{{end}}
</div>
{{end}}
<footer>Exported {{.Generated}}</footer>
</body>
</html>
`))

// WriteHTML writes a static snapshot of the board. Task text is escaped by
// html/template.
func WriteHTML(w io.Writer, b Board, dark bool, now time.Time) error {
	return pageTmpl.Execute(w, struct {
		Board      Board
		Dark       bool
		EmptyTitle string
		EmptyHint  string
		Generated  string
	}{
		Board:      b,
		Dark:       dark,
		EmptyTitle: EmptyTitle,
		EmptyHint:  EmptyHint,
		Generated:  now.Format(time.RFC1123),
	})
}
