package web

import (
	"bytes"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jaminalder/timetravel-tic-tac-toe/internal/app"
	"github.com/jaminalder/timetravel-tic-tac-toe/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"add": func(a, b int) int { return a + b },
		"mul": func(a, b int) int { return a * b },
		"ago": func(t time.Time) string { return humanize.Time(t) },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.square{width:3em;height:3em;font-size:1.5em;font-weight:bold}
.board-row{display:flex}
.game{display:flex;gap:2em}
.current{font-weight:bold}
</style>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<p><a href="/">All games</a></p>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="board" sse-swap="board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

// renderTemplate executes t, or the named template of t's set when name is set.
func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const indexTemplate = `<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post"><button>New game</button></form>
{{if .}}
<h2>Games</h2>
<ul>
  {{range .}}
  <li><a href="/game/{{.ID}}">{{.Status}}</a>, move {{.Step}}, updated {{ago .Updated}}</li>
  {{end}}
</ul>
{{end}}`

// boardTemplate renders the contents of #board: grid, status and move list.
const boardTemplate = `<div class="game">
  <div class="game-board">
    {{if .Error}}
    <div class="alert">{{.Error}}</div>
    {{end}}
    {{range $r := iter 3}}
    <div class="board-row">
      {{range $c := iter 3}}
      {{$i := add (mul $r 3) $c}}
      <form class="cell" action="/game/{{$.ID}}/play" method="post" hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="innerHTML">
        <input type="hidden" name="cell" value="{{$i}}">
        <button class="square" type="submit">{{index $.Squares $i}}</button>
      </form>
      {{end}}
    </div>
    {{end}}
  </div>
  <div class="game-info">
    <div class="status">{{.Status}}</div>
    <ol start="0">
      {{range .Moves}}
      <li>
        <form action="/game/{{$.ID}}/jump" method="post" hx-post="/game/{{$.ID}}/jump" hx-target="#board" hx-swap="innerHTML">
          <input type="hidden" name="step" value="{{.Step}}">
          <button type="submit"{{if .Current}} class="current" aria-current="step"{{end}}>{{.Label}}</button>
        </form>
      </li>
      {{end}}
    </ol>
  </div>
</div>
`

// boardData is what the board template renders from.
type boardData struct {
	ID      string
	Squares [domain.Size]string
	Status  string
	Moves   []domain.Move
	Error   string
}

func newBoardData(gs app.GameState, errMsg string) boardData {
	d := boardData{
		ID:     gs.ID,
		Status: gs.Game.Status().String(),
		Moves:  gs.Game.Moves(),
		Error:  errMsg,
	}
	for i, c := range gs.Game.Current().Squares {
		d.Squares[i] = c.String()
	}
	return d
}

// gameSummary is one row of the index page.
type gameSummary struct {
	ID      string
	Status  string
	Step    int
	Updated time.Time
}

func summarize(games []app.GameState) []gameSummary {
	out := make([]gameSummary, len(games))
	for i, gs := range games {
		out[i] = gameSummary{
			ID:      gs.ID,
			Status:  gs.Game.Status().String(),
			Step:    gs.Game.StepNumber(),
			Updated: gs.Updated,
		}
	}
	return out
}
