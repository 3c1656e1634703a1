package tennisbracket

import (
	"bytes"
	"html/template"
	"reflect"

	"github.com/justinjudd/tennisbracket/models"
	"github.com/justinjudd/tennisbracket/tournament"
)

// Title is shown at the top of rendered brackets
const Title = "Tennis Duo Pro"

// GenerateBracketHTML renders every section of the bracket, winners first, as an HTML fragment
func GenerateBracketHTML(b models.Bracket) ([]byte, error) {
	sectionNames := tournament.GetBracketOrder()

	var out []byte
	out = append(out, []byte("<h1>"+template.HTMLEscapeString(Title)+"</h1>")...)

	sections := make([]Section, len(sectionNames))
	for i, name := range sectionNames {
		sections[i].Name = name
	}
	for _, m := range b {
		side := int(tournament.SideOf(m.ID))
		sections[side].Matches = append(sections[side].Matches, m)
	}
	if champion, ok := tournament.Champion(b); ok {
		sections[models.Side_FINALS].Champion = champion
	}

	for _, s := range sections {
		h, err := s.FancyHTML()
		if err != nil {
			return nil, err
		}
		out = append(out, h...)
	}

	return out, nil
}

const sectionHTML = `
<h4>{{.Name}}</h4>
<main class="bracket">
    <ul>
    {{ range $j, $match := .Matches -}}
        <li class="match-name {{$match.Status}}" data-match="{{$match.ID}}">{{$match.Name}}</li>
        {{ range $k, $team := $match.Teams -}}
        <li class="game{{if eq $k 0}} game-top{{end}}{{if last $k $match.Teams}} game-bottom{{end}}{{if $match.IsWinner $k}} winner{{end}}{{if $team.IsTBD}} tbd{{end}}">{{$team.DisplayName}} <span>{{$team.Score}}</span></li>
        {{- end }}
        {{if last $j $.Matches | not }}<li>&nbsp;</li>{{end}}
    {{ end -}}</ul>
{{if .Champion}}<ul><li class="game round-winner">{{.Champion}} <span></span></li></ul>{{end}}
</main>
`

// Section is one part of the bracket (winners, losers or finals) ready to be drawn
type Section struct {
	Name     string
	Matches  []models.Match
	Champion string
}

// FancyHTML renders the section as a list of match cards
func (s Section) FancyHTML() ([]byte, error) {
	funcMap := template.FuncMap{
		"last": func(x int, a interface{}) bool {
			return x == reflect.ValueOf(a).Len()-1
		},
	}
	tmpl, err := template.New("section").Funcs(funcMap).Parse(sectionHTML)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, s)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.bracket ul { list-style: none; padding: 0; }
.game { border: solid 1px #3f3f46; padding: 4px 8px; }
.game span { float: right; }
.winner { font-weight: bold; color: #7e22ce; }
.tbd { font-style: italic; color: #71717a; }
.match-name { font-size: 0.7em; color: #71717a; margin-top: 8px; }
.match-name.ongoing { color: #eab308; }
.match-name.completed { color: #a855f7; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

// GeneratePageHTML wraps GenerateBracketHTML in a complete page
func GeneratePageHTML(b models.Bracket) ([]byte, error) {
	body, err := GenerateBracketHTML(b)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("page").Parse(pageHTML)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]interface{}{"Title": Title, "Body": template.HTML(body)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
