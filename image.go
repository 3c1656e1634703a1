package tennisbracket

import (
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/justinjudd/tennisbracket/models"
	"github.com/justinjudd/tennisbracket/tournament"
)

// Position is the top left corner of a match card on the canvas
type Position struct {
	X, Y float64
}

const (
	cardWidth   = 192
	cardHeight  = 90
	headerSize  = 24
	canvasWidth = 1550
	canvasHigh  = 850
)

// MatchPositions places every match card on the canvas
var MatchPositions = map[string]Position{
	"w1": {50, 50},
	"w2": {50, 180},
	"w3": {50, 350},
	"w4": {50, 480},
	"w5": {300, 115},
	"w6": {300, 415},
	"l1": {300, 600},
	"l2": {300, 730},
	"w7": {550, 265},
	"l3": {550, 550},
	"l4": {550, 680},
	"l5": {800, 615},
	"l6": {1050, 450},
	"gf": {1300, 350},
}

type palette struct {
	background, card, header, border, ongoing, active, connector, text, muted, winner string
}

var darkPalette = palette{
	background: "#09090b",
	card:       "#18181b",
	header:     "#09090b",
	border:     "#27272a",
	ongoing:    "#eab308",
	active:     "#a855f7",
	connector:  "#3f3f46",
	text:       "#ffffff",
	muted:      "#71717a",
	winner:     "#d8b4fe",
}

func (p palette) cardBorder(s models.Status) string {
	switch s {
	case models.Status_COMPLETED:
		return p.active
	case models.Status_ONGOING:
		return p.ongoing
	}
	return p.border
}

// RenderPNG draws the bracket as a PNG image, one card per match joined by winner connectors
func RenderPNG(w io.Writer, b models.Bracket) error {
	p := darkPalette
	dc := gg.NewContext(canvasWidth, canvasHigh)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(p.background)
	dc.Clear()

	dc.SetHexColor(p.muted)
	dc.DrawString(tournament.SideName(models.Side_WINNERS), 50, 30)
	dc.DrawString(tournament.SideName(models.Side_LOSERS), 50, 585)
	dc.DrawString(tournament.SideName(models.Side_FINALS), 1300, 330)

	dc.SetHexColor(p.connector)
	dc.SetLineWidth(2)
	for _, m := range b {
		next := models.Deref(m.NextWin)
		start, ok := MatchPositions[m.ID]
		end, ok2 := MatchPositions[next]
		if next == "" || !ok || !ok2 {
			continue
		}
		x1, y1 := start.X+cardWidth, start.Y+cardHeight/2
		x2, y2 := end.X, end.Y+cardHeight/2
		mid := x1 + (x2-x1)/2
		dc.MoveTo(x1, y1)
		dc.CubicTo(mid, y1, mid, y2, x2, y2)
		dc.Stroke()
	}

	for _, m := range b {
		pos, ok := MatchPositions[m.ID]
		if !ok {
			continue
		}
		drawCard(dc, p, pos, m)
	}

	if champion, ok := tournament.Champion(b); ok {
		dc.SetHexColor(p.winner)
		dc.DrawString("Champion: "+champion, 1300, 470)
	}

	return dc.EncodePNG(w)
}

func drawCard(dc *gg.Context, p palette, pos Position, m models.Match) {
	dc.DrawRoundedRectangle(pos.X, pos.Y, cardWidth, cardHeight, 6)
	dc.SetHexColor(p.card)
	dc.FillPreserve()
	dc.SetHexColor(p.cardBorder(m.Status()))
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.SetHexColor(p.header)
	dc.DrawRectangle(pos.X+1, pos.Y+1, cardWidth-2, headerSize-2)
	dc.Fill()
	dc.SetHexColor(p.muted)
	dc.DrawStringAnchored(m.Name, pos.X+8, pos.Y+headerSize/2, 0, 0.5)

	rowHeight := float64(cardHeight-headerSize) / 2
	for slot, team := range m.Teams {
		y := pos.Y + headerSize + rowHeight*float64(slot) + rowHeight/2
		switch {
		case team.IsTBD():
			dc.SetHexColor(p.muted)
		case m.IsWinner(slot):
			dc.SetHexColor(p.winner)
		default:
			dc.SetHexColor(p.text)
		}
		dc.DrawStringAnchored(team.DisplayName(), pos.X+8, y, 0, 0.5)
		dc.DrawStringAnchored(team.Score, pos.X+cardWidth-8, y, 1, 0.5)
	}
}
