package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/AdamBeresnev/dam-aji/internal/engine"
	"github.com/a-h/templ"
)

type ReportData struct {
	State       *bracket.State
	Leaderboard []bracket.Player
	Statistics  engine.Statistics
	GeneratedAt time.Time
}

// Report renders the printable tournament report.
func Report(data ReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		st := data.State

		b.WriteString(`<!DOCTYPE html><html lang="ms"><head><meta charset="utf-8"><title>Laporan Pertandingan Dam Aji</title>`)
		b.WriteString(`<style>body{font-family:sans-serif;margin:2em}table{border-collapse:collapse;width:100%;margin-bottom:1.5em}th,td{border:1px solid #999;padding:4px 8px;text-align:left}@media print{.no-print{display:none}}</style>`)
		b.WriteString(`</head><body>`)

		fmt.Fprintf(&b, `<h1>%s</h1>`, esc(st.Display.EventDetails))
		fmt.Fprintf(&b, `<p>Format: %s &middot; Status: %s &middot; Pusingan semasa: %d</p>`,
			esc(string(st.Format)), esc(string(st.Status)), st.CurrentRound)
		if a := GetAdmin(ctx); a != nil {
			fmt.Fprintf(&b, `<p>Dijana oleh %s (%s) pada %s</p>`, esc(a.Username), esc(a.Role.Label()), data.GeneratedAt.Format("02/01/2006 15:04"))
		} else {
			fmt.Fprintf(&b, `<p>Dijana pada %s</p>`, data.GeneratedAt.Format("02/01/2006 15:04"))
		}

		writeStatistics(&b, data.Statistics)
		writeLeaderboard(&b, st.Format, data.Leaderboard)
		for _, round := range PrepareRounds(st.Matches) {
			writeRound(&b, round)
		}

		fmt.Fprintf(&b, `<footer>%s</footer>`, esc(st.Display.FooterText))
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func writeStatistics(b *strings.Builder, s engine.Statistics) {
	b.WriteString(`<h2>Statistik</h2><table>`)
	rows := []struct {
		label string
		value string
	}{
		{"Jumlah pemain", fmt.Sprint(s.TotalPlayers)},
		{"Pemain aktif", fmt.Sprint(s.ActivePlayers)},
		{"Pemain tersingkir", fmt.Sprint(s.EliminatedPlayers)},
		{"Jumlah perlawanan", fmt.Sprint(s.TotalMatches)},
		{"Perlawanan selesai", fmt.Sprint(s.CompletedMatches)},
		{"Perlawanan belum selesai", fmt.Sprint(s.PendingMatches)},
		{"Seri", fmt.Sprint(s.TotalDraws)},
		{"Peratus siap", fmt.Sprintf("%.1f%%", s.CompletionPercent)},
	}
	for _, row := range rows {
		fmt.Fprintf(b, `<tr><th>%s</th><td>%s</td></tr>`, row.label, row.value)
	}
	b.WriteString(`</table>`)
}

func writeLeaderboard(b *strings.Builder, format bracket.TournamentFormat, players []bracket.Player) {
	b.WriteString(`<h2>Kedudukan</h2><table><tr><th>#</th><th>ID</th><th>Nama</th><th>Persatuan/Daerah</th><th>M</th><th>S</th><th>K</th>`)
	if format == bracket.FormatLeague {
		b.WriteString(`<th>Mata</th>`)
	} else {
		b.WriteString(`<th>Status</th>`)
	}
	b.WriteString(`</tr>`)

	for i, p := range players {
		fmt.Fprintf(b, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td>`,
			i+1, esc(p.ID), esc(p.Name), esc(p.Association), p.Wins, p.Draws, p.Losses)
		switch {
		case format == bracket.FormatLeague:
			fmt.Fprintf(b, `<td>%d</td>`, p.Points)
		case p.Active:
			b.WriteString(`<td>Aktif</td>`)
		default:
			b.WriteString(`<td>Tersingkir</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table>`)
}

func writeRound(b *strings.Builder, round RoundData) {
	title := fmt.Sprintf("Pusingan %d", round.Number)
	if round.Stage != "" {
		title += " (" + round.Stage + ")"
	}
	fmt.Fprintf(b, `<h3>%s</h3><table><tr><th>Meja</th><th>Pemain A</th><th>Pemain B</th><th>Keputusan</th></tr>`, esc(title))
	for _, m := range round.Matches {
		table := fmt.Sprint(m.Table)
		if m.Stage == bracket.StageThirdPlace {
			table += " (" + m.Stage + ")"
		}
		fmt.Fprintf(b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			esc(table), esc(m.PlayerA.Name), esc(m.PlayerB.Name), esc(ResultLabel(m)))
	}
	b.WriteString(`</table>`)
}
