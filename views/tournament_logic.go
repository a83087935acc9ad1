package views

import (
	"sort"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
)

type RoundData struct {
	Number  int
	Stage   string
	Matches []bracket.Match
}

// PrepareRounds groups matches by round in ascending order. Inside a round
// the placement match comes first and the Final last, otherwise by table.
func PrepareRounds(matches []bracket.Match) []RoundData {
	byRound := make(map[int][]bracket.Match)
	var roundNums []int
	for _, m := range matches {
		if _, exists := byRound[m.Round]; !exists {
			roundNums = append(roundNums, m.Round)
		}
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	sort.Ints(roundNums)

	rounds := make([]RoundData, 0, len(roundNums))
	for _, n := range roundNums {
		ms := byRound[n]
		sort.SliceStable(ms, func(i, j int) bool {
			return matchRank(ms[i]) < matchRank(ms[j])
		})
		rounds = append(rounds, RoundData{Number: n, Stage: roundStage(ms), Matches: ms})
	}
	return rounds
}

func matchRank(m bracket.Match) int {
	switch m.Stage {
	case bracket.StageThirdPlace:
		return -1
	case bracket.StageFinal:
		return 1 << 20
	}
	return m.Table
}

// roundStage labels a round by its main stage. The placement match shares a
// round with the Final, so it never names the round.
func roundStage(matches []bracket.Match) string {
	for _, m := range matches {
		if m.Stage != "" && m.Stage != bracket.StageThirdPlace {
			return m.Stage
		}
	}
	return ""
}

// ResultLabel describes a match outcome for display.
func ResultLabel(m bracket.Match) string {
	switch {
	case !m.IsFinished:
		return "Belum selesai"
	case m.IsDraw:
		return "Seri"
	case m.IsWinner(m.PlayerA.ID):
		return "Menang: " + m.PlayerA.Name
	case m.IsWinner(m.PlayerB.ID):
		return "Menang: " + m.PlayerB.Name
	}
	return "Selesai"
}
