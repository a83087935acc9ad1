package engine

import (
	"sort"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
)

// unplacedBase ranks everyone outside the top four behind them: more wins
// and fewer losses sort first.
const unplacedBase = 100

// Leaderboard returns every player ordered for the current format. It never
// mutates the session.
func (s *Session) Leaderboard() []bracket.Player {
	return Leaderboard(s.state)
}

func Leaderboard(st *bracket.State) []bracket.Player {
	players := st.Clone().Players

	if st.Format == bracket.FormatLeague {
		sort.SliceStable(players, func(i, j int) bool {
			a, b := players[i], players[j]
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if da, db := a.Wins-a.Losses, b.Wins-b.Losses; da != db {
				return da > db
			}
			return a.Wins > b.Wins
		})
		return players
	}

	if st.Status != bracket.StatusFinished {
		sort.SliceStable(players, func(i, j int) bool {
			a, b := players[i], players[j]
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			return a.Losses < b.Losses
		})
		return players
	}

	rank := placementRanks(st)
	sort.SliceStable(players, func(i, j int) bool {
		return rank(players[i]) < rank(players[j])
	})
	return players
}

// placementRanks pins the Final and the 3rd/4th match to places one to four.
func placementRanks(st *bracket.State) func(bracket.Player) int {
	places := map[string]int{}
	if final := st.FindMatchByStage(bracket.StageFinal); final != nil && final.WinnerID != nil {
		places[*final.WinnerID] = 1
		places[final.LoserID()] = 2
	}
	if third := st.FindMatchByStage(bracket.StageThirdPlace); third != nil && third.WinnerID != nil {
		places[*third.WinnerID] = 3
		places[third.LoserID()] = 4
	}
	delete(places, "")

	return func(p bracket.Player) int {
		if place, ok := places[p.ID]; ok {
			return place
		}
		return unplacedBase - p.Wins + p.Losses
	}
}
