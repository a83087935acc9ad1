package engine

import "github.com/AdamBeresnev/dam-aji/internal/bracket"

type Statistics struct {
	TotalPlayers      int     `json:"totalPlayers"`
	ActivePlayers     int     `json:"activePlayers"`
	EliminatedPlayers int     `json:"eliminatedPlayers"`
	TotalMatches      int     `json:"totalMatches"`
	CompletedMatches  int     `json:"completedMatches"`
	PendingMatches    int     `json:"pendingMatches"`
	TotalWins         int     `json:"totalWins"`
	TotalLosses       int     `json:"totalLosses"`
	TotalDraws        int     `json:"totalDraws"`
	CompletionPercent float64 `json:"completionPercent"`
	CurrentRound      int     `json:"currentRound"`
}

func (s *Session) Statistics() Statistics {
	return computeStatistics(s.state)
}

func computeStatistics(st *bracket.State) Statistics {
	stats := Statistics{
		TotalPlayers:  len(st.Players),
		ActivePlayers: len(st.ActivePlayers()),
		TotalMatches:  len(st.Matches),
		CurrentRound:  st.CurrentRound,
	}
	stats.EliminatedPlayers = stats.TotalPlayers - stats.ActivePlayers

	for _, p := range st.Players {
		stats.TotalWins += p.Wins
		stats.TotalLosses += p.Losses
		stats.TotalDraws += p.Draws
	}
	for _, m := range st.Matches {
		if m.IsFinished {
			stats.CompletedMatches++
		}
	}
	stats.PendingMatches = stats.TotalMatches - stats.CompletedMatches
	if stats.TotalMatches > 0 {
		stats.CompletionPercent = float64(stats.CompletedMatches) * 100 / float64(stats.TotalMatches)
	}
	return stats
}
