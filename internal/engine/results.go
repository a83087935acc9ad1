package engine

import (
	"github.com/AdamBeresnev/dam-aji/internal/bracket"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// SetMatchWinner finishes a match. In knockout the loser is eliminated; a
// roundtable still ranks its players from the match list, not the flag.
func (s *Session) SetMatchWinner(matchID, winnerID string) (bracket.Match, error) {
	if err := s.checkUnlocked(); err != nil {
		return bracket.Match{}, err
	}

	st := s.state
	match := st.FindMatch(matchID)
	if match == nil {
		return bracket.Match{}, newError(ErrNotFound, "Perlawanan tidak dijumpai")
	}
	if match.IsFinished {
		return bracket.Match{}, newError(ErrInvalidState, "Perlawanan sudah selesai")
	}
	winner := st.FindPlayer(winnerID)
	if winner == nil {
		return bracket.Match{}, newError(ErrNotFound, "Pemain pemenang tidak dijumpai")
	}
	if !match.HasPlayer(winnerID) {
		return bracket.Match{}, newError(ErrValidation, "Pemenang mesti salah seorang pemain dalam perlawanan ini")
	}
	loserID := match.PlayerA.ID
	if loserID == winnerID {
		loserID = match.PlayerB.ID
	}
	loser := st.FindPlayer(loserID)
	if loser == nil {
		return bracket.Match{}, newError(ErrIntegrity, "Pemain dengan ID %s tidak dijumpai", loserID)
	}

	id := winnerID
	match.WinnerID = &id
	match.IsFinished = true

	winner.Wins++
	loser.Losses++
	switch st.Format {
	case bracket.FormatLeague:
		winner.Points += pointsWin
	case bracket.FormatKnockout:
		loser.Active = false
		s.logger.Debug().Str("player_id", loser.ID).Msg("player eliminated")
	}

	if st.Format == bracket.FormatKnockout && knockoutDecided(st) {
		st.Status = bracket.StatusFinished
		s.logger.Info().Str("match_id", matchID).Msg("knockout finished")
	}

	s.logger.Debug().Str("match_id", matchID).Str("winner_id", winnerID).Msg("match result recorded")
	return *match, nil
}

// knockoutDecided is true once the Final and any placement match are done.
func knockoutDecided(st *bracket.State) bool {
	final := st.FindMatchByStage(bracket.StageFinal)
	if final == nil || !final.IsFinished {
		return false
	}
	third := st.FindMatchByStage(bracket.StageThirdPlace)
	return third == nil || third.IsFinished
}

func (s *Session) SetMatchDraw(matchID string) (bracket.Match, error) {
	if err := s.checkUnlocked(); err != nil {
		return bracket.Match{}, err
	}

	st := s.state
	match := st.FindMatch(matchID)
	if match == nil {
		return bracket.Match{}, newError(ErrNotFound, "Perlawanan tidak dijumpai")
	}
	if match.IsFinished {
		return bracket.Match{}, newError(ErrInvalidState, "Perlawanan sudah selesai")
	}
	if st.Format != bracket.FormatLeague {
		return bracket.Match{}, newError(ErrPrecondition, "Seri hanya dibenarkan dalam format Liga")
	}
	a := st.FindPlayer(match.PlayerA.ID)
	b := st.FindPlayer(match.PlayerB.ID)
	if a == nil || b == nil {
		return bracket.Match{}, newError(ErrIntegrity, "Pemain dalam perlawanan %s tidak dijumpai", matchID)
	}

	match.IsDraw = true
	match.IsFinished = true
	for _, p := range []*bracket.Player{a, b} {
		p.Draws++
		p.Points += pointsDraw
	}

	s.logger.Debug().Str("match_id", matchID).Msg("match drawn")
	return *match, nil
}
