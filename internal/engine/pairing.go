package engine

import (
	"sort"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
)

// RoundOutcome reports what GenerateNextRound did. When Completed is set no
// round was created and the tournament is now FINISHED.
type RoundOutcome struct {
	Round     int             `json:"round"`
	Matches   []bracket.Match `json:"matches"`
	Completed bool            `json:"completed"`
	Champion  *bracket.Player `json:"champion,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// GenerateNextRound appends the next round of matches for the configured
// format and mode. On error the state is unchanged.
func (s *Session) GenerateNextRound() (*RoundOutcome, error) {
	if err := s.checkUnlocked(); err != nil {
		return nil, err
	}

	st := s.state
	if st.Format == bracket.FormatNotSelected {
		return nil, newError(ErrPrecondition, "Sila pilih format pertandingan terlebih dahulu")
	}
	if len(st.Players) < 2 {
		return nil, newError(ErrPrecondition, "Sekurang-kurangnya 2 pemain diperlukan untuk memulakan pertandingan")
	}
	if st.Format == bracket.FormatLeague && len(st.ActivePlayers())%2 != 0 {
		return nil, newError(ErrPrecondition, "Liga memerlukan bilangan pemain genap untuk mengelakkan BYE. Sila tambah atau buang seorang pemain.")
	}
	if st.Mode == bracket.ModeManual {
		if len(st.ManualPairings) == 0 {
			return nil, newError(ErrPrecondition, "Tiada pasangan manual dijumpai. Sila tambah pasangan terlebih dahulu.")
		}
		if st.PairingStatus != bracket.PairingConfirmed {
			return nil, newError(ErrPrecondition, "Pasangan manual belum disahkan. Sila sahkan pasangan terlebih dahulu.")
		}
	}
	if st.Status == bracket.StatusFinished {
		return nil, newError(ErrInvalidState, "Pertandingan telah tamat")
	}

	next := st.Clone()
	var (
		outcome *RoundOutcome
		err     error
	)
	switch {
	case st.Mode == bracket.ModeManual:
		outcome, err = s.manualRound(next)
	case st.Format == bracket.FormatLeague:
		outcome, err = leagueRound(next)
	case st.Format == bracket.FormatKnockout:
		outcome, err = s.knockoutRound(next)
	default:
		err = newError(ErrPrecondition, "Format %s belum disokong", st.Format)
	}
	if err != nil {
		return nil, err
	}

	s.state = next
	s.logger.Info().
		Int("round", outcome.Round).
		Int("matches", len(outcome.Matches)).
		Bool("completed", outcome.Completed).
		Str("format", string(next.Format)).
		Msg("round generated")
	return outcome, nil
}

func appendRound(st *bracket.State, round int, matches []bracket.Match) *RoundOutcome {
	st.Matches = append(st.Matches, matches...)
	st.CurrentRound = round
	return &RoundOutcome{Round: round, Matches: matches}
}

func finish(st *bracket.State, message string, champion *bracket.Player) *RoundOutcome {
	st.Status = bracket.StatusFinished
	return &RoundOutcome{Round: st.CurrentRound, Completed: true, Champion: champion, Message: message}
}

// leagueRound uses the circle method: index 0 stays fixed and the rest
// rotate one step per round, so n players meet each other once in n-1
// rounds.
func leagueRound(st *bracket.State) (*RoundOutcome, error) {
	active := st.ActivePlayers()
	n := len(active)
	nextRound := st.CurrentRound + 1

	if nextRound > n-1 {
		return finish(st, "Semua pusingan liga telah selesai.", nil), nil
	}

	order := circleOrder(n, nextRound-1)
	matches := make([]bracket.Match, 0, n/2)
	for i := 0; i < n/2; i++ {
		a := active[order[i]]
		b := active[order[n-1-i]]
		matches = append(matches, bracket.NewMatch(nextRound, i+1, "", a, b))
	}
	return appendRound(st, nextRound, matches), nil
}

func circleOrder(n, rotations int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if n < 3 {
		return order
	}
	for r := 0; r < rotations; r++ {
		last := order[n-1]
		copy(order[2:], order[1:n-1])
		order[1] = last
	}
	return order
}

func (s *Session) knockoutRound(st *bracket.State) (*RoundOutcome, error) {
	nextRound := st.CurrentRound + 1

	pool, err := knockoutPool(st)
	if err != nil {
		return nil, err
	}

	if len(pool) <= 1 {
		if len(pool) == 1 {
			champion := pool[0]
			return finish(st, "Pertandingan tamat. Juara: "+champion.Name, &champion), nil
		}
		if final := st.FindMatchByStage(bracket.StageFinal); final != nil && final.IsFinished {
			return finish(st, "Pertandingan tamat.", nil), nil
		}
		return nil, newError(ErrPrecondition, "Tidak cukup pemain aktif untuk menjana pusingan seterusnya.")
	}

	if len(pool)%2 != 0 {
		st.IsRoundtable = true
		s.logger.Debug().Int("round", nextRound).Int("players", len(pool)).Msg("roundtable round")
		return appendRound(st, nextRound, roundtableMatches(nextRound, pool)), nil
	}

	st.IsRoundtable = false
	shuffle(pool, s.rng)

	stage := StageName(len(pool))
	table := 1
	var matches []bracket.Match

	// Table 1 is kept for the placement match even when there is none.
	if stage == bracket.StageFinal {
		if a, b, ok := semifinalLosers(st); ok {
			matches = append(matches, bracket.NewMatch(nextRound, table, bracket.StageThirdPlace, a, b))
		}
		table = 2
	}
	for i := 0; i+1 < len(pool); i += 2 {
		matches = append(matches, bracket.NewMatch(nextRound, table, stage, pool[i], pool[i+1]))
		table++
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matchOrder(matches[i]) < matchOrder(matches[j])
	})
	return appendRound(st, nextRound, matches), nil
}

// matchOrder keeps the placement match first and the Final last.
func matchOrder(m bracket.Match) int {
	switch m.Stage {
	case bracket.StageThirdPlace:
		return -1 << 30
	case bracket.StageFinal:
		return 1 << 30
	}
	return m.Table
}

// knockoutPool resolves who plays the next knockout round, using the live
// player records so new matches carry current counters.
func knockoutPool(st *bracket.State) ([]bracket.Player, error) {
	if st.CurrentRound == 0 {
		return st.ActivePlayers(), nil
	}

	current := st.MatchesInRound(st.CurrentRound)
	for _, m := range current {
		if !m.IsFinished {
			return nil, newError(ErrPrecondition, "Semua perlawanan pusingan %d mesti selesai dahulu", st.CurrentRound)
		}
	}

	var ids []string
	if st.IsRoundtable {
		ids = roundtableSurvivors(current)
		st.IsRoundtable = false
	} else {
		for _, m := range current {
			if m.Stage == bracket.StageThirdPlace || m.WinnerID == nil {
				continue
			}
			ids = append(ids, *m.WinnerID)
		}
	}

	pool := make([]bracket.Player, 0, len(ids))
	for _, id := range ids {
		p := st.FindPlayer(id)
		if p == nil {
			return nil, newError(ErrIntegrity, "Pemain dengan ID %s tidak dijumpai", id)
		}
		pool = append(pool, *p)
	}
	return pool, nil
}

// roundtableParticipants lists players in order of first appearance.
func roundtableParticipants(matches []bracket.Match) []string {
	seen := map[string]bool{}
	var ids []string
	for _, m := range matches {
		for _, id := range []string{m.PlayerA.ID, m.PlayerB.ID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// roundtableSurvivors ranks by wins inside the round and drops the last one.
// Ties keep first-appearance order.
func roundtableSurvivors(matches []bracket.Match) []string {
	ids := roundtableParticipants(matches)
	wins := map[string]int{}
	for _, m := range matches {
		if m.WinnerID != nil {
			wins[*m.WinnerID]++
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return wins[ids[i]] > wins[ids[j]]
	})
	if len(ids) == 0 {
		return ids
	}
	return ids[:len(ids)-1]
}

func roundtableMatches(round int, pool []bracket.Player) []bracket.Match {
	var matches []bracket.Match
	table := 1
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			matches = append(matches, bracket.NewMatch(round, table, "", pool[i], pool[j]))
			table++
		}
	}
	return matches
}

// semifinalLosers returns the two losers of the latest semifinal round.
func semifinalLosers(st *bracket.State) (bracket.Player, bracket.Player, bool) {
	lastRound := 0
	for _, m := range st.Matches {
		if m.Stage == bracket.StageSemifinal && m.Round > lastRound {
			lastRound = m.Round
		}
	}
	if lastRound == 0 {
		return bracket.Player{}, bracket.Player{}, false
	}

	var losers []bracket.Player
	for _, m := range st.MatchesInRound(lastRound) {
		if m.Stage != bracket.StageSemifinal {
			continue
		}
		id := m.LoserID()
		if id == "" {
			continue
		}
		if p := st.FindPlayer(id); p != nil {
			losers = append(losers, *p)
		}
	}
	if len(losers) != 2 {
		return bracket.Player{}, bracket.Player{}, false
	}
	return losers[0], losers[1], true
}

// shuffle is Fisher-Yates driven by the session's random source.
func shuffle(players []bracket.Player, rng RandomSource) {
	for i := len(players) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		players[i], players[j] = players[j], players[i]
	}
}

// StageName labels a knockout round by the number of players entering it.
func StageName(poolSize int) string {
	switch {
	case poolSize == 2:
		return bracket.StageFinal
	case poolSize == 4:
		return bracket.StageSemifinal
	case poolSize <= 8 && poolSize > 0:
		return bracket.StageQuarterfinal
	}
	return ""
}

// manualRound turns the confirmed workbench batch into matches and clears it.
func (s *Session) manualRound(st *bracket.State) (*RoundOutcome, error) {
	nextRound := st.CurrentRound + 1

	pairings := append([]bracket.ManualPairing{}, st.ManualPairings...)
	sort.SliceStable(pairings, func(i, j int) bool { return pairings[i].Table < pairings[j].Table })

	matches := make([]bracket.Match, 0, len(pairings))
	for _, mp := range pairings {
		a := st.FindPlayer(mp.PlayerAID)
		if a == nil {
			return nil, newError(ErrIntegrity, "Pemain dengan ID %s tidak dijumpai", mp.PlayerAID)
		}
		b := st.FindPlayer(mp.PlayerBID)
		if b == nil {
			return nil, newError(ErrIntegrity, "Pemain dengan ID %s tidak dijumpai", mp.PlayerBID)
		}
		m := bracket.NewMatch(nextRound, mp.Table, "", *a, *b)
		m.IsManualPairing = true
		matches = append(matches, m)
	}

	st.ManualPairings = []bracket.ManualPairing{}
	st.PairingStatus = bracket.PairingDraft
	st.IsRoundtable = false
	return appendRound(st, nextRound, matches), nil
}
