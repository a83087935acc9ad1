package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityRandom never swaps, so a shuffled pool keeps roster order.
type identityRandom struct{}

func (identityRandom) Intn(n int) int { return n - 1 }

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

var playerNames = []string{"Ahmad", "Badrul", "Chong", "Daniel", "Eusoff", "Farid", "Ghani", "Hafiz"}

func newTestSession(t *testing.T, players int, format bracket.TournamentFormat) *Session {
	t.Helper()
	s := New(nil, WithRandom(identityRandom{}), WithClock(func() time.Time { return fixedNow }))
	for i := 0; i < players; i++ {
		_, err := s.AddPlayer(PlayerInput{Name: playerNames[i], Association: "Kelab Dam Kuantan"})
		require.NoError(t, err)
	}
	if format != bracket.FormatNotSelected {
		require.NoError(t, s.SetFormat(format))
	}
	return s
}

func pairIDs(m bracket.Match) [2]string {
	return [2]string{m.PlayerA.ID, m.PlayerB.ID}
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
}

func TestAddPlayerIDs(t *testing.T) {
	s := newTestSession(t, 3, bracket.FormatNotSelected)
	ids := []string{}
	for _, p := range s.Players() {
		ids = append(ids, p.ID)
		assert.True(t, p.Active)
		assert.Zero(t, p.Wins+p.Losses+p.Draws+p.Points)
	}
	assert.Equal(t, []string{"001", "002", "003"}, ids)

	require.NoError(t, s.RemovePlayer("002"))
	p, err := s.AddPlayer(PlayerInput{Name: "Daniel", Association: "Kelab Dam Kuantan"})
	require.NoError(t, err)
	assert.Equal(t, "004", p.ID, "a gap below the highest id is not reused")

	assert.Equal(t, "001", nextPlayerID(nil))
	assert.Equal(t, "011", nextPlayerID([]bracket.Player{{ID: "abc"}, {ID: "010"}}))
}

func TestAddPlayerValidation(t *testing.T) {
	s := newTestSession(t, 1, bracket.FormatNotSelected)

	testCases := []struct {
		name        string
		input       PlayerInput
		expectedErr string
	}{
		{name: "Duplicate", input: PlayerInput{Name: " ahmad ", Association: "Kelab Dam"}, expectedErr: "Nama pemain sudah wujud dalam senarai"},
		{name: "Short association", input: PlayerInput{Name: "Badrul", Association: "KD"}, expectedErr: "Persatuan/Daerah mestilah sekurang-kurangnya 3 aksara"},
		{name: "Bad IC", input: PlayerInput{Name: "Badrul", Association: "Kelab Dam", ICNumber: "123"}, expectedErr: "Format No. K/P tidak sah (contoh: 850101-05-1234)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddPlayer(tc.input)
			assertKind(t, err, ErrValidation)
			assert.EqualError(t, err, tc.expectedErr)
			assert.Len(t, s.Players(), 1)
		})
	}

	p, err := s.AddPlayer(PlayerInput{Name: " Badrul ", Association: "Kelab Dam", ICNumber: "850101-05-1234", PhoneNumber: " "})
	require.NoError(t, err)
	assert.Equal(t, "Badrul", p.Name)
	require.NotNil(t, p.ICNumber)
	assert.Nil(t, p.PhoneNumber)
}

func TestUpdateAndRemovePlayer(t *testing.T) {
	s := newTestSession(t, 4, bracket.FormatLeague)

	updated, err := s.UpdatePlayer("001", PlayerInput{Name: "Ahmad Zaki", Association: "Kelab Dam Pekan"})
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Zaki", updated.Name)

	_, err = s.UpdatePlayer("999", PlayerInput{Name: "Nobody", Association: "Kelab"})
	assertKind(t, err, ErrNotFound)

	_, err = s.StartTournament()
	require.NoError(t, err)

	err = s.RemovePlayer("001")
	assertKind(t, err, ErrInvalidState)
	assert.EqualError(t, err, "Pemain hanya boleh dipadamkan semasa status OFFLINE")
	assertKind(t, s.RemovePlayer("999"), ErrNotFound)
}

func TestGenerateNextRoundPreconditions(t *testing.T) {
	testCases := []struct {
		name        string
		setup       func(t *testing.T) *Session
		expectedErr string
	}{
		{
			name:        "No format",
			setup:       func(t *testing.T) *Session { return newTestSession(t, 4, bracket.FormatNotSelected) },
			expectedErr: "Sila pilih format pertandingan terlebih dahulu",
		},
		{
			name:        "One player",
			setup:       func(t *testing.T) *Session { return newTestSession(t, 1, bracket.FormatKnockout) },
			expectedErr: "Sekurang-kurangnya 2 pemain diperlukan untuk memulakan pertandingan",
		},
		{
			name:        "Odd league",
			setup:       func(t *testing.T) *Session { return newTestSession(t, 5, bracket.FormatLeague) },
			expectedErr: "Liga memerlukan bilangan pemain genap untuk mengelakkan BYE. Sila tambah atau buang seorang pemain.",
		},
		{
			name: "Manual without pairings",
			setup: func(t *testing.T) *Session {
				s := newTestSession(t, 4, bracket.FormatLeague)
				require.NoError(t, s.SetMode(bracket.ModeManual))
				return s
			},
			expectedErr: "Tiada pasangan manual dijumpai. Sila tambah pasangan terlebih dahulu.",
		},
		{
			name: "Manual not confirmed",
			setup: func(t *testing.T) *Session {
				s := newTestSession(t, 4, bracket.FormatLeague)
				require.NoError(t, s.SetMode(bracket.ModeManual))
				_, err := s.AddManualPairing(1, 1, "001", "002")
				require.NoError(t, err)
				return s
			},
			expectedErr: "Pasangan manual belum disahkan. Sila sahkan pasangan terlebih dahulu.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.setup(t)
			before := s.State()

			_, err := s.GenerateNextRound()
			assertKind(t, err, ErrPrecondition)
			assert.EqualError(t, err, tc.expectedErr)
			assert.Equal(t, before, s.State(), "state must not change on failure")
		})
	}
}

func TestLeagueFourPlayerSchedule(t *testing.T) {
	s := newTestSession(t, 4, bracket.FormatLeague)

	expected := [][][2]string{
		{{"001", "004"}, {"002", "003"}},
		{{"001", "003"}, {"004", "002"}},
		{{"001", "002"}, {"003", "004"}},
	}
	for round, pairs := range expected {
		outcome, err := s.GenerateNextRound()
		require.NoError(t, err)
		assert.False(t, outcome.Completed)
		assert.Equal(t, round+1, outcome.Round)

		require.Len(t, outcome.Matches, 2)
		for i, m := range outcome.Matches {
			assert.Equal(t, pairs[i], pairIDs(m))
			assert.Equal(t, i+1, m.Table)
			assert.Equal(t, fmt.Sprintf("%d-%d", round+1, i+1), m.ID)
		}
	}

	outcome, err := s.GenerateNextRound()
	require.NoError(t, err)
	assert.True(t, outcome.Completed)
	assert.Equal(t, "Semua pusingan liga telah selesai.", outcome.Message)
	assert.Equal(t, bracket.StatusFinished, s.Status())
	assert.Len(t, s.Matches(), 6)
}

func TestLeagueEveryPairMeetsOnce(t *testing.T) {
	s := newTestSession(t, 8, bracket.FormatLeague)

	met := map[[2]string]int{}
	for round := 1; round <= 7; round++ {
		outcome, err := s.GenerateNextRound()
		require.NoError(t, err)
		require.False(t, outcome.Completed)

		seen := map[string]bool{}
		for _, m := range outcome.Matches {
			for _, id := range pairIDs(m) {
				assert.False(t, seen[id], "player %s paired twice in round %d", id, round)
				seen[id] = true
			}
			a, b := m.PlayerA.ID, m.PlayerB.ID
			if a > b {
				a, b = b, a
			}
			met[[2]string{a, b}]++
		}
		assert.Len(t, seen, 8)
	}

	assert.Len(t, met, 28)
	for pair, n := range met {
		assert.Equal(t, 1, n, "pair %v", pair)
	}

	outcome, err := s.GenerateNextRound()
	require.NoError(t, err)
	assert.True(t, outcome.Completed)
}

func TestLeagueResultsAndStandings(t *testing.T) {
	s := newTestSession(t, 4, bracket.FormatLeague)
	_, err := s.StartTournament()
	require.NoError(t, err)
	assert.Equal(t, bracket.StatusOnline, s.Status())

	// Round 1: 001 beats 004, 002 draws 003
	_, err = s.SetMatchWinner("1-1", "001")
	require.NoError(t, err)
	_, err = s.SetMatchDraw("1-2")
	require.NoError(t, err)

	_, err = s.GenerateNextRound()
	require.NoError(t, err)
	// Round 2: 003 beats 001, 004 beats 002
	_, err = s.SetMatchWinner("2-1", "003")
	require.NoError(t, err)
	_, err = s.SetMatchWinner("2-2", "004")
	require.NoError(t, err)

	players := s.Players()
	points := map[string]int{}
	for _, p := range players {
		points[p.ID] = p.Points
		assert.True(t, p.Active, "league never eliminates")
	}
	assert.Equal(t, map[string]int{"001": 3, "002": 1, "003": 4, "004": 3}, points)

	board := s.Leaderboard()
	ids := []string{}
	for _, p := range board {
		ids = append(ids, p.ID)
	}
	// 001 and 004 tie on points and difference, stable order keeps 001 first
	assert.Equal(t, []string{"003", "001", "004", "002"}, ids)
	assert.Equal(t, "001", s.Players()[0].ID, "leaderboard must not reorder the roster")
}

func TestLeagueTiebreakOnDifference(t *testing.T) {
	st := bracket.NewState()
	st.Format = bracket.FormatLeague
	st.Players = []bracket.Player{
		{ID: "001", Points: 6, Wins: 2, Losses: 2},
		{ID: "002", Points: 6, Wins: 2, Losses: 0},
		{ID: "003", Points: 7, Wins: 2, Losses: 3, Draws: 1},
		{ID: "004", Points: 6, Wins: 2, Losses: 2},
	}

	ids := []string{}
	for _, p := range Leaderboard(st) {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"003", "002", "001", "004"}, ids)
}

func TestRecordResultErrors(t *testing.T) {
	s := newTestSession(t, 4, bracket.FormatKnockout)
	_, err := s.StartTournament()
	require.NoError(t, err)

	_, err = s.SetMatchWinner("9-9", "001")
	assertKind(t, err, ErrNotFound)
	assert.EqualError(t, err, "Perlawanan tidak dijumpai")

	_, err = s.SetMatchWinner("1-1", "999")
	assertKind(t, err, ErrNotFound)
	assert.EqualError(t, err, "Pemain pemenang tidak dijumpai")

	_, err = s.SetMatchWinner("1-1", "003")
	assertKind(t, err, ErrValidation)

	_, err = s.SetMatchDraw("1-1")
	assertKind(t, err, ErrPrecondition)
	assert.EqualError(t, err, "Seri hanya dibenarkan dalam format Liga")

	_, err = s.SetMatchWinner("1-1", "001")
	require.NoError(t, err)
	before := s.State()

	_, err = s.SetMatchWinner("1-1", "002")
	assertKind(t, err, ErrInvalidState)
	assert.EqualError(t, err, "Perlawanan sudah selesai")
	_, err = s.SetMatchDraw("1-1")
	assertKind(t, err, ErrInvalidState)
	assert.Equal(t, before, s.State(), "finished matches are immutable")
}

func TestKnockoutRoundtableToFinal(t *testing.T) {
	s := newTestSession(t, 5, bracket.FormatKnockout)

	outcome, err := s.StartTournament()
	require.NoError(t, err)
	assert.True(t, s.IsRoundtable())
	require.Len(t, outcome.Matches, 10)
	for _, m := range outcome.Matches {
		assert.Empty(t, m.Stage)
		// Lower id always wins: 001 four wins down to 005 with none
		winner := m.PlayerA.ID
		if m.PlayerB.ID < winner {
			winner = m.PlayerB.ID
		}
		_, err := s.SetMatchWinner(m.ID, winner)
		require.NoError(t, err)
	}
	// Every knockout loss clears the active flag, roundtable included.
	assert.True(t, s.State().FindPlayer("001").Active)
	for _, id := range []string{"002", "003", "004", "005"} {
		assert.False(t, s.State().FindPlayer(id).Active, id)
	}
	assert.Equal(t, 4, s.Statistics().EliminatedPlayers)

	// The round is ranked from its matches, so only last place drops out.
	outcome, err = s.GenerateNextRound()
	require.NoError(t, err)
	assert.False(t, s.IsRoundtable())
	require.Len(t, outcome.Matches, 2)
	assert.Equal(t, [2]string{"001", "002"}, pairIDs(outcome.Matches[0]))
	assert.Equal(t, [2]string{"003", "004"}, pairIDs(outcome.Matches[1]))
	for _, m := range outcome.Matches {
		assert.Equal(t, bracket.StageSemifinal, m.Stage)
	}
	assert.Len(t, s.State().ActivePlayers(), 1)

	_, err = s.SetMatchWinner("2-1", "001")
	require.NoError(t, err)
	_, err = s.SetMatchWinner("2-2", "003")
	require.NoError(t, err)

	outcome, err = s.GenerateNextRound()
	require.NoError(t, err)
	require.Len(t, outcome.Matches, 2)
	third, final := outcome.Matches[0], outcome.Matches[1]
	assert.Equal(t, bracket.StageThirdPlace, third.Stage)
	assert.Equal(t, 1, third.Table)
	assert.Equal(t, [2]string{"002", "004"}, pairIDs(third))
	assert.Equal(t, bracket.StageFinal, final.Stage)
	assert.Equal(t, 2, final.Table)
	assert.Equal(t, [2]string{"001", "003"}, pairIDs(final))

	_, err = s.SetMatchWinner(final.ID, "001")
	require.NoError(t, err)
	assert.Equal(t, bracket.StatusOnline, s.Status(), "placement match still open")

	_, err = s.SetMatchWinner(third.ID, "002")
	require.NoError(t, err)
	assert.Equal(t, bracket.StatusFinished, s.Status())

	ids := []string{}
	for _, p := range s.Leaderboard() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"001", "003", "002", "004", "005"}, ids)

	_, err = s.GenerateNextRound()
	assertKind(t, err, ErrInvalidState)
}

func TestKnockoutTwoPlayersFinal(t *testing.T) {
	s := newTestSession(t, 2, bracket.FormatKnockout)

	outcome, err := s.StartTournament()
	require.NoError(t, err)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, bracket.StageFinal, outcome.Matches[0].Stage)
	assert.Equal(t, 2, outcome.Matches[0].Table, "the Final always sits at table 2")
	assert.Equal(t, "1-2", outcome.Matches[0].ID)

	_, err = s.SetMatchWinner(outcome.Matches[0].ID, "002")
	require.NoError(t, err)
	assert.Equal(t, bracket.StatusFinished, s.Status())
	assert.Equal(t, "002", s.Leaderboard()[0].ID)
	assert.False(t, s.State().FindPlayer("001").Active)
}

func TestKnockoutRoundtableStraightToFinal(t *testing.T) {
	s := newTestSession(t, 3, bracket.FormatKnockout)

	outcome, err := s.StartTournament()
	require.NoError(t, err)
	require.Len(t, outcome.Matches, 3)
	// 001 beats both, 002 beats 003
	for _, m := range outcome.Matches {
		winner := m.PlayerA.ID
		if m.PlayerB.ID < winner {
			winner = m.PlayerB.ID
		}
		_, err := s.SetMatchWinner(m.ID, winner)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, s.Statistics().ActivePlayers)

	outcome, err = s.GenerateNextRound()
	require.NoError(t, err)
	require.Len(t, outcome.Matches, 1)
	final := outcome.Matches[0]
	assert.Equal(t, bracket.StageFinal, final.Stage)
	assert.Equal(t, 2, final.Table, "no placement match, table 1 stays free")
	assert.Equal(t, [2]string{"001", "002"}, pairIDs(final))
	assert.Nil(t, s.State().FindMatchByStage(bracket.StageThirdPlace))

	_, err = s.SetMatchWinner(final.ID, "002")
	require.NoError(t, err)
	assert.Equal(t, bracket.StatusFinished, s.Status())

	ids := []string{}
	for _, p := range s.Leaderboard() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"002", "001", "003"}, ids)
}

func TestKnockoutRequiresFinishedRound(t *testing.T) {
	s := newTestSession(t, 4, bracket.FormatKnockout)
	_, err := s.StartTournament()
	require.NoError(t, err)
	_, err = s.SetMatchWinner("1-1", "001")
	require.NoError(t, err)

	before := s.State()
	_, err = s.GenerateNextRound()
	assertKind(t, err, ErrPrecondition)
	assert.Equal(t, before, s.State())

	// Unfinished knockout standings: wins desc then losses asc
	ids := []string{}
	for _, p := range s.Leaderboard() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"001", "003", "004", "002"}, ids)
}

func TestStageName(t *testing.T) {
	testCases := []struct {
		size     int
		expected string
	}{
		{2, bracket.StageFinal},
		{4, bracket.StageSemifinal},
		{6, bracket.StageQuarterfinal},
		{8, bracket.StageQuarterfinal},
		{16, ""},
		{0, ""},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.size), func(t *testing.T) {
			assert.Equal(t, tc.expected, StageName(tc.size))
		})
	}
}

func TestShuffleUsesRandomSource(t *testing.T) {
	players := []bracket.Player{{ID: "001"}, {ID: "002"}, {ID: "003"}, {ID: "004"}}
	// Always picking 0 rotates every element through the front.
	shuffle(players, zeroRandom{})
	ids := []string{}
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"002", "003", "004", "001"}, ids)
}

type zeroRandom struct{}

func (zeroRandom) Intn(int) int { return 0 }

func TestCircleOrder(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, circleOrder(4, 0))
	assert.Equal(t, []int{0, 3, 1, 2}, circleOrder(4, 1))
	assert.Equal(t, []int{0, 2, 3, 1}, circleOrder(4, 2))
	assert.Equal(t, []int{0, 1}, circleOrder(2, 5))
}
