package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/dam-aji/internal/utils"
)

const (
	StageFinal        = "Final"
	StageSemifinal    = "Separuh Akhir"
	StageQuarterfinal = "Suku Akhir"
	StageThirdPlace   = "Penentuan Tempat Ke-3/4"
)

// Match keeps copies of both players as they were when the round was paired.
// Names shown for old rounds do not change when a player record is edited.
type Match struct {
	ID              string  `json:"id"`
	Round           int     `json:"round"`
	Table           int     `json:"table"`
	Stage           string  `json:"stage,omitempty"`
	PlayerA         Player  `json:"playerA"`
	PlayerB         Player  `json:"playerB"`
	WinnerID        *string `json:"winnerId"`
	IsDraw          bool    `json:"isDraw"`
	IsFinished      bool    `json:"isFinished"`
	IsManualPairing bool    `json:"isManualPairing,omitempty"`
}

func MatchID(round, table int) string {
	return fmt.Sprintf("%d-%d", round, table)
}

func NewMatch(round, table int, stage string, a, b Player) Match {
	return Match{
		ID:      MatchID(round, table),
		Round:   round,
		Table:   table,
		Stage:   stage,
		PlayerA: a.clone(),
		PlayerB: b.clone(),
	}
}

func (m *Match) HasPlayer(id string) bool {
	return m.PlayerA.ID == id || m.PlayerB.ID == id
}

func (m *Match) IsWinner(id string) bool {
	return m.IsFinished && m.WinnerID != nil && *m.WinnerID == id
}

// LoserID is empty until the match has a winner.
func (m *Match) LoserID() string {
	if !m.IsFinished || m.WinnerID == nil {
		return ""
	}
	if *m.WinnerID == m.PlayerA.ID {
		return m.PlayerB.ID
	}
	return m.PlayerA.ID
}

func (m Match) clone() Match {
	m.PlayerA = m.PlayerA.clone()
	m.PlayerB = m.PlayerB.clone()
	m.WinnerID = utils.Clone(m.WinnerID)
	return m
}
