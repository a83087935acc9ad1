package bracket

import "time"

type PairingStatus string

const (
	PairingDraft     PairingStatus = "DRAFT"
	PairingLocked    PairingStatus = "LOCKED"
	PairingConfirmed PairingStatus = "CONFIRMED"
)

type ManualPairing struct {
	ID         string        `json:"id"`
	Round      int           `json:"round"`
	Table      int           `json:"table"`
	PlayerAID  string        `json:"playerAId"`
	PlayerBID  string        `json:"playerBId"`
	Status     PairingStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	ModifiedAt time.Time     `json:"modifiedAt"`
}

func (p *ManualPairing) HasPlayer(id string) bool {
	return p.PlayerAID == id || p.PlayerBID == id
}

// PairingInput is one row of a bulk import, before ids and timestamps exist.
type PairingInput struct {
	Table     int    `json:"table"`
	PlayerAID string `json:"playerAId"`
	PlayerBID string `json:"playerBId"`
}
