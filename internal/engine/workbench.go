package engine

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/google/uuid"
)

func (s *Session) checkEditable() error {
	if s.state.PairingStatus != bracket.PairingDraft {
		return newError(ErrInvalidState, "Pasangan sudah dikunci dan tidak boleh diubah")
	}
	return nil
}

// checkPair validates both sides of a pairing against the roster. excludeID
// skips the pairing being edited.
func (s *Session) checkPair(round, table int, playerAID, playerBID, excludeID string) error {
	if round < 1 {
		return newError(ErrValidation, "Pusingan tidak sah")
	}
	if table < 1 {
		return newError(ErrValidation, "Nombor meja tidak sah")
	}
	if s.state.FindPlayer(playerAID) == nil {
		return newError(ErrNotFound, "Pemain A tidak dijumpai")
	}
	if strings.TrimSpace(playerBID) == "" {
		return newError(ErrValidation, "Pemain B diperlukan. Tiada BYE dibenarkan dalam pertandingan Dam Aji.")
	}
	if s.state.FindPlayer(playerBID) == nil {
		return newError(ErrNotFound, "Pemain B tidak dijumpai")
	}
	if playerAID == playerBID {
		return newError(ErrValidation, "Pemain tidak boleh dipasangkan dengan dirinya sendiri")
	}

	for _, mp := range s.state.ManualPairings {
		if mp.ID == excludeID || mp.Round != round {
			continue
		}
		if mp.Table == table {
			return newError(ErrValidation, "Meja %d sudah digunakan untuk pusingan %d", table, round)
		}
		if mp.HasPlayer(playerAID) || mp.HasPlayer(playerBID) {
			return newError(ErrValidation, "Pemain sudah dipasangkan dalam pusingan ini")
		}
	}
	return nil
}

func (s *Session) AddManualPairing(round, table int, playerAID, playerBID string) (bracket.ManualPairing, error) {
	if err := s.checkUnlocked(); err != nil {
		return bracket.ManualPairing{}, err
	}
	if err := s.checkEditable(); err != nil {
		return bracket.ManualPairing{}, err
	}
	if err := s.checkPair(round, table, playerAID, playerBID, ""); err != nil {
		return bracket.ManualPairing{}, err
	}

	now := s.now()
	pairing := bracket.ManualPairing{
		ID:         uuid.NewString(),
		Round:      round,
		Table:      table,
		PlayerAID:  playerAID,
		PlayerBID:  playerBID,
		Status:     bracket.PairingDraft,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	s.state.ManualPairings = append(s.state.ManualPairings, pairing)
	return pairing, nil
}

func (s *Session) findPairing(id string) *bracket.ManualPairing {
	for i := range s.state.ManualPairings {
		if s.state.ManualPairings[i].ID == id {
			return &s.state.ManualPairings[i]
		}
	}
	return nil
}

func (s *Session) UpdateManualPairing(id, playerAID, playerBID string) (bracket.ManualPairing, error) {
	if err := s.checkUnlocked(); err != nil {
		return bracket.ManualPairing{}, err
	}
	pairing := s.findPairing(id)
	if pairing == nil {
		return bracket.ManualPairing{}, newError(ErrNotFound, "Pasangan tidak dijumpai")
	}
	if pairing.Status != bracket.PairingDraft || s.state.PairingStatus != bracket.PairingDraft {
		return bracket.ManualPairing{}, newError(ErrInvalidState, "Pasangan sudah dikunci dan tidak boleh diubah")
	}
	if err := s.checkPair(pairing.Round, pairing.Table, playerAID, playerBID, id); err != nil {
		return bracket.ManualPairing{}, err
	}

	pairing.PlayerAID = playerAID
	pairing.PlayerBID = playerBID
	pairing.ModifiedAt = s.now()
	return *pairing, nil
}

func (s *Session) RemoveManualPairing(id string) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	pairing := s.findPairing(id)
	if pairing == nil {
		return newError(ErrNotFound, "Pasangan tidak dijumpai")
	}
	if pairing.Status != bracket.PairingDraft || s.state.PairingStatus != bracket.PairingDraft {
		return newError(ErrInvalidState, "Pasangan sudah dikunci dan tidak boleh dipadam")
	}

	pairings := s.state.ManualPairings[:0]
	for _, mp := range s.state.ManualPairings {
		if mp.ID != id {
			pairings = append(pairings, mp)
		}
	}
	s.state.ManualPairings = pairings
	return nil
}

// LockPairings freezes the batch once every active player sits at exactly
// one table.
func (s *Session) LockPairings() error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if err := s.checkEditable(); err != nil {
		return err
	}
	st := s.state
	if len(st.ManualPairings) == 0 {
		return newError(ErrPrecondition, "Tiada pasangan untuk dikunci")
	}

	seen := map[string]bool{}
	for _, mp := range st.ManualPairings {
		for _, id := range []string{mp.PlayerAID, mp.PlayerBID} {
			if seen[id] {
				return newError(ErrValidation, "Pemain dengan ID %s dipasangkan lebih daripada sekali", id)
			}
			seen[id] = true
		}
	}

	active := st.ActivePlayers()
	var unpaired []string
	for _, p := range active {
		if !seen[p.ID] {
			unpaired = append(unpaired, p.Name)
		}
	}
	if len(unpaired) > 0 {
		return newError(ErrPrecondition, "%d pemain belum dipasangkan: %s. Tiada BYE dibenarkan dalam Dam Aji.", len(unpaired), strings.Join(unpaired, ", "))
	}
	if len(active)%2 != 0 {
		return newError(ErrPrecondition, "Bilangan pemain aktif mestilah genap untuk mengelakkan BYE. Sila tambah atau buang seorang pemain.")
	}

	s.setPairingStatus(bracket.PairingLocked)
	return nil
}

// UnlockPairings returns the batch to DRAFT from any status, confirmed
// included.
func (s *Session) UnlockPairings() error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	s.setPairingStatus(bracket.PairingDraft)
	return nil
}

func (s *Session) ConfirmPairings() error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if s.state.PairingStatus != bracket.PairingLocked {
		return newError(ErrPrecondition, "Pasangan mesti dikunci dahulu sebelum disahkan")
	}
	s.setPairingStatus(bracket.PairingConfirmed)
	return nil
}

func (s *Session) setPairingStatus(status bracket.PairingStatus) {
	now := s.now()
	for i := range s.state.ManualPairings {
		s.state.ManualPairings[i].Status = status
		s.state.ManualPairings[i].ModifiedAt = now
	}
	s.state.PairingStatus = status
}

// ImportPairings replaces the whole batch. Nothing changes unless every row
// is valid. Imported rows belong to the round that will be generated next.
func (s *Session) ImportPairings(rows []bracket.PairingInput) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if err := s.checkEditable(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return newError(ErrValidation, "Tiada data yang sah dijumpai")
	}

	round := s.state.CurrentRound + 1
	tables := map[int]bool{}
	paired := map[string]bool{}
	for _, row := range rows {
		if s.state.FindPlayer(row.PlayerAID) == nil {
			return newError(ErrNotFound, "Pemain dengan ID %s tidak dijumpai", row.PlayerAID)
		}
		if strings.TrimSpace(row.PlayerBID) == "" {
			return newError(ErrValidation, "Pemain B diperlukan untuk meja %d. Tiada BYE dibenarkan dalam Dam Aji.", row.Table)
		}
		if s.state.FindPlayer(row.PlayerBID) == nil {
			return newError(ErrNotFound, "Pemain dengan ID %s tidak dijumpai", row.PlayerBID)
		}
		if row.Table < 1 {
			return newError(ErrValidation, "Nombor meja tidak sah")
		}
		if tables[row.Table] {
			return newError(ErrValidation, "Meja %d sudah digunakan untuk pusingan %d", row.Table, round)
		}
		tables[row.Table] = true
		if row.PlayerAID == row.PlayerBID || paired[row.PlayerAID] || paired[row.PlayerBID] {
			return newError(ErrValidation, "Pemain sudah dipasangkan dalam pusingan ini")
		}
		paired[row.PlayerAID] = true
		paired[row.PlayerBID] = true
	}

	now := s.now()
	pairings := make([]bracket.ManualPairing, 0, len(rows))
	for _, row := range rows {
		pairings = append(pairings, bracket.ManualPairing{
			ID:         uuid.NewString(),
			Round:      round,
			Table:      row.Table,
			PlayerAID:  row.PlayerAID,
			PlayerBID:  row.PlayerBID,
			Status:     bracket.PairingDraft,
			CreatedAt:  now,
			ModifiedAt: now,
		})
	}
	s.state.ManualPairings = pairings
	s.state.PairingStatus = bracket.PairingDraft
	return nil
}

// ParsePairingsCSV reads "Meja,PemainA,PemainB" rows. A header row and rows
// without a numeric table are skipped.
func ParsePairingsCSV(r io.Reader) ([]bracket.PairingInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []bracket.PairingInput
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newError(ErrValidation, "Fail CSV tidak sah: %v", err)
		}
		if len(record) < 3 {
			continue
		}
		table, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		rows = append(rows, bracket.PairingInput{
			Table:     table,
			PlayerAID: strings.TrimSpace(record[1]),
			PlayerBID: strings.TrimSpace(record[2]),
		})
	}

	if len(rows) == 0 {
		return nil, newError(ErrValidation, "Tiada data yang sah dijumpai")
	}
	return rows, nil
}
