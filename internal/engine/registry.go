package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/AdamBeresnev/dam-aji/internal/utils"
	"github.com/AdamBeresnev/dam-aji/internal/validation"
)

type PlayerInput struct {
	Name        string `json:"name"`
	Association string `json:"association"`
	ICNumber    string `json:"icNumber"`
	PhoneNumber string `json:"phoneNumber"`
}

func (in PlayerInput) validate(players []bracket.Player, excludeID string) error {
	checks := []error{
		validation.PlayerName(in.Name),
		validation.Association(in.Association),
		validation.ICNumber(in.ICNumber),
		validation.PhoneNumber(in.PhoneNumber),
		validation.DuplicatePlayer(in.Name, players, excludeID),
	}
	for _, err := range checks {
		if err != nil {
			return validationError(err)
		}
	}
	return nil
}

// nextPlayerID is one past the largest numeric id, zero padded to three
// digits. Ids that do not parse are ignored.
func nextPlayerID(players []bracket.Player) string {
	highest := 0
	for _, p := range players {
		if n, err := strconv.Atoi(p.ID); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%03d", highest+1)
}

// AddPlayer registers a player with zeroed counters. Ids are never reused
// while a higher id still exists.
func (s *Session) AddPlayer(in PlayerInput) (bracket.Player, error) {
	if err := s.checkUnlocked(); err != nil {
		return bracket.Player{}, err
	}
	if err := in.validate(s.state.Players, ""); err != nil {
		return bracket.Player{}, err
	}

	player := bracket.Player{
		ID:          nextPlayerID(s.state.Players),
		Name:        strings.TrimSpace(in.Name),
		Association: strings.TrimSpace(in.Association),
		ICNumber:    utils.StringOrNil(in.ICNumber),
		PhoneNumber: utils.StringOrNil(in.PhoneNumber),
		Active:      true,
	}
	s.state.Players = append(s.state.Players, player)

	s.logger.Debug().Str("player_id", player.ID).Str("name", player.Name).Msg("player added")
	return player, nil
}

// UpdatePlayer changes identity fields only. Counters and the active flag
// belong to result recording.
func (s *Session) UpdatePlayer(id string, in PlayerInput) (bracket.Player, error) {
	if err := s.checkUnlocked(); err != nil {
		return bracket.Player{}, err
	}
	player := s.state.FindPlayer(id)
	if player == nil {
		return bracket.Player{}, newError(ErrNotFound, "Pemain tidak dijumpai")
	}
	if err := in.validate(s.state.Players, id); err != nil {
		return bracket.Player{}, err
	}

	player.Name = strings.TrimSpace(in.Name)
	player.Association = strings.TrimSpace(in.Association)
	player.ICNumber = utils.StringOrNil(in.ICNumber)
	player.PhoneNumber = utils.StringOrNil(in.PhoneNumber)
	return *player, nil
}

func (s *Session) RemovePlayer(id string) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if s.state.FindPlayer(id) == nil {
		return newError(ErrNotFound, "Pemain tidak dijumpai")
	}
	if s.state.Status != bracket.StatusOffline {
		return newError(ErrInvalidState, "Pemain hanya boleh dipadamkan semasa status OFFLINE")
	}

	players := s.state.Players[:0]
	for _, p := range s.state.Players {
		if p.ID != id {
			players = append(players, p)
		}
	}
	s.state.Players = players

	// A draft pairing must not point at a player who no longer exists.
	pairings := s.state.ManualPairings[:0]
	for _, mp := range s.state.ManualPairings {
		if !mp.HasPlayer(id) {
			pairings = append(pairings, mp)
		}
	}
	s.state.ManualPairings = pairings

	s.logger.Debug().Str("player_id", id).Msg("player removed")
	return nil
}
