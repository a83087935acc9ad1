package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/AdamBeresnev/dam-aji/internal/engine"
	"github.com/AdamBeresnev/dam-aji/internal/store"
	"github.com/rs/zerolog"
)

// TournamentService serializes every call into the engine and persists the
// whole session after each successful mutation.
type TournamentService struct {
	mu       sync.Mutex
	key      string
	sessions *store.SessionStore
	audit    *store.AuditStore
	session  *engine.Session
	opts     []engine.Option
	logger   zerolog.Logger
}

// NewTournamentService rehydrates the session saved under key, or starts a
// fresh one.
func NewTournamentService(ctx context.Context, sessions *store.SessionStore, audit *store.AuditStore, key string, logger zerolog.Logger, opts ...engine.Option) (*TournamentService, error) {
	state, err := sessions.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	s := &TournamentService{
		key:      key,
		sessions: sessions,
		audit:    audit,
		session:  engine.New(state, opts...),
		opts:     opts,
		logger:   logger,
	}

	logger.Info().
		Bool("restored", state != nil).
		Int("players", len(s.session.Players())).
		Int("round", s.session.CurrentRound()).
		Msg("tournament session loaded")
	return s, nil
}

func (s *TournamentService) save(ctx context.Context) error {
	return s.sessions.Save(ctx, s.key, s.session.State())
}

// clear drops the stored document; a missing document loads as a fresh
// session.
func (s *TournamentService) clear(ctx context.Context) error {
	return s.sessions.Delete(ctx, s.key)
}

func (s *TournamentService) mutate(ctx context.Context, action string, fn func(*engine.Session) (string, error)) error {
	return s.apply(ctx, action, s.save, fn)
}

// apply runs fn under the lock, then persist. A failed persist rolls the
// in-memory session back so memory never runs ahead of storage.
func (s *TournamentService) apply(ctx context.Context, action string, persist func(context.Context) error, fn func(*engine.Session) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.session.State()
	details, err := fn(s.session)
	if err != nil {
		return err
	}

	if err := persist(ctx); err != nil {
		s.session = engine.New(before, s.opts...)
		return fmt.Errorf("failed to persist tournament: %w", err)
	}

	actor := admin.Actor(ctx)
	entry := &store.AuditEntry{Admin: actor, Action: action, Details: details}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to write audit entry")
	}
	s.logger.Info().Str("admin", actor).Str("action", action).Str("details", details).Msg("tournament updated")
	return nil
}

func (s *TournamentService) read(fn func(*engine.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.session)
}

func (s *TournamentService) State() *bracket.State {
	var st *bracket.State
	s.read(func(e *engine.Session) { st = e.State() })
	return st
}

// Matches returns every match, or one round's when round > 0.
func (s *TournamentService) Matches(round int) []bracket.Match {
	st := s.State()
	if round > 0 {
		return st.MatchesInRound(round)
	}
	return st.Matches
}

func (s *TournamentService) Leaderboard() []bracket.Player {
	var players []bracket.Player
	s.read(func(e *engine.Session) { players = e.Leaderboard() })
	return players
}

func (s *TournamentService) Statistics() engine.Statistics {
	var stats engine.Statistics
	s.read(func(e *engine.Session) { stats = e.Statistics() })
	return stats
}

func (s *TournamentService) Export() engine.ExportDocument {
	var doc engine.ExportDocument
	s.read(func(e *engine.Session) { doc = e.Export() })
	return doc
}

func (s *TournamentService) AuditLog(ctx context.Context, limit int) ([]store.AuditEntry, error) {
	return s.audit.List(ctx, limit)
}

func (s *TournamentService) AddPlayer(ctx context.Context, in engine.PlayerInput) (bracket.Player, error) {
	var player bracket.Player
	err := s.mutate(ctx, "ADD_PLAYER", func(e *engine.Session) (string, error) {
		p, err := e.AddPlayer(in)
		player = p
		return fmt.Sprintf("%s %s (%s)", p.ID, p.Name, p.Association), err
	})
	return player, err
}

func (s *TournamentService) UpdatePlayer(ctx context.Context, id string, in engine.PlayerInput) (bracket.Player, error) {
	var player bracket.Player
	err := s.mutate(ctx, "UPDATE_PLAYER", func(e *engine.Session) (string, error) {
		p, err := e.UpdatePlayer(id, in)
		player = p
		return fmt.Sprintf("%s %s", id, p.Name), err
	})
	return player, err
}

func (s *TournamentService) RemovePlayer(ctx context.Context, id string) error {
	return s.mutate(ctx, "REMOVE_PLAYER", func(e *engine.Session) (string, error) {
		return id, e.RemovePlayer(id)
	})
}

func (s *TournamentService) SetFormat(ctx context.Context, format bracket.TournamentFormat) error {
	return s.mutate(ctx, "SET_FORMAT", func(e *engine.Session) (string, error) {
		return string(format), e.SetFormat(format)
	})
}

func (s *TournamentService) SetMode(ctx context.Context, mode bracket.TournamentMode) error {
	return s.mutate(ctx, "SET_MODE", func(e *engine.Session) (string, error) {
		return string(mode), e.SetMode(mode)
	})
}

func (s *TournamentService) SetStatus(ctx context.Context, status bracket.TournamentStatus) error {
	return s.mutate(ctx, "SET_STATUS", func(e *engine.Session) (string, error) {
		return string(status), e.SetStatus(status)
	})
}

func (s *TournamentService) StartTournament(ctx context.Context) (*engine.RoundOutcome, error) {
	var outcome *engine.RoundOutcome
	err := s.mutate(ctx, "START_TOURNAMENT", func(e *engine.Session) (string, error) {
		o, err := e.StartTournament()
		outcome = o
		return roundDetails(o), err
	})
	return outcome, err
}

func (s *TournamentService) GenerateNextRound(ctx context.Context) (*engine.RoundOutcome, error) {
	var outcome *engine.RoundOutcome
	err := s.mutate(ctx, "GENERATE_ROUND", func(e *engine.Session) (string, error) {
		o, err := e.GenerateNextRound()
		outcome = o
		return roundDetails(o), err
	})
	return outcome, err
}

func roundDetails(o *engine.RoundOutcome) string {
	if o == nil {
		return ""
	}
	if o.Completed {
		return o.Message
	}
	return fmt.Sprintf("pusingan %d, %d perlawanan", o.Round, len(o.Matches))
}

func (s *TournamentService) SetMatchWinner(ctx context.Context, matchID, winnerID string) (bracket.Match, error) {
	var match bracket.Match
	err := s.mutate(ctx, "SET_WINNER", func(e *engine.Session) (string, error) {
		m, err := e.SetMatchWinner(matchID, winnerID)
		match = m
		return fmt.Sprintf("%s pemenang %s", matchID, winnerID), err
	})
	return match, err
}

func (s *TournamentService) SetMatchDraw(ctx context.Context, matchID string) (bracket.Match, error) {
	var match bracket.Match
	err := s.mutate(ctx, "SET_DRAW", func(e *engine.Session) (string, error) {
		m, err := e.SetMatchDraw(matchID)
		match = m
		return matchID, err
	})
	return match, err
}

func (s *TournamentService) ManualPairings() ([]bracket.ManualPairing, bracket.PairingStatus) {
	var (
		pairings []bracket.ManualPairing
		status   bracket.PairingStatus
	)
	s.read(func(e *engine.Session) {
		pairings = e.ManualPairings()
		status = e.PairingStatus()
	})
	return pairings, status
}

func (s *TournamentService) AddManualPairing(ctx context.Context, round, table int, playerAID, playerBID string) (bracket.ManualPairing, error) {
	var pairing bracket.ManualPairing
	err := s.mutate(ctx, "ADD_PAIRING", func(e *engine.Session) (string, error) {
		p, err := e.AddManualPairing(round, table, playerAID, playerBID)
		pairing = p
		return fmt.Sprintf("meja %d: %s vs %s", table, playerAID, playerBID), err
	})
	return pairing, err
}

func (s *TournamentService) UpdateManualPairing(ctx context.Context, id, playerAID, playerBID string) (bracket.ManualPairing, error) {
	var pairing bracket.ManualPairing
	err := s.mutate(ctx, "UPDATE_PAIRING", func(e *engine.Session) (string, error) {
		p, err := e.UpdateManualPairing(id, playerAID, playerBID)
		pairing = p
		return fmt.Sprintf("%s: %s vs %s", id, playerAID, playerBID), err
	})
	return pairing, err
}

func (s *TournamentService) RemoveManualPairing(ctx context.Context, id string) error {
	return s.mutate(ctx, "REMOVE_PAIRING", func(e *engine.Session) (string, error) {
		return id, e.RemoveManualPairing(id)
	})
}

func (s *TournamentService) LockPairings(ctx context.Context) error {
	return s.mutate(ctx, "LOCK_PAIRINGS", func(e *engine.Session) (string, error) {
		return "", e.LockPairings()
	})
}

func (s *TournamentService) UnlockPairings(ctx context.Context) error {
	return s.mutate(ctx, "UNLOCK_PAIRINGS", func(e *engine.Session) (string, error) {
		return "", e.UnlockPairings()
	})
}

func (s *TournamentService) ConfirmPairings(ctx context.Context) error {
	return s.mutate(ctx, "CONFIRM_PAIRINGS", func(e *engine.Session) (string, error) {
		return "", e.ConfirmPairings()
	})
}

func (s *TournamentService) ImportPairings(ctx context.Context, rows []bracket.PairingInput) error {
	return s.mutate(ctx, "IMPORT_PAIRINGS", func(e *engine.Session) (string, error) {
		return fmt.Sprintf("%d pasangan", len(rows)), e.ImportPairings(rows)
	})
}

func (s *TournamentService) ImportPairingsCSV(ctx context.Context, r io.Reader) error {
	rows, err := engine.ParsePairingsCSV(r)
	if err != nil {
		return err
	}
	return s.ImportPairings(ctx, rows)
}

func (s *TournamentService) UpdateDisplay(ctx context.Context, settings bracket.DisplaySettings) error {
	return s.mutate(ctx, "UPDATE_DISPLAY", func(e *engine.Session) (string, error) {
		return "", e.UpdateDisplay(settings)
	})
}

func (s *TournamentService) SetYoutubeVideo(ctx context.Context, link string) (string, error) {
	var id string
	err := s.mutate(ctx, "SET_YOUTUBE_VIDEO", func(e *engine.Session) (string, error) {
		v, err := e.SetYoutubeVideo(link)
		id = v
		return v, err
	})
	return id, err
}

func (s *TournamentService) ToggleSystemLock(ctx context.Context) (bool, error) {
	var locked bool
	err := s.mutate(ctx, "TOGGLE_SYSTEM_LOCK", func(e *engine.Session) (string, error) {
		locked = e.ToggleSystemLock()
		if locked {
			return "dikunci", nil
		}
		return "dibuka", nil
	})
	return locked, err
}

func (s *TournamentService) ResetTournament(ctx context.Context) error {
	return s.apply(ctx, "RESET_TOURNAMENT", s.clear, func(e *engine.Session) (string, error) {
		return "", e.ResetTournament()
	})
}

func (s *TournamentService) Import(ctx context.Context, data []byte) error {
	doc, err := engine.DecodeImport(data)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "IMPORT_DATA", func(e *engine.Session) (string, error) {
		if err := e.Import(doc); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d pemain, %d perlawanan", len(e.Players()), len(e.Matches())), nil
	})
}
