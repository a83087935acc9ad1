// Package engine runs a single Dam Aji tournament: roster, round generation,
// result recording, the manual pairing workbench and standings. A Session
// owns one bracket.State and is not safe for concurrent use; callers
// serialize access.
package engine

import (
	"math/rand"
	"time"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/AdamBeresnev/dam-aji/internal/display"
	"github.com/AdamBeresnev/dam-aji/internal/utils"
	"github.com/AdamBeresnev/dam-aji/internal/validation"
	"github.com/rs/zerolog"
)

const messageMaxLength = 500

// RandomSource drives the knockout shuffle. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

type Session struct {
	state  *bracket.State
	rng    RandomSource
	now    func() time.Time
	logger zerolog.Logger
}

type Option func(*Session)

func WithRandom(rng RandomSource) Option {
	return func(s *Session) { s.rng = rng }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New wraps a rehydrated state, or a fresh one when state is nil.
func New(state *bracket.State, opts ...Option) *Session {
	if state == nil {
		state = bracket.NewState()
	}
	normalize(state)

	s := &Session{
		state:  state,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// normalize fills the gaps a document written by an older build may have.
func normalize(state *bracket.State) {
	if state.Players == nil {
		state.Players = []bracket.Player{}
	}
	if state.Matches == nil {
		state.Matches = []bracket.Match{}
	}
	if state.ManualPairings == nil {
		state.ManualPairings = []bracket.ManualPairing{}
	}
	if state.Status == "" {
		state.Status = bracket.StatusOffline
	}
	if state.Format == "" {
		state.Format = bracket.FormatNotSelected
	}
	if state.Mode == "" {
		state.Mode = bracket.ModeAuto
	}
	if state.PairingStatus == "" {
		state.PairingStatus = bracket.PairingDraft
	}
}

// State returns a deep copy safe to serialize or hand to a view.
func (s *Session) State() *bracket.State {
	return s.state.Clone()
}

func (s *Session) Players() []bracket.Player {
	return s.state.Clone().Players
}

func (s *Session) Matches() []bracket.Match {
	return s.state.Clone().Matches
}

func (s *Session) ManualPairings() []bracket.ManualPairing {
	return append([]bracket.ManualPairing{}, s.state.ManualPairings...)
}

func (s *Session) PairingStatus() bracket.PairingStatus { return s.state.PairingStatus }
func (s *Session) CurrentRound() int { return s.state.CurrentRound }
func (s *Session) Status() bracket.TournamentStatus { return s.state.Status }
func (s *Session) Format() bracket.TournamentFormat { return s.state.Format }
func (s *Session) Mode() bracket.TournamentMode { return s.state.Mode }
func (s *Session) IsRoundtable() bool { return s.state.IsRoundtable }
func (s *Session) IsSystemLocked() bool { return s.state.IsSystemLocked }
func (s *Session) DisplaySettings() bracket.DisplaySettings { return s.state.Display }

func (s *Session) checkUnlocked() error {
	if s.state.IsSystemLocked {
		return newError(ErrSystemLocked, "Sistem sedang dikunci. Sila buka kunci sistem terlebih dahulu.")
	}
	return nil
}

var statusTransitions = map[bracket.TournamentStatus][]bracket.TournamentStatus{
	bracket.StatusOffline:  {bracket.StatusOnline},
	bracket.StatusOnline:   {bracket.StatusOffline, bracket.StatusFinished},
	bracket.StatusFinished: {bracket.StatusOffline},
}

func canTransition(from, to bracket.TournamentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *Session) SetStatus(status bracket.TournamentStatus) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if status == s.state.Status {
		return nil
	}
	if !canTransition(s.state.Status, status) {
		return newError(ErrInvalidState, "Peralihan status dari %s ke %s tidak dibenarkan", s.state.Status, status)
	}

	s.logger.Debug().Str("from", string(s.state.Status)).Str("to", string(status)).Msg("status changed")
	s.state.Status = status
	return nil
}

// StartTournament generates the first round and puts the session ONLINE.
func (s *Session) StartTournament() (*RoundOutcome, error) {
	if err := s.checkUnlocked(); err != nil {
		return nil, err
	}
	if s.state.Status != bracket.StatusOffline || s.state.CurrentRound != 0 {
		return nil, newError(ErrInvalidState, "Pertandingan sudah dimulakan")
	}

	outcome, err := s.GenerateNextRound()
	if err != nil {
		return nil, err
	}
	if s.state.Status == bracket.StatusOffline {
		s.state.Status = bracket.StatusOnline
	}
	return outcome, nil
}

func (s *Session) SetFormat(format bracket.TournamentFormat) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if err := validation.TournamentFormat(format); err != nil {
		return validationError(err)
	}
	if format == bracket.FormatSwiss {
		return newError(ErrPrecondition, "Format %s belum disokong", format)
	}
	if s.state.CurrentRound > 0 {
		return newError(ErrPrecondition, "Format tidak boleh ditukar selepas pertandingan bermula")
	}

	s.state.Format = format
	return nil
}

func (s *Session) SetMode(mode bracket.TournamentMode) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if !mode.Valid() {
		return newError(ErrValidation, "Mod pertandingan tidak sah")
	}

	s.state.Mode = mode
	return nil
}

// UpdateDisplay replaces the branding texts and media settings. The YouTube
// field accepts either a full link or a bare video id.
func (s *Session) UpdateDisplay(settings bracket.DisplaySettings) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}

	if err := validation.Message(settings.WelcomeMessage, messageMaxLength); err != nil {
		return validationError(err)
	}
	for _, text := range []string{settings.FooterText, settings.EventDetails} {
		if text == "" {
			continue
		}
		if err := validation.Message(text, messageMaxLength); err != nil {
			return validationError(err)
		}
	}
	for _, link := range []string{settings.LkimLogoURL, settings.MadaniLogoURL, settings.BackgroundImageURL, settings.BackgroundMusicURL} {
		if err := validation.URL(link); err != nil {
			return validationError(err)
		}
	}

	if settings.YoutubeVideoID != "" {
		id, ok := display.YouTubeVideoID(settings.YoutubeVideoID)
		if !ok {
			return newError(ErrValidation, "URL YouTube tidak sah. Sila gunakan format: https://www.youtube.com/watch?v=VIDEO_ID")
		}
		settings.YoutubeVideoID = id
	}

	settings.MusicVolume = utils.Clamp(settings.MusicVolume, 0, 1)
	s.state.Display = settings
	return nil
}

// SetYoutubeVideo swaps only the background video, keeping the other
// display settings.
func (s *Session) SetYoutubeVideo(link string) (string, error) {
	if err := s.checkUnlocked(); err != nil {
		return "", err
	}
	id, ok := display.YouTubeVideoID(link)
	if !ok {
		return "", newError(ErrValidation, "URL YouTube tidak sah. Sila gunakan format: https://www.youtube.com/watch?v=VIDEO_ID")
	}
	s.state.Display.YoutubeVideoID = id
	return id, nil
}

// ToggleSystemLock is the one mutation allowed while locked.
func (s *Session) ToggleSystemLock() bool {
	s.state.IsSystemLocked = !s.state.IsSystemLocked
	s.logger.Debug().Bool("locked", s.state.IsSystemLocked).Msg("system lock toggled")
	return s.state.IsSystemLocked
}

func (s *Session) ResetTournament() error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	s.state = bracket.NewState()
	s.logger.Debug().Msg("tournament reset")
	return nil
}
