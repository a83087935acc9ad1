package engine

import (
	"time"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/goccy/go-json"
)

type TournamentInfo struct {
	Status         bracket.TournamentStatus `json:"status"`
	Format         bracket.TournamentFormat `json:"format"`
	CurrentRound   int                      `json:"currentRound"`
	WelcomeMessage string                   `json:"welcomeMessage"`
	FooterText     string                   `json:"footerText"`
}

// ExportDocument is the backup file offered for download.
type ExportDocument struct {
	ExportDate     time.Time        `json:"exportDate"`
	TournamentInfo TournamentInfo   `json:"tournamentInfo"`
	Players        []bracket.Player `json:"players"`
	Matches        []bracket.Match  `json:"matches"`
	Statistics     Statistics       `json:"statistics"`
}

func (s *Session) Export() ExportDocument {
	st := s.state.Clone()
	return ExportDocument{
		ExportDate: s.now(),
		TournamentInfo: TournamentInfo{
			Status:         st.Status,
			Format:         st.Format,
			CurrentRound:   st.CurrentRound,
			WelcomeMessage: st.Display.WelcomeMessage,
			FooterText:     st.Display.FooterText,
		},
		Players:    st.Players,
		Matches:    st.Matches,
		Statistics: computeStatistics(st),
	}
}

// The import shapes use pointers so a missing required field can be told
// apart from a zero value.
type importPlayer struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Association *string `json:"association"`
	ICNumber    *string `json:"icNumber"`
	PhoneNumber *string `json:"phoneNumber"`
	Wins        *int    `json:"wins"`
	Losses      *int    `json:"losses"`
	Draws       *int    `json:"draws"`
	Points      *int    `json:"points"`
	Active      *bool   `json:"active"`
}

type importMatch struct {
	ID              *string         `json:"id"`
	Round           *int            `json:"round"`
	Table           *int            `json:"table"`
	Stage           string          `json:"stage"`
	PlayerA         *bracket.Player `json:"playerA"`
	PlayerB         *bracket.Player `json:"playerB"`
	WinnerID        *string         `json:"winnerId"`
	IsDraw          *bool           `json:"isDraw"`
	IsFinished      *bool           `json:"isFinished"`
	IsManualPairing bool            `json:"isManualPairing"`
}

type importInfo struct {
	Status         *bracket.TournamentStatus `json:"status"`
	Format         *bracket.TournamentFormat `json:"format"`
	CurrentRound   *int                      `json:"currentRound"`
	WelcomeMessage *string                   `json:"welcomeMessage"`
	FooterText     *string                   `json:"footerText"`
}

type ImportDocument struct {
	TournamentInfo *importInfo    `json:"tournamentInfo"`
	Players        []importPlayer `json:"players"`
	Matches        []importMatch  `json:"matches"`

	players []bracket.Player
	matches []bracket.Match
}

func invalidImport(format string, args ...any) error {
	return newError(ErrValidation, "Fail import tidak sah: "+format, args...)
}

// DecodeImport parses and shape-checks a backup file. Sections that are
// absent are left alone by Import.
func DecodeImport(data []byte) (*ImportDocument, error) {
	var doc ImportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalidImport("%v", err)
	}

	if doc.Players != nil {
		doc.players = make([]bracket.Player, 0, len(doc.Players))
		for i, p := range doc.Players {
			if p.ID == nil || p.Name == nil || p.Association == nil || p.Wins == nil ||
				p.Losses == nil || p.Draws == nil || p.Points == nil || p.Active == nil {
				return nil, invalidImport("pemain #%d tidak lengkap", i+1)
			}
			doc.players = append(doc.players, bracket.Player{
				ID:          *p.ID,
				Name:        *p.Name,
				Association: *p.Association,
				ICNumber:    p.ICNumber,
				PhoneNumber: p.PhoneNumber,
				Wins:        *p.Wins,
				Losses:      *p.Losses,
				Draws:       *p.Draws,
				Points:      *p.Points,
				Active:      *p.Active,
			})
		}
	}

	if doc.Matches != nil {
		doc.matches = make([]bracket.Match, 0, len(doc.Matches))
		for i, m := range doc.Matches {
			if m.ID == nil || m.Round == nil || m.Table == nil || m.PlayerA == nil ||
				m.PlayerB == nil || m.IsDraw == nil || m.IsFinished == nil {
				return nil, invalidImport("perlawanan #%d tidak lengkap", i+1)
			}
			doc.matches = append(doc.matches, bracket.Match{
				ID:              *m.ID,
				Round:           *m.Round,
				Table:           *m.Table,
				Stage:           m.Stage,
				PlayerA:         *m.PlayerA,
				PlayerB:         *m.PlayerB,
				WinnerID:        m.WinnerID,
				IsDraw:          *m.IsDraw,
				IsFinished:      *m.IsFinished,
				IsManualPairing: m.IsManualPairing,
			})
		}
	}

	if info := doc.TournamentInfo; info != nil {
		if info.Status != nil {
			switch *info.Status {
			case bracket.StatusOffline, bracket.StatusOnline, bracket.StatusFinished:
			default:
				return nil, invalidImport("status %q tidak dikenali", *info.Status)
			}
		}
		if info.Format != nil && !info.Format.Valid() {
			return nil, invalidImport("format %q tidak dikenali", *info.Format)
		}
		if info.CurrentRound != nil && *info.CurrentRound < 0 {
			return nil, invalidImport("pusingan semasa tidak sah")
		}
	}

	return &doc, nil
}

// Import restores a decoded backup. Only allowed while OFFLINE; the manual
// workbench is cleared since its ids may not survive the restore.
func (s *Session) Import(doc *ImportDocument) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}
	if s.state.Status != bracket.StatusOffline {
		return newError(ErrInvalidState, "Import hanya dibenarkan semasa status OFFLINE")
	}

	next := s.state.Clone()
	if doc.players != nil {
		next.Players = doc.players
	}
	if doc.matches != nil {
		next.Matches = doc.matches
	}
	if info := doc.TournamentInfo; info != nil {
		if info.Status != nil {
			next.Status = *info.Status
		}
		if info.Format != nil {
			next.Format = *info.Format
		}
		if info.CurrentRound != nil {
			next.CurrentRound = *info.CurrentRound
		}
		if info.WelcomeMessage != nil {
			next.Display.WelcomeMessage = *info.WelcomeMessage
		}
		if info.FooterText != nil {
			next.Display.FooterText = *info.FooterText
		}
	}
	next.ManualPairings = []bracket.ManualPairing{}
	next.PairingStatus = bracket.PairingDraft
	next.IsRoundtable = false

	s.state = next.Clone()
	s.logger.Info().Int("players", len(next.Players)).Int("matches", len(next.Matches)).Msg("tournament imported")
	return nil
}
