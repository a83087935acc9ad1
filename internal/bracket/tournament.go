package bracket

type TournamentStatus string

const (
	StatusOffline  TournamentStatus = "OFFLINE"
	StatusOnline   TournamentStatus = "ONLINE"
	StatusFinished TournamentStatus = "FINISHED"
)

type TournamentFormat string

const (
	FormatNotSelected TournamentFormat = "NOT_SELECTED"
	FormatLeague      TournamentFormat = "Liga"
	FormatKnockout    TournamentFormat = "Kalah Mati"
	// Swiss is accepted by the type but no pairing exists for it.
	FormatSwiss TournamentFormat = "Swiss System"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatNotSelected, FormatLeague, FormatKnockout, FormatSwiss:
		return true
	}
	return false
}

type TournamentMode string

const (
	ModeAuto   TournamentMode = "AUTO"
	ModeManual TournamentMode = "MANUAL"
)

func (m TournamentMode) Valid() bool {
	return m == ModeAuto || m == ModeManual
}

type DisplaySettings struct {
	WelcomeMessage     string  `json:"welcomeMessage"`
	FooterText         string  `json:"footerText"`
	EventDetails       string  `json:"eventDetails"`
	LkimLogoURL        string  `json:"lkimLogoUrl"`
	MadaniLogoURL      string  `json:"madaniLogoUrl"`
	BackgroundImageURL string  `json:"backgroundImageUrl"`
	BackgroundMusicURL string  `json:"backgroundMusicUrl"`
	YoutubeVideoID     string  `json:"youtubeVideoId"`
	IsMusicEnabled     bool    `json:"isMusicEnabled"`
	MusicVolume        float64 `json:"musicVolume"`
}

func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		WelcomeMessage: "Selamat Datang\nPertandingan Dam Aji\nLKIM 2025",
		FooterText:     "© 2025 Persatuan Nelayan Kawasan Semerak. Semua hak cipta terpelihara.",
		EventDetails:   "GELOMBANG SAMUDERA MADANI",
		YoutubeVideoID: "OYaFysVh_qU",
		IsMusicEnabled: true,
		MusicVolume:    0.4,
	}
}

// State is the whole session document. It is persisted and rehydrated as one
// JSON value, so every field carries a json tag.
type State struct {
	Status         TournamentStatus `json:"status"`
	Format         TournamentFormat `json:"format"`
	Mode           TournamentMode   `json:"mode"`
	Players        []Player         `json:"players"`
	Matches        []Match          `json:"matches"`
	ManualPairings []ManualPairing  `json:"manualPairings"`
	PairingStatus  PairingStatus    `json:"pairingStatus"`
	CurrentRound   int              `json:"currentRound"`
	IsRoundtable   bool             `json:"isRoundtable"`
	IsSystemLocked bool             `json:"isSystemLocked"`
	Display        DisplaySettings  `json:"display"`
}

func NewState() *State {
	return &State{
		Status:         StatusOffline,
		Format:         FormatNotSelected,
		Mode:           ModeAuto,
		Players:        []Player{},
		Matches:        []Match{},
		ManualPairings: []ManualPairing{},
		PairingStatus:  PairingDraft,
		Display:        DefaultDisplaySettings(),
	}
}

// Clone returns a deep copy. Callers mutate the copy and swap it in once every
// step has succeeded.
func (s *State) Clone() *State {
	c := *s
	c.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	c.Matches = make([]Match, len(s.Matches))
	for i, m := range s.Matches {
		c.Matches[i] = m.clone()
	}
	c.ManualPairings = append([]ManualPairing{}, s.ManualPairings...)
	return &c
}

func (s *State) FindPlayer(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

func (s *State) FindMatch(id string) *Match {
	for i := range s.Matches {
		if s.Matches[i].ID == id {
			return &s.Matches[i]
		}
	}
	return nil
}

func (s *State) FindMatchByStage(stage string) *Match {
	for i := range s.Matches {
		if s.Matches[i].Stage == stage {
			return &s.Matches[i]
		}
	}
	return nil
}

func (s *State) ActivePlayers() []Player {
	var active []Player
	for _, p := range s.Players {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

func (s *State) MatchesInRound(round int) []Match {
	var matches []Match
	for _, m := range s.Matches {
		if m.Round == round {
			matches = append(matches, m)
		}
	}
	return matches
}
