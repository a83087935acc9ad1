package views

import (
	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/AdamBeresnev/dam-aji/internal/display"
)

// DisplayState is what the public screens poll to render the hall display.
type DisplayState struct {
	Status          bracket.TournamentStatus `json:"status"`
	Format          bracket.TournamentFormat `json:"format"`
	Mode            bracket.TournamentMode   `json:"mode"`
	CurrentRound    int                      `json:"currentRound"`
	IsRoundtable    bool                     `json:"isRoundtable"`
	IsSystemLocked  bool                     `json:"isSystemLocked"`
	Display         bracket.DisplaySettings  `json:"display"`
	YoutubeEmbedURL string                   `json:"youtubeEmbedUrl,omitempty"`
	BackgroundMedia display.MediaInfo        `json:"backgroundMedia"`
}

func NewDisplayState(st *bracket.State) DisplayState {
	return DisplayState{
		Status:          st.Status,
		Format:          st.Format,
		Mode:            st.Mode,
		CurrentRound:    st.CurrentRound,
		IsRoundtable:    st.IsRoundtable,
		IsSystemLocked:  st.IsSystemLocked,
		Display:         st.Display,
		YoutubeEmbedURL: display.YouTubeEmbedURL(st.Display.YoutubeVideoID),
		BackgroundMedia: display.GetMediaInfo(st.Display.BackgroundMusicURL),
	}
}
