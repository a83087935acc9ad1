package display

import (
	"regexp"
	"strings"
)

type MediaType int

const (
	MediaTypeNone MediaType = iota
	MediaTypeYouTube
	MediaTypeAudio
	MediaTypeVideo
	MediaTypeIframe
)

type MediaInfo struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url,omitempty"`
}

var (
	youtubeLinkRegex = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	youtubeIDRegex   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// YouTubeVideoID accepts a watch, short or embed link, or an already bare id.
func YouTubeVideoID(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if youtubeIDRegex.MatchString(link) {
		return link, true
	}
	if m := youtubeLinkRegex.FindStringSubmatch(link); m != nil {
		return m[1], true
	}
	return "", false
}

func YouTubeEmbedURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + videoID + "?autoplay=1&mute=1&loop=1&playlist=" + videoID
}

// GetMediaInfo decides how the display page should embed a background link.
func GetMediaInfo(link string) MediaInfo {
	link = strings.TrimSpace(link)
	if link == "" {
		return MediaInfo{Type: MediaTypeNone}
	}

	if id, ok := YouTubeVideoID(link); ok && strings.Contains(link, "youtu") {
		return MediaInfo{Type: MediaTypeYouTube, URL: YouTubeEmbedURL(id)}
	}

	lower := strings.ToLower(link)
	if i := strings.IndexAny(lower, "?#"); i != -1 {
		lower = lower[:i]
	}
	for _, ext := range []string{".mp3", ".wav", ".ogg", ".m4a"} {
		if strings.HasSuffix(lower, ext) {
			return MediaInfo{Type: MediaTypeAudio, URL: link}
		}
	}
	for _, ext := range []string{".mp4", ".webm", ".mov"} {
		if strings.HasSuffix(lower, ext) {
			return MediaInfo{Type: MediaTypeVideo, URL: link}
		}
	}

	// Anything else gets a generic iframe
	return MediaInfo{Type: MediaTypeIframe, URL: link}
}
