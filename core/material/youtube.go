package material

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/darasa-lms/darasa/core"
)

var (
	youtubeURLTag  = "youtubeurl"
	youtubeURLText = "invalid YouTube URL"

	youtubeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
	}
)

func init() {
	_ = core.Validate.RegisterValidation(youtubeURLTag, youtubeURLValidation)
	core.RegisterCustomTranslation(youtubeURLTag, youtubeURLText)
}

func youtubeURLValidation(fl validator.FieldLevel) bool {
	return IsValidYouTubeURL(fl.Field().String())
}

// ExtractYouTubeID pulls the video ID out of any of the supported YouTube URL
// forms (watch, short, embed, /v/). Returns "" when the URL does not match.
func ExtractYouTubeID(url string) string {
	for _, pattern := range youtubeIDPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

func IsValidYouTubeURL(url string) bool {
	return ExtractYouTubeID(url) != ""
}

// YouTubeEmbedURL returns the embeddable player URL, or "" for invalid URLs.
func YouTubeEmbedURL(url string) string {
	if id := ExtractYouTubeID(url); id != "" {
		return "https://www.youtube.com/embed/" + id
	}
	return ""
}

// YouTubeThumbnailURL returns the max resolution thumbnail URL, or "" for invalid URLs.
func YouTubeThumbnailURL(url string) string {
	if id := ExtractYouTubeID(url); id != "" {
		return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
	}
	return ""
}
