package cfg

import (
	"cmp"
)

type Cfg struct {
	// Application configuration
	Port           string
	CategoriesFile string

	// Generation API configuration
	GeminiAPIKey string
	GoogleAPIKey string
	GeminiModel  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// APIKey returns the generation API credential, preferring
// GEMINI_API_KEY over GOOGLE_API_KEY. Empty when neither is set; the
// service then runs without tagging.
func (c *Cfg) APIKey() string {
	return cmp.Or(c.GeminiAPIKey, c.GoogleAPIKey)
}
