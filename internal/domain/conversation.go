package domain

import "time"

// Language codes a conversation may negotiate.
const (
	LanguageEnglish = "en"
	LanguageDari    = "fa"
	LanguagePashto  = "ps"
)

// SupportedLanguages is the fixed set of codes accepted by the API.
var SupportedLanguages = []string{LanguageEnglish, LanguageDari, LanguagePashto}

func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// Conversation correlates the turns of one caller-chosen session. At most one
// row exists per session_id; user_language is overwritten when a later turn
// arrives with a different language.
type Conversation struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	UserLanguage string    `json:"user_language"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
