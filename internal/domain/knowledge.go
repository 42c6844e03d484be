package domain

import "time"

// Knowledge base categories.
const (
	CategoryBalance   = "balance"
	CategoryPackages  = "packages"
	CategoryCoverage  = "coverage"
	CategorySIM       = "sim"
	CategoryTechnical = "technical"
)

var KnowledgeCategories = []string{
	CategoryBalance,
	CategoryPackages,
	CategoryCoverage,
	CategorySIM,
	CategoryTechnical,
}

func IsKnowledgeCategory(category string) bool {
	for _, c := range KnowledgeCategories {
		if c == category {
			return true
		}
	}
	return false
}

// KnowledgeEntry holds a support question and its answer in the three service
// languages. Entries are maintained for the support team; the reply path never
// reads them.
type KnowledgeEntry struct {
	ID             string    `json:"id"`
	QuestionEN     string    `json:"question_en"`
	QuestionDari   string    `json:"question_dari"`
	QuestionPashto string    `json:"question_pashto"`
	AnswerEN       string    `json:"answer_en"`
	AnswerDari     string    `json:"answer_dari"`
	AnswerPashto   string    `json:"answer_pashto"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
}
