package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// ContactMessagesKey holds the contact-form messages a patient sent.
	ContactMessagesKey = "@contact_messages"
	// ExpertQuestionsKey holds the questions a patient asked the experts.
	ExpertQuestionsKey = "@expert_questions"
	// MinQuestionLength is counted in characters after trimming.
	MinQuestionLength = 10
)

// ExpertCategories lists the topics a question can be filed under.
var ExpertCategories = []string{
	"Kemoterapi Yan Etkileri",
	"Beslenme ve Diyet",
	"Psikolojik Destek",
	"İlaç Kullanımı",
	"Egzersiz ve Fizik Tedavi",
	"Diğer",
}

const (
	MissingFields    ValidationCode = "missing_fields"
	InvalidEmail     ValidationCode = "invalid_email"
	MissingCategory  ValidationCode = "missing_category"
	UnknownCategory  ValidationCode = "unknown_category"
	QuestionTooShort ValidationCode = "question_too_short"
)

var (
	ErrMissingFields    = &ValidationError{Code: MissingFields}
	ErrInvalidEmail     = &ValidationError{Code: InvalidEmail}
	ErrMissingCategory  = &ValidationError{Code: MissingCategory}
	ErrUnknownCategory  = &ValidationError{Code: UnknownCategory}
	ErrQuestionTooShort = &ValidationError{Code: QuestionTooShort}
)

// ContactInput is the contact form as submitted.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate requires every field and an e-mail containing "@".
func (in ContactInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Message) == "" {
		return ErrMissingFields
	}
	if !strings.Contains(in.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

// QuestionInput is a written question for the expert team.
type QuestionInput struct {
	Category string `json:"category"`
	Question string `json:"question"`
}

// Validate checks the category first, then the question length.
func (in QuestionInput) Validate() error {
	if in.Category == "" {
		return ErrMissingCategory
	}
	if !slices.Contains(ExpertCategories, in.Category) {
		return ErrUnknownCategory
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Question)) < MinQuestionLength {
		return ErrQuestionTooShort
	}
	return nil
}

// ExpertQuestion is a stored question.
type ExpertQuestion struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Question string    `json:"question"`
	AskedAt  time.Time `json:"askedAt"`
}
