package domain

import (
	"fmt"
	"strings"
)

// Language identifies one of the supported presentation languages.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

// ParseLanguage accepts "es"/"en" in any case.
func ParseLanguage(raw string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case LanguageSpanish:
		return LanguageSpanish, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
}

// Code is the short uppercase label shown on the language toggle.
func (l Language) Code() string {
	return strings.ToUpper(string(l))
}

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == LanguageEnglish {
		return LanguageSpanish
	}
	return LanguageEnglish
}

// LocalizedText holds the same text in every supported language.
type LocalizedText struct {
	ES string `json:"es" yaml:"es"`
	EN string `json:"en" yaml:"en"`
}

// In returns the text for lang, falling back to Spanish.
func (t LocalizedText) In(lang Language) string {
	if lang == LanguageEnglish && t.EN != "" {
		return t.EN
	}
	return t.ES
}

// BankEntry is a question as authored in the bank, before it is bound to a round.
type BankEntry struct {
	ID      string          `json:"id" yaml:"id"`
	Text    LocalizedText   `json:"text" yaml:"text"`
	Options []LocalizedText `json:"options" yaml:"options"`
	Answer  int             `json:"answer" yaml:"answer"` // index into Options
	Hint    LocalizedText   `json:"hint" yaml:"hint"`
}

// Option is one answer choice of a round question. IDs are minted per round.
type Option struct {
	ID   string        `json:"id"`
	Text LocalizedText `json:"text"`
}

// Question is a bank entry bound to a ladder position. Options are stored in display order.
type Question struct {
	ID              string        `json:"id"`
	SourceID        string        `json:"sourceId"`
	Text            LocalizedText `json:"text"`
	Hint            LocalizedText `json:"hint"`
	Options         []Option      `json:"options"`
	CorrectOptionID string        `json:"correctOptionId"`
	Prize           int           `json:"prize"`
	Index           int           `json:"index"`
}

// Option looks up an option by id.
func (q Question) Option(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// CorrectOption returns the option referenced by CorrectOptionID.
func (q Question) CorrectOption() Option {
	opt, _ := q.Option(q.CorrectOptionID)
	return opt
}

// Label returns the display label ("A".."D") of an option, or "" if absent.
func (q Question) Label(id string) string {
	for i, opt := range q.Options {
		if opt.ID == id {
			return OptionLabel(i)
		}
	}
	return ""
}

// OptionLabel maps a display position to its letter.
func OptionLabel(position int) string {
	return string(rune('A' + position))
}

// LifelineKind names a single-use aid.
type LifelineKind string

const (
	LifelineFiftyFifty LifelineKind = "fiftyFifty"
	LifelineExpert     LifelineKind = "expert"
	LifelineAudience   LifelineKind = "audience"
)

// LifelineKinds lists every lifeline in display order.
var LifelineKinds = []LifelineKind{LifelineFiftyFifty, LifelineExpert, LifelineAudience}

// ParseLifelineKind validates a lifeline name coming from a client.
func ParseLifelineKind(raw string) (LifelineKind, error) {
	for _, kind := range LifelineKinds {
		if string(kind) == raw {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: unknown lifeline %q", ErrLifelineUnavailable, raw)
}

// LifelineSet maps each lifeline to whether it can still be used.
type LifelineSet map[LifelineKind]bool

// NewLifelineSet returns a set with every lifeline available.
func NewLifelineSet() LifelineSet {
	set := make(LifelineSet, len(LifelineKinds))
	for _, kind := range LifelineKinds {
		set[kind] = true
	}
	return set
}

// Clone copies the set.
func (s LifelineSet) Clone() LifelineSet {
	out := make(LifelineSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Phase is the state of the round state machine.
type Phase string

const (
	PhasePlaying   Phase = "playing"
	PhaseAnswering Phase = "answering"
	PhaseGameOver  Phase = "gameOver"
	PhaseWon       Phase = "won"
)

// Terminal reports whether the phase ends the round.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseWon
}

// ModalKind tells the localization layer which message to build.
type ModalKind string

const (
	ModalLifeline ModalKind = "lifeline"
	ModalWin      ModalKind = "win"
	ModalGameOver ModalKind = "gameOver"
	ModalCashOut  ModalKind = "cashOut"
)

// Modal is a staged message in language-neutral form.
type Modal struct {
	Kind          ModalKind
	Lifeline      LifelineKind
	Amount        int
	Hint          LocalizedText
	CorrectAnswer LocalizedText
}
