package app

import (
	"culture-millionaire/internal/domain"
	"culture-millionaire/internal/i18n"
)

// GameView is the language-resolved snapshot a UI renders.
type GameView struct {
	Language         domain.Language   `json:"language"`
	LanguageCode     string            `json:"languageCode"`
	Round            uint64            `json:"round"`
	Phase            domain.Phase      `json:"phase"`
	Question         QuestionView      `json:"question"`
	CurrentPrize     int               `json:"currentPrize"`
	SafePrize        int               `json:"safePrize"`
	AccumulatedPrize int               `json:"accumulatedPrize"`
	Lifelines        []LifelineView    `json:"lifelines"`
	AudiencePoll     map[string]int    `json:"audiencePoll,omitempty"`
	Ladder           []LadderStepView  `json:"ladder"`
	Modal            *ModalView        `json:"modal,omitempty"`
	Labels           map[string]string `json:"labels"`
}

type QuestionView struct {
	ID               string       `json:"id"`
	Index            int          `json:"index"`
	Number           int          `json:"number"`
	Total            int          `json:"total"`
	Text             string       `json:"text"`
	Prize            int          `json:"prize"`
	Options          []OptionView `json:"options"`
	SelectedOptionID string       `json:"selectedOptionId,omitempty"`
	RevealAnswer     bool         `json:"revealAnswer"`
	CorrectOptionID  string       `json:"correctOptionId,omitempty"` // only once revealed
}

type OptionView struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Text       string `json:"text"`
	Eliminated bool   `json:"eliminated"`
	Selected   bool   `json:"selected"`
}

type LifelineView struct {
	Kind      domain.LifelineKind `json:"kind"`
	Name      string              `json:"name"`
	Available bool                `json:"available"`
}

type LadderStepView struct {
	Index   int    `json:"index"`
	Prize   int    `json:"prize"`
	Amount  string `json:"amount"`
	Safe    bool   `json:"safe"`
	Current bool   `json:"current"`
	Cleared bool   `json:"cleared"`
}

type ModalView struct {
	Kind    domain.ModalKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Button  string           `json:"button"`
}

// Snapshot renders the live round in lang.
func (e *Engine) Snapshot(lang domain.Language) GameView {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	view := GameView{
		Language:         lang,
		LanguageCode:     lang.Code(),
		Round:            e.generation,
		Phase:            st.Phase,
		Question:         e.questionViewLocked(lang),
		CurrentPrize:     domain.PrizeAt(st.CurrentIndex),
		SafePrize:        domain.SafePrizeWon(st.CurrentIndex),
		AccumulatedPrize: domain.AccumulatedPrize(st.Phase, st.CurrentIndex),
		Labels:           e.labels(lang),
	}

	for _, kind := range domain.LifelineKinds {
		view.Lifelines = append(view.Lifelines, LifelineView{
			Kind:      kind,
			Name:      e.loc.LifelineName(kind, lang),
			Available: st.Lifelines[kind],
		})
	}
	if len(st.AudiencePoll) > 0 {
		view.AudiencePoll = copyPoll(st.AudiencePoll)
	}

	for i, prize := range domain.PrizeLadder() {
		view.Ladder = append(view.Ladder, LadderStepView{
			Index:   i,
			Prize:   prize,
			Amount:  e.loc.FormatAmount(lang, prize),
			Safe:    domain.IsSafeLevel(i),
			Current: i == st.CurrentIndex,
			Cleared: i < st.CurrentIndex || st.Phase == domain.PhaseWon,
		})
	}

	if st.Modal != nil {
		view.Modal = e.modalViewLocked(*st.Modal, lang)
	}
	return view
}

func (e *Engine) questionViewLocked(lang domain.Language) QuestionView {
	st := e.state
	q := st.current()
	qv := QuestionView{
		ID:               q.ID,
		Index:            q.Index,
		Number:           q.Index + 1,
		Total:            len(st.Questions),
		Text:             q.Text.In(lang),
		Prize:            q.Prize,
		SelectedOptionID: st.SelectedOptionID,
		RevealAnswer:     st.RevealAnswer,
	}
	if st.RevealAnswer {
		qv.CorrectOptionID = q.CorrectOptionID
	}
	for i, opt := range q.Options {
		_, eliminated := st.Eliminated[opt.ID]
		qv.Options = append(qv.Options, OptionView{
			ID:         opt.ID,
			Label:      domain.OptionLabel(i),
			Text:       opt.Text.In(lang),
			Eliminated: eliminated,
			Selected:   opt.ID == st.SelectedOptionID,
		})
	}
	return qv
}

func (e *Engine) modalViewLocked(m domain.Modal, lang domain.Language) *ModalView {
	mv := &ModalView{Kind: m.Kind, Button: e.loc.Text(i18n.KeyModalContinue, lang)}
	if e.state.Phase.Terminal() {
		mv.Button = e.loc.Text(i18n.KeyModalPlayAgain, lang)
	}
	switch m.Kind {
	case domain.ModalLifeline:
		mv.Title = e.loc.LifelineTitle(m.Lifeline, lang)
		mv.Message = e.loc.LifelineMessage(m.Lifeline, lang, m.Hint.In(lang))
	case domain.ModalWin:
		mv.Title = e.loc.WinTitle(lang)
		mv.Message = e.loc.WinMessage(lang, m.Amount)
	case domain.ModalGameOver:
		mv.Title = e.loc.GameOverTitle(lang)
		mv.Message = e.loc.GameOverMessage(lang, m.CorrectAnswer.In(lang), m.Amount)
	case domain.ModalCashOut:
		mv.Title = e.loc.WithdrawTitle(lang)
		mv.Message = e.loc.WithdrawMessage(lang, m.Amount)
	}
	return mv
}

func (e *Engine) labels(lang domain.Language) map[string]string {
	keys := map[string]i18n.Key{
		"title":           i18n.KeyGameTitle,
		"winnings":        i18n.KeyWinningsLabel,
		"cashOut":         i18n.KeyCashOutButton,
		"prizeLadder":     i18n.KeyPrizeLadder,
		"currentPrize":    i18n.KeyCurrentPrize,
		"safeLevel":       i18n.KeySafeLevel,
		"eliminated":      i18n.KeyEliminated,
		"lifelines":       i18n.KeyLifelinesTitle,
		"menu":            i18n.KeyMenuBack,
		"menuTitleTop":    i18n.KeyMenuTitleTop,
		"menuTitleBottom": i18n.KeyMenuTitleBottom,
		"play":            i18n.KeyPlayButton,
		"leaderboard":     i18n.KeyLeaderboard,
		"settings":        i18n.KeySettings,
		"howToPlay":       i18n.KeyHowToPlay,
	}
	out := make(map[string]string, len(keys))
	for name, key := range keys {
		out[name] = e.loc.Text(key, lang)
	}
	return out
}
