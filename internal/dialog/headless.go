package dialog

import (
	"github.com/annel0/tileworld/internal/logging"
	"github.com/sirupsen/logrus"
)

// AnswerStrategy выбирает ответ вместо игрока
type AnswerStrategy func(q Question) Answer

// AnswerGood выбирает первый верный ответ
func AnswerGood(q Question) Answer {
	for _, a := range q.Answers {
		if a.Good {
			return a
		}
	}
	return AnswerFirst(q)
}

// AnswerFirst выбирает первый ответ
func AnswerFirst(q Question) Answer {
	if len(q.Answers) == 0 {
		return Answer{}
	}
	return q.Answers[0]
}

// AnswerWrong выбирает первый неверный ответ
func AnswerWrong(q Question) Answer {
	for _, a := range q.Answers {
		if !a.Good {
			return a
		}
	}
	return AnswerFirst(q)
}

// ParseAnswerStrategy разбирает имя стратегии: good, first, wrong
func ParseAnswerStrategy(name string) (AnswerStrategy, bool) {
	switch name {
	case "", "good":
		return AnswerGood, true
	case "first":
		return AnswerFirst, true
	case "wrong":
		return AnswerWrong, true
	default:
		return nil, false
	}
}

// HeadlessHUD - HUD без отрисовки. Текст считается прочитанным,
// вопрос отвеченным на следующем тике (Pump).
type HeadlessHUD struct {
	strategy   AnswerStrategy
	logger     *logging.Logger
	visible    bool
	pending    []func()
	transcript []string
}

// NewHeadlessHUD создаёт HUD; nil-стратегия выбирает верные ответы
func NewHeadlessHUD(strategy AnswerStrategy, logger *logging.Logger) *HeadlessHUD {
	if strategy == nil {
		strategy = AnswerGood
	}
	if logger == nil {
		logger = logging.GetComponentLogger("hud")
	}
	return &HeadlessHUD{strategy: strategy, logger: logger}
}

func (h *HeadlessHUD) Monolog() MonologDialog     { return h }
func (h *HeadlessHUD) Questions() QuestionDialog { return h }

// SetStrategy меняет стратегию ответов
func (h *HeadlessHUD) SetStrategy(strategy AnswerStrategy) {
	if strategy != nil {
		h.strategy = strategy
	}
}

// ShowTextToPlayer показывает текст, если диалог свободен
func (h *HeadlessHUD) ShowTextToPlayer(text string, onComplete func()) bool {
	if h.visible {
		return false
	}
	h.visible = true
	h.transcript = append(h.transcript, text)
	h.logger.WithField("text", text).Info("monolog")

	h.pending = append(h.pending, func() {
		h.visible = false
		if onComplete != nil {
			onComplete()
		}
	})
	return true
}

// ShowQuestionToPlayer задаёт вопрос; ответ выбирается стратегией
func (h *HeadlessHUD) ShowQuestionToPlayer(q Question, onAnswer func(Answer)) {
	h.visible = true
	answer := h.strategy(q)
	h.transcript = append(h.transcript, q.Title)
	h.logger.WithFields(logrus.Fields{
		"question": q.Title,
		"answer":   answer.Text,
		"good":     answer.Good,
	}).Info("question")

	h.pending = append(h.pending, func() {
		h.visible = false
		if onAnswer != nil {
			onAnswer(answer)
		}
	})
}

// Pump завершает диалоги, открытые до этого вызова.
// Диалоги, открытые из колбэков, завершатся на следующем тике.
func (h *HeadlessHUD) Pump() {
	batch := h.pending
	h.pending = nil
	for _, fn := range batch {
		fn()
	}
}

// Visible сообщает, открыт ли диалог
func (h *HeadlessHUD) Visible() bool { return h.visible }

// Pending возвращает число ожидающих завершения диалогов
func (h *HeadlessHUD) Pending() int { return len(h.pending) }

// Transcript возвращает все показанные тексты и вопросы
func (h *HeadlessHUD) Transcript() []string {
	out := make([]string, len(h.transcript))
	copy(out, h.transcript)
	return out
}
