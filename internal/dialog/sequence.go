package dialog

import "errors"

// ErrSequenceRunning - сценарий уже идёт
var ErrSequenceRunning = errors.New("dialog: sequence already running")

// Outcome - чем закончился сценарий
type Outcome int

const (
	// OutcomeCompleted - все шаги пройдены, на все вопросы дан верный ответ
	OutcomeCompleted Outcome = iota
	// OutcomeWrongAnswer - неверный ответ, реплика wrongAnswer показана
	OutcomeWrongAnswer
	// OutcomeAborted - диалог был занят, шаг не показан
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeWrongAnswer:
		return "wrong_answer"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Sequence проигрывает шаги по одному: текст продвигается по завершении показа,
// вопрос ветвится по верности ответа. Между шагами управление возвращается в цикл.
type Sequence struct {
	steps    []Step
	hud      HUD
	current  int
	running  bool
	onFinish func(Outcome)
}

// NewSequence создаёт сценарий
func NewSequence(steps []Step, hud HUD) *Sequence {
	return &Sequence{steps: steps, hud: hud}
}

// Start запускает сценарий с первого шага
func (s *Sequence) Start(onFinish func(Outcome)) error {
	if s.running {
		return ErrSequenceRunning
	}
	s.running = true
	s.current = 0
	s.onFinish = onFinish
	s.show()
	return nil
}

// Running сообщает, идёт ли сценарий
func (s *Sequence) Running() bool { return s.running }

// Current возвращает индекс текущего шага
func (s *Sequence) Current() int { return s.current }

// Len возвращает число шагов
func (s *Sequence) Len() int { return len(s.steps) }

func (s *Sequence) show() {
	if s.current >= len(s.steps) {
		s.finish(OutcomeCompleted)
		return
	}

	step := s.steps[s.current]
	switch step.Kind() {
	case StepText:
		if !s.hud.Monolog().ShowTextToPlayer(step.Text, s.next) {
			s.finish(OutcomeAborted)
		}
	case StepQuestion:
		q := *step.Question
		s.hud.Questions().ShowQuestionToPlayer(q, func(a Answer) {
			if a.Good {
				s.next()
				return
			}
			s.wrongAnswer(q)
		})
	default:
		s.next()
	}
}

func (s *Sequence) next() {
	s.current++
	s.show()
}

func (s *Sequence) wrongAnswer(q Question) {
	if q.WrongAnswer == "" {
		s.finish(OutcomeWrongAnswer)
		return
	}
	shown := s.hud.Monolog().ShowTextToPlayer(q.WrongAnswer, func() {
		s.finish(OutcomeWrongAnswer)
	})
	if !shown {
		s.finish(OutcomeWrongAnswer)
	}
}

func (s *Sequence) finish(o Outcome) {
	s.running = false
	cb := s.onFinish
	s.onFinish = nil
	if cb != nil {
		cb(o)
	}
}
