// Package dialog описывает границу ядра с UI диалогов: монологи, вопросы,
// каталог реплик и пошаговый сценарий допроса.
package dialog

// Answer - вариант ответа на вопрос
type Answer struct {
	Text string `yaml:"text"`
	Good bool   `yaml:"good,omitempty"`
}

// Question - вопрос с вариантами ответа и репликой на неверный ответ
type Question struct {
	Title       string   `yaml:"title"`
	Answers     []Answer `yaml:"answers"`
	WrongAnswer string   `yaml:"wrongAnswer"`
}

// StepKind - тип шага сценария
type StepKind int

const (
	StepInvalid StepKind = iota
	StepText
	StepQuestion
)

// Step - шаг сценария: либо текст, либо вопрос
type Step struct {
	Text     string    `yaml:"text,omitempty"`
	Question *Question `yaml:"question,omitempty"`
}

// Kind определяет тип шага
func (s Step) Kind() StepKind {
	switch {
	case s.Question != nil && s.Text == "":
		return StepQuestion
	case s.Question == nil && s.Text != "":
		return StepText
	default:
		return StepInvalid
	}
}

// MonologDialog показывает текст игроку.
// Возвращает false, если диалог занят: тогда onComplete не будет вызван.
type MonologDialog interface {
	ShowTextToPlayer(text string, onComplete func()) bool
}

// QuestionDialog задаёт вопрос и сообщает выбранный ответ
type QuestionDialog interface {
	ShowQuestionToPlayer(q Question, onAnswer func(Answer))
}

// HUD - набор диалогов интерфейса
type HUD interface {
	Monolog() MonologDialog
	Questions() QuestionDialog
}
