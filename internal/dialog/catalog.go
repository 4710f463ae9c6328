package dialog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrDialogNotFound    = errors.New("dialog: not found")
	ErrEmptyText         = errors.New("dialog: empty text")
	ErrEmptyQuestioning  = errors.New("dialog: empty questioning")
	ErrInvalidStep       = errors.New("dialog: invalid step")
	ErrQuestionNoAnswers = errors.New("dialog: question without answers")
)

// Entry - запись каталога: простой текст и/или сценарий вопросов
type Entry struct {
	Text        string `yaml:"text,omitempty"`
	Questioning []Step `yaml:"questioning,omitempty"`
}

// Catalog - именованные реплики уровня
type Catalog struct {
	entries map[string]Entry
}

// NewCatalog создаёт каталог из готовых записей
func NewCatalog(entries map[string]Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for name, e := range entries {
		c.entries[name] = e
	}
	return c
}

// ParseCatalog разбирает YAML-каталог и проверяет шаги сценариев
func ParseCatalog(data []byte) (*Catalog, error) {
	entries := make(map[string]Entry)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dialogs: %w", err)
	}
	for name, e := range entries {
		if err := validateSteps(e.Questioning); err != nil {
			return nil, fmt.Errorf("dialog %q: %w", name, err)
		}
	}
	return &Catalog{entries: entries}, nil
}

// LoadCatalog читает каталог из файла
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogs %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func validateSteps(steps []Step) error {
	for i, s := range steps {
		switch s.Kind() {
		case StepInvalid:
			return fmt.Errorf("%w at %d", ErrInvalidStep, i)
		case StepQuestion:
			if len(s.Question.Answers) == 0 {
				return fmt.Errorf("%w at %d", ErrQuestionNoAnswers, i)
			}
		}
	}
	return nil
}

// Len возвращает число записей
func (c *Catalog) Len() int { return len(c.entries) }

// Text возвращает текст записи name
func (c *Catalog) Text(name string) (string, error) {
	e, ok := c.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDialogNotFound, name)
	}
	if e.Text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyText, name)
	}
	return e.Text, nil
}

// Questioning возвращает сценарий вопросов записи name
func (c *Catalog) Questioning(name string) ([]Step, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDialogNotFound, name)
	}
	if len(e.Questioning) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyQuestioning, name)
	}
	steps := make([]Step, len(e.Questioning))
	copy(steps, e.Questioning)
	return steps, nil
}
