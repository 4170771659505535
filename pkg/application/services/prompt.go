package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vsinha/ims/pkg/domain/entities"
)

// ErrCancelled is returned when the user declines a confirmation
var ErrCancelled = errors.New("operation cancelled")

// Answer is the user's reply to a confirmation prompt
type Answer int

const (
	No Answer = iota
	Yes
	Cancel
)

// String method for Answer enum
func (a Answer) String() string {
	switch a {
	case No:
		return "No"
	case Yes:
		return "Yes"
	case Cancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Prompt is a confirmation shown before an operation with side effects.
// AllowCancel offers a third answer besides Yes and No.
type Prompt struct {
	Title       string
	Header      string
	Message     string
	AllowCancel bool
}

// Prompter asks the user to confirm something
type Prompter interface {
	Confirm(prompt Prompt) Answer
}

// StaticPrompter gives the same answer to every prompt and remembers what it
// was asked
type StaticPrompter struct {
	Answer Answer
	Asked  []Prompt
}

// Confirm records prompt and returns the fixed answer. Cancel is downgraded to
// No on prompts that do not offer it.
func (p *StaticPrompter) Confirm(prompt Prompt) Answer {
	p.Asked = append(p.Asked, prompt)
	if p.Answer == Cancel && !prompt.AllowCancel {
		return No
	}
	return p.Answer
}

// ScriptedPrompter replays a fixed sequence of answers, then answers No
type ScriptedPrompter struct {
	Answers []Answer
	Asked   []Prompt
}

// Confirm records prompt and returns the next scripted answer
func (p *ScriptedPrompter) Confirm(prompt Prompt) Answer {
	p.Asked = append(p.Asked, prompt)
	if len(p.Asked) > len(p.Answers) {
		return No
	}
	return p.Answers[len(p.Asked)-1]
}

// productList renders `1 product named "X"` or an "N products:" bullet list
func productList(products []*entities.Product) string {
	if len(products) == 1 {
		return `1 product named "` + products[0].Name() + `"`
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(products)))
	b.WriteString(" products:")
	for _, p := range products {
		b.WriteString("\n- ")
		b.WriteString(p.Name())
	}
	return b.String()
}
