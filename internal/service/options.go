package service

import (
	"strconv"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// Slot names of the three intents.
const (
	SlotUserName           = "UserName"
	SlotChapterCode        = "ChapterCode"
	SlotQuestionCount      = "QuestionCount"
	SlotAnswer             = "Answer"
	SlotIsDisplayedResults = "IsDisplayedResults"
	SlotIsCanceled         = "IsCanceled"
)

// SlotTrue is how boolean custom slots arrive: as the string "True".
const SlotTrue = "True"

const (
	DefaultStartUtterance = "Start QuizBot"
	DefaultReadyImageURL  = "https://media.tenor.com/3AtT96QV6AUAAAAC/let-it-begin-hamster.gif"
)

// Options configure the handlers.
type Options struct {
	QuestionCounts []int
	// StartUtterance is the value of the start button; the platform maps it
	// to the StartQuiz intent.
	StartUtterance string
	ReadyImageURL  string
}

func (o Options) withDefaults() Options {
	if len(o.QuestionCounts) == 0 {
		o.QuestionCounts = entities.DefaultQuestionCounts
	}
	if o.StartUtterance == "" {
		o.StartUtterance = DefaultStartUtterance
	}
	if o.ReadyImageURL == "" {
		o.ReadyImageURL = DefaultReadyImageURL
	}
	return o
}

// CardBuilder renders option lists and question cards.
type CardBuilder struct {
	tr   Translator
	opts Options
}

// NewCardBuilder creates a CardBuilder.
func NewCardBuilder(tr Translator, opts Options) *CardBuilder {
	return &CardBuilder{tr: tr, opts: opts.withDefaults()}
}

// SlotOptions returns the buttons offered when slot has to be elicited again.
func (c *CardBuilder) SlotOptions(slot string) []dialog.Button {
	switch slot {
	case SlotChapterCode:
		buttons := make([]dialog.Button, 0, len(entities.ChapterCodes))
		for _, code := range entities.ChapterCodes {
			buttons = append(buttons, dialog.Button{Text: c.tr.T("ChapterTitle" + code), Value: code})
		}
		return buttons
	case SlotQuestionCount:
		buttons := make([]dialog.Button, 0, len(c.opts.QuestionCounts))
		for _, n := range c.opts.QuestionCounts {
			buttons = append(buttons, dialog.Button{
				Text:  c.tr.Td("CountLabel", map[string]any{"Count": n}),
				Value: strconv.Itoa(n),
			})
		}
		return buttons
	case SlotIsDisplayedResults:
		return []dialog.Button{
			{Text: c.tr.T("ButtonShowResults"), Value: SlotTrue},
			{Text: c.tr.T("ButtonHideResults"), Value: "False"},
		}
	default:
		return c.yesNo()
	}
}

func (c *CardBuilder) yesNo() []dialog.Button {
	return []dialog.Button{
		{Text: c.tr.T("ButtonYes"), Value: entities.AnswerYes},
		{Text: c.tr.T("ButtonNo"), Value: entities.AnswerNo},
	}
}

// SelectCard asks the user to pick a value for slot.
func (c *CardBuilder) SelectCard(slot string) *dialog.Message {
	return dialog.ButtonCard(
		c.tr.T("CardChooseOne"),
		c.tr.Td("CardSelectTitle", map[string]any{"Slot": slot}),
		c.tr.T("CardSelectSubtitle"),
		c.SlotOptions(slot),
	)
}

// ConfirmCard is the yes/no card of the chapter summary.
func (c *CardBuilder) ConfirmCard() *dialog.Message {
	return dialog.ButtonCard(c.tr.T("CardChooseOne"), c.tr.T("ConfirmTitle"), c.tr.T("ConfirmSubtitle"), c.yesNo())
}

// ReadyCard is the image card with the start and decline buttons.
func (c *CardBuilder) ReadyCard(userName string) *dialog.Message {
	return dialog.ImageCard(
		c.tr.T("CardChooseOne"),
		c.tr.T("ReadyTitle"),
		c.tr.Td("ReadySubtitle", map[string]any{"UserName": userName}),
		c.opts.ReadyImageURL,
		[]dialog.Button{
			{Text: c.tr.T("ButtonStart"), Value: c.opts.StartUtterance},
			{Text: c.tr.T("ButtonDecline"), Value: entities.AnswerNo},
		},
	)
}

// ResultsCard offers to show or skip the results.
func (c *CardBuilder) ResultsCard() *dialog.Message {
	title := c.tr.T("CardSelectSubtitle")
	return dialog.ButtonCard(c.tr.T("CardChooseOne"), title, title, c.SlotOptions(SlotIsDisplayedResults))
}

// Heading is the question line, numbered from 1.
func (c *CardBuilder) Heading(item entities.QuizItem, index int) string {
	return c.tr.Td("QuestionHeading", map[string]any{"Number": index + 1, "Text": item.Prompt})
}

// QuestionCard presents item as question index (0-based). Yes/no questions
// get buttons, image questions show their picture, others are free text.
func (c *CardBuilder) QuestionCard(item entities.QuizItem, index int, subtitle string) *dialog.Message {
	heading := c.Heading(item, index)
	switch item.Kind {
	case entities.KindChoiceBool:
		return dialog.ButtonCard(heading, heading, subtitle, c.yesNo())
	case entities.KindImage:
		return dialog.ImageCard(heading, heading, subtitle, item.ImageURL, nil)
	default:
		return dialog.ButtonCard(heading, heading, subtitle, nil)
	}
}

// HintSubtitle is the card subtitle carrying the item's hint.
func (c *CardBuilder) HintSubtitle(item entities.QuizItem) string {
	return c.tr.Td("Hint", map[string]any{"Hint": item.Hint})
}
