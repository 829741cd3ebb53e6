package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// QuizHandler runs the quiz: it presents questions, judges answers and
// finally shows the results.
type QuizHandler struct {
	repo      QuizRepository
	selector  *QuizSelector
	validator *Validator
	cards     *CardBuilder
	tr        Translator
	logger    *zap.Logger
}

// NewQuizHandler creates a QuizHandler. A nil logger discards logs.
func NewQuizHandler(
	repo QuizRepository,
	selector *QuizSelector,
	validator *Validator,
	cards *CardBuilder,
	tr Translator,
	logger *zap.Logger,
) *QuizHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizHandler{
		repo:      repo,
		selector:  selector,
		validator: validator,
		cards:     cards,
		tr:        tr,
		logger:    logger,
	}
}

// Handle advances the quiz by one turn.
func (h *QuizHandler) Handle(ctx context.Context, turn Turn) (Reply, error) {
	ev := turn.Event
	st := turn.State

	sel := st.ChapterSelection
	if sel == nil {
		return Reply{
			Response: dialog.ElicitIntent(ev, nil, []dialog.Message{dialog.PlainText(h.tr.T("ChapterMissing"))}, nil),
			State:    st,
		}, nil
	}

	progress := entities.NewExamProgress(sel.QuestionCount)
	if st.ExamProgress != nil {
		progress = *st.ExamProgress
	}
	dialogPhase := ev.InvocationSource == dialog.DialogCodeHook

	if v, ok := ev.SlotValue(SlotIsCanceled); dialogPhase && ok && v == SlotTrue {
		h.logger.Info("quiz canceled", zap.String("session_id", ev.SessionID), zap.Int("index", progress.CurrentIndex))
		return h.end(ev, dialog.PlainText(h.tr.T("QuizCanceled"))), nil
	}

	if progress.IsFinished {
		v, ok := ev.SlotValue(SlotIsDisplayedResults)
		switch {
		case !ok:
			return Reply{Response: dialog.Delegate(ev, nil, ev.Slots()), State: st}, nil
		case v == SlotTrue:
			return h.results(ev, st, progress), nil
		default:
			return h.end(ev, dialog.PlainText(h.tr.T("FarewellNoResults"))), nil
		}
	}

	if !dialogPhase {
		return Reply{Response: dialog.Delegate(ev, nil, ev.Slots()), State: st}, nil
	}

	if answer, ok := ev.SlotValue(SlotAnswer); ok && progress.HasQuestions() {
		return h.answer(ctx, turn, *sel, progress, answer)
	}
	return h.present(ctx, turn, *sel, progress)
}

// present fixes the question sequence if needed and asks the current question.
func (h *QuizHandler) present(ctx context.Context, turn Turn, sel entities.ChapterSelection, progress entities.ExamProgress) (Reply, error) {
	ev := turn.Event

	if !progress.HasQuestions() {
		ids, err := h.selector.SelectQuestions(ctx, sel.ChapterCode, sel.QuestionCount)
		if err != nil {
			return Reply{}, err
		}
		progress = progress.WithQuestions(ids)
		h.logger.Debug("quiz set selected",
			zap.String("session_id", ev.SessionID),
			zap.String("chapter", sel.ChapterCode),
			zap.Ints("ids", progress.QuestionIDs),
		)
	}

	item, err := h.current(ctx, sel, progress)
	if err != nil {
		return Reply{}, err
	}

	slots := dialog.WithSlot(ev.Slots(), SlotAnswer, nil)
	return Reply{
		Response: dialog.ElicitSlot(ev, nil, slots, SlotAnswer,
			[]dialog.Message{
				dialog.PlainText(h.tr.Td("QuizFrom", map[string]any{"Chapter": sel.ChapterCode})),
				dialog.CustomPayload(h.cards.Heading(*item, progress.CurrentIndex)),
			},
			h.cards.QuestionCard(*item, progress.CurrentIndex, h.cards.HintSubtitle(*item)),
		),
		State: turn.State.WithExamProgress(progress),
	}, nil
}

// answer judges the answer to the current question and moves on.
func (h *QuizHandler) answer(
	ctx context.Context,
	turn Turn,
	sel entities.ChapterSelection,
	progress entities.ExamProgress,
	answer string,
) (Reply, error) {
	ev := turn.Event
	slots := dialog.WithSlot(ev.Slots(), SlotAnswer, nil)

	item, err := h.current(ctx, sel, progress)
	if err != nil {
		return Reply{}, err
	}

	if res := h.validator.Answer(answer, item.Kind); !res.IsValid {
		return Reply{
			Response: dialog.ElicitSlot(ev, nil, slots, SlotAnswer,
				[]dialog.Message{dialog.PlainText(res.Message)},
				h.cards.QuestionCard(*item, progress.CurrentIndex, res.Message),
			),
			State: turn.State.WithExamProgress(progress),
		}, nil
	}

	verdict := item.Judge(answer)
	progress = progress.Record(item.ID, verdict.Outcome())
	judged := dialog.CustomPayload(h.verdictMessage(*item, verdict))

	h.logger.Debug("answer judged",
		zap.String("session_id", ev.SessionID),
		zap.Int("quiz_id", item.ID),
		zap.String("outcome", string(verdict.Outcome())),
	)

	if !progress.HasNext() {
		progress = progress.Finish()
		user := displayName(turn.State, h.tr)
		return Reply{
			Response: dialog.ElicitSlot(ev, nil, slots, SlotIsDisplayedResults,
				[]dialog.Message{
					judged,
					dialog.CustomPayload(h.tr.Td("QuizFinished", map[string]any{"UserName": user})),
				},
				h.cards.ResultsCard(),
			),
			State: turn.State.WithExamProgress(progress),
		}, nil
	}

	next, err := h.current(ctx, sel, progress)
	if err != nil {
		return Reply{}, err
	}

	return Reply{
		Response: dialog.ElicitSlot(ev, nil, slots, SlotAnswer,
			[]dialog.Message{
				judged,
				dialog.CustomPayload(h.cards.Heading(*next, progress.CurrentIndex)),
			},
			h.cards.QuestionCard(*next, progress.CurrentIndex, h.cards.HintSubtitle(*next)),
		),
		State: turn.State.WithExamProgress(progress),
	}, nil
}

// results closes the session with the score.
func (h *QuizHandler) results(ev dialog.Event, st entities.SessionState, progress entities.ExamProgress) Reply {
	correct := progress.CorrectCount()

	remark := "RemarkPartial"
	switch correct {
	case progress.MaxIndex:
		remark = "RemarkAllCorrect"
	case 0:
		remark = "RemarkZeroCorrect"
	}

	tally := h.tr.Td("ResultsTally", map[string]any{
		"UserName": displayName(st, h.tr),
		"Max":      progress.MaxIndex,
		"Correct":  correct,
		"Remark":   h.tr.T(remark),
	})

	return h.end(ev,
		dialog.CustomPayload(tally),
		dialog.PlainText(h.tr.T("Goodbye")),
	)
}

func (h *QuizHandler) end(ev dialog.Event, msgs ...dialog.Message) Reply {
	return Reply{
		Response:   dialog.Close(ev, nil, dialog.StateFulfilled, msgs),
		EndSession: true,
	}
}

func (h *QuizHandler) current(ctx context.Context, sel entities.ChapterSelection, progress entities.ExamProgress) (*entities.QuizItem, error) {
	id, ok := progress.CurrentQuizID()
	if !ok {
		return nil, fmt.Errorf("no question at index %d of %d", progress.CurrentIndex, progress.MaxIndex)
	}

	item, err := h.repo.GetByChapterAndID(ctx, sel.ChapterCode, id)
	if err != nil {
		return nil, fmt.Errorf("get quiz %s/%d: %w", sel.ChapterCode, id, err)
	}
	return item, nil
}

func (h *QuizHandler) verdictMessage(item entities.QuizItem, v entities.Verdict) string {
	data := map[string]any{"Answer": item.CanonicalAnswer(), "Comment": item.Explanation}
	switch v {
	case entities.VerdictCorrect:
		return h.tr.Td("JudgeCorrect", data)
	case entities.VerdictClose:
		return h.tr.Td("JudgeClose", data)
	default:
		return h.tr.Td("JudgeIncorrect", data)
	}
}
