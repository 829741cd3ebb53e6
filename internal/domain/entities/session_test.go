package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamProgressInvariants(t *testing.T) {
	p := NewExamProgress(3).WithQuestions([]int{10, 11, 12})
	require.NoError(t, p.Validate())

	for i, id := range []int{10, 11, 12} {
		cur, ok := p.CurrentQuizID()
		require.True(t, ok)
		assert.Equal(t, id, cur)

		p = p.Record(cur, OutcomeCorrect)
		require.NoError(t, p.Validate())
		assert.Equal(t, i+1, p.CurrentIndex)
		assert.Len(t, p.Results, p.CurrentIndex)
		assert.LessOrEqual(t, p.CurrentIndex, p.MaxIndex)
	}

	assert.False(t, p.HasNext())
	_, ok := p.CurrentQuizID()
	assert.False(t, ok)
	assert.Equal(t, 3, p.CorrectCount())
}

func TestExamProgressValueSemantics(t *testing.T) {
	base := NewExamProgress(2).WithQuestions([]int{1, 2})

	next := base.Record(1, OutcomeIncorrect).Finish()

	assert.Equal(t, 0, base.CurrentIndex)
	assert.Empty(t, base.Results)
	assert.False(t, base.IsFinished)
	assert.True(t, next.IsFinished)
}

func TestWithQuestionsNeverReplaces(t *testing.T) {
	p := NewExamProgress(3).WithQuestions([]int{3, 1})

	again := p.WithQuestions([]int{9, 9, 9})

	assert.Equal(t, []int{3, 1}, again.QuestionIDs)
	assert.Equal(t, 2, again.MaxIndex, "max index follows the number of questions actually fetched")
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		p    ExamProgress
	}{
		{"negative max", ExamProgress{MaxIndex: -1}},
		{"index past max", ExamProgress{MaxIndex: 1, CurrentIndex: 2, Results: make([]ResultEntry, 2)}},
		{"results mismatch", ExamProgress{MaxIndex: 2, CurrentIndex: 1}},
		{"ids mismatch", ExamProgress{MaxIndex: 2, QuestionIDs: []int{1}}},
		{"unknown outcome", ExamProgress{MaxIndex: 1, CurrentIndex: 1, Results: []ResultEntry{{QuizID: 1, Outcome: "meh"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.p.Validate(), ErrInvalidProgress)
		})
	}
}

func TestChapterSelectionWrittenOnce(t *testing.T) {
	st := SessionState{}.WithChapterSelection(ChapterSelection{ChapterCode: "A", QuestionCount: 3})

	st = st.WithChapterSelection(ChapterSelection{ChapterCode: "C", QuestionCount: 7})

	assert.Equal(t, "A", st.ChapterSelection.ChapterCode)
	assert.Equal(t, 3, st.ChapterSelection.QuestionCount)
}

func TestJudge(t *testing.T) {
	item := QuizItem{
		CorrectAnswers: []string{"結腸", "横行結腸"},
		PartialAnswers: []string{"大腸"},
	}

	tests := []struct {
		answer  string
		want    Verdict
		outcome Outcome
	}{
		{"結腸", VerdictCorrect, OutcomeCorrect},
		{" 横行結腸 ", VerdictCorrect, OutcomeCorrect},
		{"大腸", VerdictClose, OutcomeIncorrect},
		{"胃", VerdictIncorrect, OutcomeIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got := item.Judge(tt.answer)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.outcome, got.Outcome())
		})
	}
	assert.Equal(t, "結腸", item.CanonicalAnswer())
}

func TestQuizItemValidate(t *testing.T) {
	valid := QuizItem{ID: 1, ChapterCode: "A", Prompt: "q", Kind: KindChoiceBool, CorrectAnswers: []string{AnswerYes}}
	require.NoError(t, valid.Validate())

	image := valid
	image.Kind = KindImage
	assert.ErrorIs(t, image.Validate(), ErrInvalidQuizItem)
	image.ImageURL = "https://example.com/x.jpg"
	assert.NoError(t, image.Validate())

	stray := valid
	stray.ImageURL = "https://example.com/x.jpg"
	assert.ErrorIs(t, stray.Validate(), ErrInvalidQuizItem)

	badChapter := valid
	badChapter.ChapterCode = "Z"
	assert.ErrorIs(t, badChapter.Validate(), ErrInvalidQuizItem)

	noAnswer := valid
	noAnswer.CorrectAnswers = nil
	assert.ErrorIs(t, noAnswer.Validate(), ErrInvalidQuizItem)
}
