package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// flexInt accepts both 3 and "3"; the old attributes stored slot values verbatim.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %s", data)
	}
	*n = flexInt(v)
	return nil
}

type legacyChapter struct {
	ChapterCode string  `json:"chapter_code"`
	QuestionNum flexInt `json:"question_num"`
}

type legacyExam struct {
	IsFinished bool      `json:"is_finished"`
	MaxNum     flexInt   `json:"max_num"`
	CurrentNum flexInt   `json:"current_num"`
	QList      []flexInt `json:"q_list"`
	Results    []struct {
		ID     flexInt `json:"id"`
		Result string  `json:"result"`
	} `json:"results"`
}

// decodeLegacy reads the three per-sub-state keys of the previous format.
func decodeLegacy(attrs map[string]string) (entities.SessionState, error) {
	var st entities.SessionState

	if name := attrs[legacyUserKey]; name != "" {
		st.UserProfile = &entities.UserProfile{UserName: name}
	}

	if raw := attrs[legacyChapterKey]; raw != "" && raw != "{}" {
		var c legacyChapter
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return entities.SessionState{}, fmt.Errorf("%w: %s: %v", ErrMalformed, legacyChapterKey, err)
		}
		st.ChapterSelection = &entities.ChapterSelection{
			ChapterCode:   entities.NormalizeChapterCode(c.ChapterCode),
			QuestionCount: int(c.QuestionNum),
		}
	}

	if raw := attrs[legacyExamKey]; raw != "" {
		var e legacyExam
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return entities.SessionState{}, fmt.Errorf("%w: %s: %v", ErrMalformed, legacyExamKey, err)
		}
		p := entities.ExamProgress{
			IsFinished:   e.IsFinished,
			MaxIndex:     int(e.MaxNum),
			CurrentIndex: int(e.CurrentNum),
			Results:      make([]entities.ResultEntry, 0, len(e.Results)),
			QuestionIDs:  make([]int, 0, len(e.QList)),
		}
		for _, r := range e.Results {
			p.Results = append(p.Results, entities.ResultEntry{QuizID: int(r.ID), Outcome: entities.Outcome(r.Result)})
		}
		for _, id := range e.QList {
			p.QuestionIDs = append(p.QuestionIDs, int(id))
		}
		st.ExamProgress = &p
	}

	if err := check(st); err != nil {
		return entities.SessionState{}, err
	}

	return st, nil
}
