package entities

import (
	"slices"
	"strings"
)

// Chapter codes of the quiz content.
const (
	ChapterA = "A"
	ChapterB = "B"
	ChapterC = "C"
)

// ChapterCodes is the closed set of selectable chapters, in display order.
var ChapterCodes = []string{ChapterA, ChapterB, ChapterC}

// DefaultQuestionCounts is the allowed set of question counts when none is configured.
var DefaultQuestionCounts = []int{3, 5, 7}

// IsChapterCode reports whether code is a known chapter (case-sensitive).
func IsChapterCode(code string) bool {
	return slices.Contains(ChapterCodes, code)
}

// NormalizeChapterCode upper-cases and trims a user-supplied chapter code.
func NormalizeChapterCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ChapterSelection is the chapter and quiz length chosen for a session.
// It is written once per session and read-only afterwards.
type ChapterSelection struct {
	ChapterCode   string `json:"chapterCode"`
	QuestionCount int    `json:"questionCount"`
}

// UserProfile holds what the session knows about the user.
type UserProfile struct {
	UserName string `json:"userName"`
}
