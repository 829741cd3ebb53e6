package loader

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

var ErrMissingColumn = errors.New("missing column")

func parseJSON(r io.Reader) ([]entities.QuizItem, error) {
	var items []entities.QuizItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	for i := range items {
		items[i].ChapterCode = entities.NormalizeChapterCode(items[i].ChapterCode)
	}
	return items, nil
}

// typeSuffix matches the attribute type marker of table exports, as in "id (N)".
var typeSuffix = regexp.MustCompile(`\s*\([A-Z]{1,4}\)$`)

var requiredColumns = []string{"id", "chapter_code", "q", "kind", "a"}

func parseCSV(r io.Reader, delimiter rune) ([]entities.QuizItem, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[typeSuffix.ReplaceAllString(name, "")] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var items []entities.QuizItem
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		id, err := strconv.Atoi(field("id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: id: %w", line, err)
		}
		a, err := parseList(field("a"))
		if err != nil {
			return nil, fmt.Errorf("line %d: a: %w", line, err)
		}
		secondary, err := parseList(field("secondary_a"))
		if err != nil {
			return nil, fmt.Errorf("line %d: secondary_a: %w", line, err)
		}

		items = append(items, entities.QuizItem{
			ID:             id,
			ChapterCode:    entities.NormalizeChapterCode(field("chapter_code")),
			Prompt:         field("q"),
			Kind:           entities.QuizKind(field("kind")),
			CorrectAnswers: a,
			PartialAnswers: secondary,
			Explanation:    field("comment"),
			ImageURL:       field("image"),
			Hint:           field("hint"),
		})
	}

	return items, nil
}

// parseList reads a JSON array of strings, a typed export list such as
// [{"S":"はい"}], or a "|"-separated list.
func parseList(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	if !strings.HasPrefix(s, "[") {
		parts := strings.Split(s, "|")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}

	var plain []string
	if err := json.Unmarshal([]byte(s), &plain); err == nil {
		return plain, nil
	}

	var typed []map[string]string
	if err := json.Unmarshal([]byte(s), &typed); err != nil {
		return nil, fmt.Errorf("unreadable list %q", s)
	}
	out := make([]string, 0, len(typed))
	for _, v := range typed {
		out = append(out, v["S"])
	}
	return out, nil
}
