// Package session converts the core's session state to and from the
// string-valued attribute bag the caller persists between turns.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// AttributeKey is the attribute holding the serialized state.
const AttributeKey = "quizSession"

// Attribute keys written by earlier versions, one JSON document per sub-state.
const (
	legacyUserKey    = "userInfo"
	legacyChapterKey = "chapterInfo"
	legacyExamKey    = "examState"
)

var ErrMalformed = errors.New("malformed session state")

type envelope struct {
	Version int `json:"v"`
	entities.SessionState
}

const currentVersion = 1

// Decode reads the session state from attrs. Missing keys yield an empty
// state; unreadable or inconsistent payloads yield ErrMalformed.
func Decode(attrs map[string]string) (entities.SessionState, error) {
	raw, ok := attrs[AttributeKey]
	if !ok || raw == "" {
		return decodeLegacy(attrs)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return entities.SessionState{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Version != currentVersion {
		return entities.SessionState{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, env.Version)
	}
	if err := check(env.SessionState); err != nil {
		return entities.SessionState{}, err
	}

	return env.SessionState, nil
}

// Encode returns a new attribute map: attrs without the keys owned by this
// package, plus the serialized state. An empty state writes no key.
func Encode(attrs map[string]string, st entities.SessionState) (map[string]string, error) {
	out := maps.Clone(attrs)
	if out == nil {
		out = make(map[string]string)
	}
	delete(out, legacyUserKey)
	delete(out, legacyChapterKey)
	delete(out, legacyExamKey)
	delete(out, AttributeKey)

	if st.IsEmpty() {
		return out, nil
	}

	data, err := json.Marshal(envelope{Version: currentVersion, SessionState: st})
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	out[AttributeKey] = string(data)

	return out, nil
}

// Clear returns the attribute map of a finished session.
func Clear() map[string]string {
	return map[string]string{}
}

func check(st entities.SessionState) error {
	if c := st.ChapterSelection; c != nil {
		if !entities.IsChapterCode(c.ChapterCode) || c.QuestionCount <= 0 {
			return fmt.Errorf("%w: chapter selection %+v", ErrMalformed, *c)
		}
	}
	if p := st.ExamProgress; p != nil {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return nil
}
