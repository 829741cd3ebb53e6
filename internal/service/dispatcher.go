package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
	"github.com/aliskhannn/quiz-fulfillment/internal/session"
)

// IntentName is the closed set of intents the bot fulfills.
type IntentName string

const (
	IntentWelcome      IntentName = "Welcome"
	IntentCheckChapter IntentName = "CheckChapter"
	IntentStartQuiz    IntentName = "StartQuiz"
)

// Intents lists every IntentName.
var Intents = []IntentName{IntentWelcome, IntentCheckChapter, IntentStartQuiz}

// ParseIntentName maps a platform intent name to an IntentName.
func ParseIntentName(name string) (IntentName, bool) {
	n := IntentName(name)
	return n, slices.Contains(Intents, n)
}

var ErrUnknownIntent = errors.New("unknown intent")

// UnknownIntentError reports a turn for an intent no handler serves.
type UnknownIntentError struct {
	Name string
}

func (e *UnknownIntentError) Error() string {
	return fmt.Sprintf("intent %q not supported", e.Name)
}

func (e *UnknownIntentError) Is(target error) bool {
	return target == ErrUnknownIntent
}

// Turn is the input of a handler: the event and the decoded session state.
// Handlers must not modify either.
type Turn struct {
	Event dialog.Event
	State entities.SessionState
}

// Reply is the output of a handler. The dispatcher writes State into the
// response's session attributes, or clears them when EndSession is set.
type Reply struct {
	Response   dialog.Response
	State      entities.SessionState
	EndSession bool
}

// Handler fulfills one intent.
type Handler interface {
	Handle(ctx context.Context, turn Turn) (Reply, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, turn Turn) (Reply, error)

func (f HandlerFunc) Handle(ctx context.Context, turn Turn) (Reply, error) {
	return f(ctx, turn)
}

// Dispatcher routes turns to intent handlers and owns the session codec.
type Dispatcher struct {
	handlers map[IntentName]Handler
	tr       Translator
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher. Every IntentName must have a handler.
func NewDispatcher(handlers map[IntentName]Handler, tr Translator, logger *zap.Logger) (*Dispatcher, error) {
	for _, name := range Intents {
		if handlers[name] == nil {
			return nil, fmt.Errorf("no handler for intent %s", name)
		}
	}
	for name := range handlers {
		if _, ok := ParseIntentName(string(name)); !ok {
			return nil, fmt.Errorf("handler registered for %w %q", ErrUnknownIntent, name)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		handlers: handlers,
		tr:       tr,
		logger:   logger,
	}, nil
}

// New wires the three quiz handlers into a Dispatcher.
func New(repo QuizRepository, tr Translator, opts Options, logger *zap.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	validator := NewValidator(opts.QuestionCounts, tr)
	cards := NewCardBuilder(tr, opts)

	return NewDispatcher(map[IntentName]Handler{
		IntentWelcome:      NewWelcomeHandler(tr),
		IntentCheckChapter: NewChapterHandler(validator, cards, tr),
		IntentStartQuiz:    NewQuizHandler(repo, NewQuizSelector(repo), validator, cards, tr, logger),
	}, tr, logger)
}

// Dispatch handles one turn. It fails for unknown intents and for errors the
// handler cannot recover from, such as missing quiz content.
func (d *Dispatcher) Dispatch(ctx context.Context, ev dialog.Event) (dialog.Response, error) {
	d.logger.Debug("dispatch",
		zap.String("session_id", ev.SessionID),
		zap.String("intent", ev.IntentName()),
		zap.String("source", string(ev.InvocationSource)),
	)

	name, ok := ParseIntentName(ev.IntentName())
	if !ok {
		return dialog.Response{}, &UnknownIntentError{Name: ev.IntentName()}
	}

	st, err := session.Decode(ev.Attributes())
	if err != nil {
		d.logger.Warn("session state reset", zap.String("session_id", ev.SessionID), zap.Error(err))
		return dialog.ElicitIntent(ev, session.Clear(), []dialog.Message{
			dialog.PlainText(d.tr.T("SessionReset")),
		}, nil), nil
	}

	reply, err := d.handlers[name].Handle(ctx, Turn{Event: ev, State: st})
	if err != nil {
		return dialog.Response{}, fmt.Errorf("handle %s: %w", name, err)
	}

	attrs := session.Clear()
	if !reply.EndSession {
		attrs, err = session.Encode(ev.Attributes(), reply.State)
		if err != nil {
			return dialog.Response{}, fmt.Errorf("handle %s: %w", name, err)
		}
	}

	resp := reply.Response
	resp.SessionState.SessionAttributes = attrs
	return resp, nil
}

func displayName(st entities.SessionState, tr Translator) string {
	if st.UserProfile != nil && st.UserProfile.UserName != "" {
		return st.UserProfile.UserName
	}
	return tr.T("Anonymous")
}
