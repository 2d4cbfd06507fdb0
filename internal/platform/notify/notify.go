// Package notify carries user-facing notices ("toasts") from handlers to the
// client. Every mutating endpoint answers with an Envelope whose Notice
// describes the outcome in Spanish.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notice struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func Success(title, description string) Notice {
	return Notice{Level: LevelSuccess, Title: title, Description: description}
}

func Error(description string) Notice {
	return Notice{Level: LevelError, Title: "Error", Description: description}
}

// Envelope is the response body of endpoints that report a notice.
type Envelope struct {
	Data   interface{} `json:"data,omitempty"`
	Notice *Notice     `json:"notice,omitempty"`
}

func Wrap(data interface{}, n Notice) Envelope {
	return Envelope{Data: data, Notice: &n}
}

// Notifier receives every notice sent to a client.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// LogNotifier records notices in the structured log.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notice) {
	evt := l.logger.Info()
	if n.Level == LevelError {
		evt = l.logger.Warn()
	}
	evt.Str("notice_level", string(n.Level)).
		Str("title", n.Title).
		Str("description", n.Description).
		Msg("notice")
}

// Recorder keeps notices in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(ctx context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice, or the zero Notice.
func (r *Recorder) Last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}
