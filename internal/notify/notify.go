package notify

import (
	"context"

	"github.com/kdquach/thetrois-backend/pkg/enums"
	"github.com/kdquach/thetrois-backend/pkg/logger"
)

// Message is a user-facing notice. Delivery is fire-and-forget; callers never
// depend on the outcome.
type Message struct {
	Type   enums.NoticeType
	Title  string
	Detail string
}

// Sink receives user-facing notices.
type Sink interface {
	Notify(ctx context.Context, msg Message)
}

// LogSink emits notices into the structured log, where the app shell picks
// them up and renders toasts.
type LogSink struct {
	logg *logger.Logger
}

// NewLogSink builds a sink writing to the provided logger.
func NewLogSink(logg *logger.Logger) *LogSink {
	return &LogSink{logg: logg}
}

func (s *LogSink) Notify(ctx context.Context, msg Message) {
	if s == nil || s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"notice_type":   msg.Type.String(),
		"notice_title":  msg.Title,
		"notice_detail": msg.Detail,
	})
	if msg.Type == enums.NoticeError {
		s.logg.Warn(ctx, "notice.emitted")
		return
	}
	s.logg.Info(ctx, "notice.emitted")
}
