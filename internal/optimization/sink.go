package optimization

import "github.com/rs/zerolog"

// StatusSink receives human-readable progress events. Implementations must not
// expect their failures to affect the flow.
type StatusSink interface {
	Notify(text string)
}

// SinkFunc adapts a function to StatusSink.
type SinkFunc func(text string)

func (f SinkFunc) Notify(text string) { f(text) }

type NopSink struct{}

func (NopSink) Notify(string) {}

// LogSink writes every event to a zerolog logger at info level.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "status_sink").Logger()}
}

func (s *LogSink) Notify(text string) {
	s.log.Info().Msg(text)
}

// MultiSink fans an event out to every sink in order.
type MultiSink []StatusSink

func (m MultiSink) Notify(text string) {
	for _, s := range m {
		s.Notify(text)
	}
}

type guardedSink struct {
	sink StatusSink
	log  zerolog.Logger
}

func (g guardedSink) Notify(text string) {
	if g.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			g.log.Warn().Interface("panic", r).Str("event", text).Msg("status sink panicked")
		}
	}()
	g.sink.Notify(text)
}
