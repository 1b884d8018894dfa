package overseer

import (
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/overseer/pkg/game"
)

// Sink consumes the ordered event stream of a game: a position snapshot
// after every accepted move, the outcome of every turn cycle, and the
// final result. Sinks are observational only; the overseer swallows
// their panics and never lets them block or fail the game.
type Sink interface {
	PositionChanged(id string, fenstr string)
	TurnCompleted(id string, outcome TurnOutcome)
	GameEnded(id string, result game.Result)
}

// LogSink renders game events through logrus. It is the default Sink.
type LogSink struct{}

var _ Sink = LogSink{}

func (LogSink) PositionChanged(id string, fenstr string) {
	logrus.Debugf("game %s: position %s", id, fenstr)
}

func (LogSink) TurnCompleted(id string, outcome TurnOutcome) {
	switch outcome.Kind {
	case Accepted:
		logrus.Infof("game %s: %s plays %s", id, outcome.Side, outcome.Move)
	case IllegalReply:
		logrus.Warnf("game %s: %s replied %q: %s (cycle %d)",
			id, outcome.Side, outcome.Raw, outcome.Reason, outcome.Cycle)
	case ProviderError:
		logrus.Errorf("game %s: %s: %s", id, outcome.Side, outcome.Reason)
	case RetriesExhausted:
		logrus.Errorf("game %s: %s produced no legal move, giving up", id, outcome.Side)
	}
}

func (LogSink) GameEnded(id string, result game.Result) {
	logrus.Infof("game %s: over: %s", id, result)
}
