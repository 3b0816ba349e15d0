package session

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var instruments = newInstruments()

type sessionInstruments struct {
	gamesStarted  metric.Int64Counter
	roundsPlayed  metric.Int64Counter
	gamesFinished metric.Int64Counter
}

// newInstruments registers the counters on the global meter provider, which
// forwards to the SDK once telemetry is initialised.
func newInstruments() sessionInstruments {
	meter := otel.Meter("session")
	return sessionInstruments{
		gamesStarted:  counter(meter, "games.started", "Games begun by StartGame or NewGame"),
		roundsPlayed:  counter(meter, "rounds.played", "Accepted moves"),
		gamesFinished: counter(meter, "games.finished", "Games ending in a win or a tie, by result"),
	}
}

func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return c
}
