package memory

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/logging"
	"github.com/mrz1836/olympus/internal/store"
)

// System bundles the three tiers over one backend.
type System struct {
	Working  *Working
	Episodic *Episodic
	Semantic *Semantic
}

// NewSystem wires all tiers to backend. A nil clock means the real clock.
func NewSystem(backend store.Backend, logger zerolog.Logger, clk clock.Clock) *System {
	if clk == nil {
		clk = clock.RealClock{}
	}
	logger = logging.Component(logger, "memory")
	return &System{
		Working:  NewWorking(logger, clk),
		Episodic: NewEpisodic(backend, logger),
		Semantic: NewSemantic(backend, logger, clk),
	}
}
