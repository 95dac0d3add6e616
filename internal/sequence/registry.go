package sequence

import (
	"fmt"
	"time"

	"github.com/garyjia/invoice-labeler/internal/models"
	"go.uber.org/zap"
)

// Clock returns the current time. Injected so year rollover can be tested.
type Clock func() time.Time

// Number is a value issued by the registry
type Number struct {
	Value int `json:"value"`
	Year  int `json:"year"`
}

// Format renders the number as zero-padded value and year, e.g. "007/2025"
func (n Number) Format() string {
	return fmt.Sprintf("%03d/%d", n.Value, n.Year)
}

// Registry keeps the last issued number per sequence key for one working
// session. It is not safe for concurrent use; callers serialise access.
type Registry struct {
	states map[string]models.SequenceState
	now    Clock
	logger *zap.Logger
}

// NewRegistry creates an empty registry using the wall clock
func NewRegistry(logger *zap.Logger) *Registry {
	return NewRegistryWithClock(time.Now, logger)
}

// NewRegistryWithClock creates an empty registry with a custom clock
func NewRegistryWithClock(now Clock, logger *zap.Logger) *Registry {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		states: make(map[string]models.SequenceState),
		now:    now,
		logger: logger,
	}
}

// ObserveHistorical raises the watermark for key to value/year. Lower or equal
// values never replace what is stored, so imports may arrive in any order.
func (r *Registry) ObserveHistorical(key Key, value, year int) bool {
	id := key.String()
	current, ok := r.states[id]
	if ok && value <= current.LastValue {
		return false
	}

	r.states[id] = models.SequenceState{LastValue: value, LastYear: year}
	r.logger.Debug("Sequence watermark raised",
		zap.String("key", id),
		zap.Int("value", value),
		zap.Int("year", year))
	return true
}

// AssignNext advances the counter for key and returns the issued number.
// There is no undo: every call consumes a number.
func (r *Registry) AssignNext(key Key) Number {
	year := r.now().Year()
	id := key.String()

	state, ok := r.states[id]
	switch {
	case !ok:
		state = models.SequenceState{LastValue: 1, LastYear: year}
	case state.LastYear == year:
		state.LastValue++
	default:
		// New calendar year restarts numbering
		state.LastValue = 1
		state.LastYear = year
	}
	r.states[id] = state

	r.logger.Info("Sequence number assigned",
		zap.String("key", id),
		zap.Int("value", state.LastValue),
		zap.Int("year", state.LastYear))

	return Number{Value: state.LastValue, Year: state.LastYear}
}

// State returns the stored state for key
func (r *Registry) State(key Key) (models.SequenceState, bool) {
	state, ok := r.states[key.String()]
	return state, ok
}

// Len returns the number of keys tracked
func (r *Registry) Len() int {
	return len(r.states)
}
