package challenge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/simagents/internal/scenario"
)

// ErrUnsupportedChallenge is returned for challenge values with no variant.
var ErrUnsupportedChallenge = errors.New("unsupported challenge type")

// Type selects the benchmark variant.
type Type int

const (
	// SimAgents scores closed-loop rollouts against the logged future. The
	// self-driving car is simulated and always evaluated.
	SimAgents Type = iota + 1
	// ScenarioGen scores generated scenes with no one-to-one log
	// correspondence. The self-driving car is conditioning context only.
	ScenarioGen

	// New types go above; numTypes must stay last.
	numTypes
)

// Types returns every declared challenge type in declaration order.
func Types() []Type {
	out := make([]Type, 0, numTypes-1)
	for t := SimAgents; t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case SimAgents:
		return "sim_agents"
	case ScenarioGen:
		return "scenario_gen"
	default:
		return fmt.Sprintf("challenge(%d)", int(t))
	}
}

// ParseType maps a name (as printed by String, underscores optional) to a
// Type.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types() {
		if name == t.String() || name == strings.ReplaceAll(t.String(), "_", "") {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedChallenge, s)
}

// Config holds the fixed numeric constants of a variant.
type Config struct {
	NSimulationSteps    int     // Future steps every simulated trajectory must carry
	NRollouts           int     // Joint scenes per scenario submission
	CurrentTimeIndex    int     // Last logged step given to the simulator as context
	StepDurationSeconds float64 // Seconds between consecutive steps
}

// HistorySteps is the number of logged steps up to and including the current
// time index.
func (c Config) HistorySteps() int { return c.CurrentTimeIndex + 1 }

// Variant carries every piece of behaviour that differs between challenge
// types.
type Variant interface {
	Type() Type
	Config() Config
	// IsValidSimAgent reports whether a track must be simulated.
	IsValidSimAgent(track scenario.Track) bool
	// NominatesEvaluation reports whether only the scenario's
	// tracks-to-predict are scored (as opposed to every sim agent).
	NominatesEvaluation() bool
	// EvaluatesSDC reports whether the self-driving car is always scored.
	EvaluatesSDC() bool
	// HasLogCorrespondence reports whether simulated objects map one-to-one
	// onto logged futures, enabling history trimming and displacement error.
	HasLogCorrespondence() bool
}

var (
	simAgentsConfig = Config{
		NSimulationSteps:    80,
		NRollouts:           32,
		CurrentTimeIndex:    10,
		StepDurationSeconds: 0.1,
	}
	scenarioGenConfig = Config{
		NSimulationSteps:    80,
		NRollouts:           32,
		CurrentTimeIndex:    10,
		StepDurationSeconds: 0.1,
	}
)

type simAgentsVariant struct{}

func (simAgentsVariant) Type() Type     { return SimAgents }
func (simAgentsVariant) Config() Config { return simAgentsConfig }
func (simAgentsVariant) IsValidSimAgent(track scenario.Track) bool {
	return track.ValidAt(simAgentsConfig.CurrentTimeIndex)
}
func (simAgentsVariant) NominatesEvaluation() bool  { return true }
func (simAgentsVariant) EvaluatesSDC() bool         { return true }
func (simAgentsVariant) HasLogCorrespondence() bool { return true }

type scenarioGenVariant struct{}

func (scenarioGenVariant) Type() Type     { return ScenarioGen }
func (scenarioGenVariant) Config() Config { return scenarioGenConfig }
func (scenarioGenVariant) IsValidSimAgent(track scenario.Track) bool {
	return !track.IsSDC && track.ValidAt(scenarioGenConfig.CurrentTimeIndex)
}
func (scenarioGenVariant) NominatesEvaluation() bool  { return false }
func (scenarioGenVariant) EvaluatesSDC() bool         { return false }
func (scenarioGenVariant) HasLogCorrespondence() bool { return false }

// Lookup returns the behaviour for t, or ErrUnsupportedChallenge. Every
// value returned by Types must have a case here.
func Lookup(t Type) (Variant, error) {
	switch t {
	case SimAgents:
		return simAgentsVariant{}, nil
	case ScenarioGen:
		return scenarioGenVariant{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedChallenge, t)
}

// ConfigFor is shorthand for Lookup(t) followed by Config.
func ConfigFor(t Type) (Config, error) {
	v, err := Lookup(t)
	if err != nil {
		return Config{}, err
	}
	return v.Config(), nil
}
