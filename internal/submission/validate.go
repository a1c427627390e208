package submission

import (
	"errors"
	"fmt"
	"slices"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/scenario"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid submission")

// ErrorKind names the violated contract.
type ErrorKind string

const (
	KindObjectSetMismatch    ErrorKind = "object_set_mismatch"
	KindDuplicateObject      ErrorKind = "duplicate_object"
	KindLengthMismatch       ErrorKind = "length_mismatch"
	KindRolloutCountMismatch ErrorKind = "rollout_count_mismatch"
	KindScenarioIDMismatch   ErrorKind = "scenario_id_mismatch"
)

// ValidationError is a structural violation meant to be shown to the
// submitter unchanged.
type ValidationError struct {
	Kind ErrorKind
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationErrorf(kind ErrorKind, format string, args ...any) error {
	return &ValidationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a wrapped *ValidationError, or "".
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

// maxListedIDs bounds how many offending IDs an error message spells out.
const maxListedIDs = 10

// ValidateJointScene checks that js simulates exactly the scenario's sim
// agents, each for exactly the variant's number of steps.
func ValidateJointScene(js JointScene, sc *scenario.Scenario, t challenge.Type) error {
	v, err := challenge.Lookup(t)
	if err != nil {
		return err
	}
	return validateJointScene(js, sc, v)
}

func validateJointScene(js JointScene, sc *scenario.Scenario, v challenge.Variant) error {
	required := simAgentIDs(sc, v)
	requiredSet := make(map[int]struct{}, len(required))
	for _, id := range required {
		requiredSet[id] = struct{}{}
	}

	got := make(map[int]struct{}, len(js.Trajectories))
	var unexpected []int
	for _, traj := range js.Trajectories {
		if _, dup := got[traj.ObjectID]; dup {
			return validationErrorf(KindDuplicateObject, "object %d is simulated more than once", traj.ObjectID)
		}
		got[traj.ObjectID] = struct{}{}
		if _, ok := requiredSet[traj.ObjectID]; !ok {
			unexpected = append(unexpected, traj.ObjectID)
		}
	}
	var missing []int
	for _, id := range required {
		if _, ok := got[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		slices.Sort(unexpected)
		return validationErrorf(KindObjectSetMismatch,
			"joint scene objects do not match the %d required sim agents (missing %v, unexpected %v)",
			len(required), truncateIDs(missing), truncateIDs(unexpected))
	}

	want := v.Config().NSimulationSteps
	for _, traj := range js.Trajectories {
		for _, n := range traj.Lengths() {
			if n != want {
				return validationErrorf(KindLengthMismatch,
					"object %d has a trajectory of %d steps, want %d", traj.ObjectID, n, want)
			}
		}
	}
	return nil
}

// ValidateScenarioRollouts checks the scenario ID, the rollout count and
// then every joint scene.
func ValidateScenarioRollouts(sr ScenarioRollouts, sc *scenario.Scenario, t challenge.Type) error {
	v, err := challenge.Lookup(t)
	if err != nil {
		return err
	}
	if sr.ScenarioID == "" {
		return validationErrorf(KindScenarioIDMismatch, "scenario rollouts carry no scenario ID")
	}
	if sr.ScenarioID != sc.ID {
		return validationErrorf(KindScenarioIDMismatch, "scenario ID %q does not match scenario %q", sr.ScenarioID, sc.ID)
	}
	if want := v.Config().NRollouts; len(sr.JointScenes) != want {
		return validationErrorf(KindRolloutCountMismatch, "got %d joint scenes, want %d", len(sr.JointScenes), want)
	}
	for i, js := range sr.JointScenes {
		if err := validateJointScene(js, sc, v); err != nil {
			return fmt.Errorf("joint scene %d: %w", i, err)
		}
	}
	return nil
}

func truncateIDs(ids []int) string {
	if len(ids) <= maxListedIDs {
		return fmt.Sprint(ids)
	}
	return fmt.Sprintf("%v and %d more", ids[:maxListedIDs], len(ids)-maxListedIDs)
}
