package trajectory

import (
	"errors"
	"fmt"

	"github.com/banshee-data/simagents/internal/challenge"
	"github.com/banshee-data/simagents/internal/scenario"
	"github.com/banshee-data/simagents/internal/submission"
)

// ErrObjectNotFound is returned when a requested object ID has no
// trajectory.
var ErrObjectNotFound = errors.New("object not found")

// ObjectTrajectories stores per-object step series. Index i of every slice
// refers to the same object, and every inner slice has the same length.
type ObjectTrajectories struct {
	ObjectID   []int
	ObjectType []scenario.ObjectType

	X       [][]float64
	Y       [][]float64
	Z       [][]float64
	Heading [][]float64
	Length  [][]float64
	Width   [][]float64
	Height  [][]float64
	Valid   [][]bool
}

func newObjectTrajectories(n int) ObjectTrajectories {
	return ObjectTrajectories{
		ObjectID:   make([]int, 0, n),
		ObjectType: make([]scenario.ObjectType, 0, n),
		X:          make([][]float64, 0, n),
		Y:          make([][]float64, 0, n),
		Z:          make([][]float64, 0, n),
		Heading:    make([][]float64, 0, n),
		Length:     make([][]float64, 0, n),
		Width:      make([][]float64, 0, n),
		Height:     make([][]float64, 0, n),
		Valid:      make([][]bool, 0, n),
	}
}

// NumObjects returns the number of objects.
func (o ObjectTrajectories) NumObjects() int { return len(o.ObjectID) }

// NumSteps returns the number of steps, or 0 when there are no objects.
func (o ObjectTrajectories) NumSteps() int {
	if len(o.X) == 0 {
		return 0
	}
	return len(o.X[0])
}

// IndexOf returns the position of the first object with the given ID.
func (o ObjectTrajectories) IndexOf(id int) (int, bool) {
	for i, oid := range o.ObjectID {
		if oid == id {
			return i, true
		}
	}
	return -1, false
}

func (o *ObjectTrajectories) appendFrom(src ObjectTrajectories, i int) {
	o.ObjectID = append(o.ObjectID, src.ObjectID[i])
	o.ObjectType = append(o.ObjectType, src.ObjectType[i])
	o.X = append(o.X, src.X[i])
	o.Y = append(o.Y, src.Y[i])
	o.Z = append(o.Z, src.Z[i])
	o.Heading = append(o.Heading, src.Heading[i])
	o.Length = append(o.Length, src.Length[i])
	o.Width = append(o.Width, src.Width[i])
	o.Height = append(o.Height, src.Height[i])
	o.Valid = append(o.Valid, src.Valid[i])
}

// FromScenario returns every track of the scenario over all of its steps.
func FromScenario(sc *scenario.Scenario) ObjectTrajectories {
	out := newObjectTrajectories(len(sc.Tracks))
	for i := range sc.Tracks {
		tr := &sc.Tracks[i]
		n := len(tr.States)
		x, y, z := make([]float64, n), make([]float64, n), make([]float64, n)
		h, l, w, ht := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
		valid := make([]bool, n)
		for s, st := range tr.States {
			x[s], y[s], z[s], h[s] = st.CenterX, st.CenterY, st.CenterZ, st.Heading
			l[s], w[s], ht[s] = st.Length, st.Width, st.Height
			valid[s] = st.Valid
		}
		out.ObjectID = append(out.ObjectID, tr.ID)
		out.ObjectType = append(out.ObjectType, tr.Type)
		out.X = append(out.X, x)
		out.Y = append(out.Y, y)
		out.Z = append(out.Z, z)
		out.Heading = append(out.Heading, h)
		out.Length = append(out.Length, l)
		out.Width = append(out.Width, w)
		out.Height = append(out.Height, ht)
		out.Valid = append(out.Valid, valid)
	}
	return out
}

// GatherObjectsByID returns the objects in exactly the requested order.
// Repeated IDs yield repeated rows. The returned rows share step slices with
// o.
func (o ObjectTrajectories) GatherObjectsByID(ids []int) (ObjectTrajectories, error) {
	index := make(map[int]int, len(o.ObjectID))
	for i, id := range o.ObjectID {
		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}
	out := newObjectTrajectories(len(ids))
	for _, id := range ids {
		i, ok := index[id]
		if !ok {
			return ObjectTrajectories{}, fmt.Errorf("gather object %d: %w", id, ErrObjectNotFound)
		}
		out.appendFrom(o, i)
	}
	return out, nil
}

// Append returns the objects of o followed by those of other. Both must have
// the same number of steps.
func (o ObjectTrajectories) Append(other ObjectTrajectories) ObjectTrajectories {
	out := newObjectTrajectories(o.NumObjects() + other.NumObjects())
	for i := range o.ObjectID {
		out.appendFrom(o, i)
	}
	for i := range other.ObjectID {
		out.appendFrom(other, i)
	}
	return out
}

// SliceSteps returns the steps in [from, to) of every object. The returned
// rows share backing arrays with o.
func (o ObjectTrajectories) SliceSteps(from, to int) ObjectTrajectories {
	out := newObjectTrajectories(o.NumObjects())
	out.ObjectID = append(out.ObjectID, o.ObjectID...)
	out.ObjectType = append(out.ObjectType, o.ObjectType...)
	for i := range o.ObjectID {
		out.X = append(out.X, o.X[i][from:to])
		out.Y = append(out.Y, o.Y[i][from:to])
		out.Z = append(out.Z, o.Z[i][from:to])
		out.Heading = append(out.Heading, o.Heading[i][from:to])
		out.Length = append(out.Length, o.Length[i][from:to])
		out.Width = append(out.Width, o.Width[i][from:to])
		out.Height = append(out.Height, o.Height[i][from:to])
		out.Valid = append(out.Valid, o.Valid[i][from:to])
	}
	return out
}

// FromJointScene aligns a joint scene with the scenario log: for each
// simulated object, in joint-scene order, the logged history up to and
// including the current time index is followed by the simulated future.
//
// Box dimensions are the logged dimensions at the current time index,
// repeated over every step, and the object type comes from the log. With
// useLogValidity the logged validity covers every step; otherwise history
// steps keep their logged validity and simulated steps are all valid.
func FromJointScene(js submission.JointScene, sc *scenario.Scenario, t challenge.Type, useLogValidity bool) (ObjectTrajectories, error) {
	v, err := challenge.Lookup(t)
	if err != nil {
		return ObjectTrajectories{}, err
	}
	cti := v.Config().CurrentTimeIndex
	history := v.Config().HistorySteps()

	logged, err := FromScenario(sc).GatherObjectsByID(js.ObjectIDs())
	if err != nil {
		return ObjectTrajectories{}, fmt.Errorf("align joint scene: %w", err)
	}

	out := newObjectTrajectories(len(js.Trajectories))
	for i, traj := range js.Trajectories {
		if lens := traj.Lengths(); lens[0] != lens[1] || lens[0] != lens[2] || lens[0] != lens[3] {
			return ObjectTrajectories{}, fmt.Errorf("align object %d: ragged series lengths %v", traj.ObjectID, lens)
		}
		if len(logged.X[i]) < history {
			return ObjectTrajectories{}, fmt.Errorf("align object %d: log has %d steps, need %d of history", traj.ObjectID, len(logged.X[i]), history)
		}
		future := traj.NumSteps()
		n := history + future
		if useLogValidity && len(logged.Valid[i]) < n {
			return ObjectTrajectories{}, fmt.Errorf("align object %d: log has %d steps, need %d for validity", traj.ObjectID, len(logged.Valid[i]), n)
		}

		x := append(append(make([]float64, 0, n), logged.X[i][:history]...), traj.CenterX...)
		y := append(append(make([]float64, 0, n), logged.Y[i][:history]...), traj.CenterY...)
		z := append(append(make([]float64, 0, n), logged.Z[i][:history]...), traj.CenterZ...)
		h := append(append(make([]float64, 0, n), logged.Heading[i][:history]...), traj.Heading...)

		var valid []bool
		if useLogValidity {
			valid = append(make([]bool, 0, n), logged.Valid[i][:n]...)
		} else {
			valid = append(make([]bool, 0, n), logged.Valid[i][:history]...)
			for range future {
				valid = append(valid, true)
			}
		}

		out.ObjectID = append(out.ObjectID, traj.ObjectID)
		out.ObjectType = append(out.ObjectType, logged.ObjectType[i])
		out.X = append(out.X, x)
		out.Y = append(out.Y, y)
		out.Z = append(out.Z, z)
		out.Heading = append(out.Heading, h)
		out.Length = append(out.Length, broadcast(logged.Length[i][cti], n))
		out.Width = append(out.Width, broadcast(logged.Width[i][cti], n))
		out.Height = append(out.Height, broadcast(logged.Height[i][cti], n))
		out.Valid = append(out.Valid, valid)
	}
	return out, nil
}

func broadcast(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
