package scenario

// ObjectType tags a track with its agent class.
type ObjectType int

const (
	TypeUnset ObjectType = iota
	TypeVehicle
	TypePedestrian
	TypeCyclist
	TypeOther
)

// String implements fmt.Stringer.
func (t ObjectType) String() string {
	switch t {
	case TypeVehicle:
		return "vehicle"
	case TypePedestrian:
		return "pedestrian"
	case TypeCyclist:
		return "cyclist"
	case TypeOther:
		return "other"
	default:
		return "unset"
	}
}

// ObjectState is one step of a track. Values of invalid states are
// meaningless and are only carried through, never interpreted.
type ObjectState struct {
	CenterX   float64
	CenterY   float64
	CenterZ   float64
	Length    float64 // Extent along heading (metres)
	Width     float64 // Extent perpendicular to heading (metres)
	Height    float64
	Heading   float64 // Yaw (radians)
	VelocityX float64 // m/s
	VelocityY float64
	Valid     bool
}

// Track is the logged time series of one object.
type Track struct {
	ID     int
	Type   ObjectType
	IsSDC  bool // The self-driving car that recorded the scenario
	States []ObjectState
}

// ValidAt reports whether the track has a valid state at step. Steps outside
// the track are invalid.
func (t Track) ValidAt(step int) bool {
	return step >= 0 && step < len(t.States) && t.States[step].Valid
}

// RequiredPrediction nominates a track, by index into Scenario.Tracks, for
// evaluation.
type RequiredPrediction struct {
	TrackIndex int
}

// MapPoint is a polyline vertex.
type MapPoint struct {
	X, Y, Z float64
}

// LaneType classifies lane centerlines.
type LaneType int

const (
	LaneUndefined LaneType = iota
	LaneFreeway
	LaneSurfaceStreet
	LaneBikeLane
)

// Lane is a lane centerline in driving direction.
type Lane struct {
	Type     LaneType
	Polyline []MapPoint
}

// RoadEdge is a road boundary polyline, oriented so that the drivable
// surface lies on its left.
type RoadEdge struct {
	Polyline []MapPoint
}

// RoadLine is a painted line. It is not used by any feature but is kept so
// callers can pass map records through unchanged.
type RoadLine struct {
	Polyline []MapPoint
}

// MapFeature holds exactly one of Lane, RoadEdge or RoadLine.
type MapFeature struct {
	ID       int
	Lane     *Lane
	RoadEdge *RoadEdge
	RoadLine *RoadLine
}

// SignalState is the discrete state of a lane's traffic signal.
type SignalState int

const (
	SignalUnknown SignalState = iota
	SignalArrowStop
	SignalArrowCaution
	SignalArrowGo
	SignalStop
	SignalCaution
	SignalGo
	SignalFlashingStop
	SignalFlashingCaution
)

// IsStop reports whether the state forbids entering the intersection.
func (s SignalState) IsStop() bool {
	switch s {
	case SignalArrowStop, SignalStop, SignalFlashingStop:
		return true
	}
	return false
}

// TrafficSignalLaneState is the signal controlling one lane at one step.
type TrafficSignalLaneState struct {
	Lane      int // MapFeature ID of the controlled lane
	State     SignalState
	StopPoint MapPoint
}

// DynamicMapState holds every signal observation of one step.
type DynamicMapState struct {
	LaneStates []TrafficSignalLaneState
}

// Scenario is one logged traffic scene.
type Scenario struct {
	ID               string
	Timestamps       []float64 // Seconds, one per step
	CurrentTimeIndex int
	Tracks           []Track
	TracksToPredict  []RequiredPrediction
	MapFeatures      []MapFeature
	DynamicMapStates []DynamicMapState // One per step, may be empty
}

// SDCTrackIndex returns the index of the self-driving car's track, or -1.
func (s *Scenario) SDCTrackIndex() int {
	for i := range s.Tracks {
		if s.Tracks[i].IsSDC {
			return i
		}
	}
	return -1
}

// NumSteps returns the longest track length.
func (s *Scenario) NumSteps() int {
	n := 0
	for i := range s.Tracks {
		n = max(n, len(s.Tracks[i].States))
	}
	return n
}

// RoadEdges returns the polylines of every road-edge feature, in map order.
func (s *Scenario) RoadEdges() [][]MapPoint {
	var out [][]MapPoint
	for _, f := range s.MapFeatures {
		if f.RoadEdge != nil {
			out = append(out, f.RoadEdge.Polyline)
		}
	}
	return out
}

// LanesOfType returns the IDs and centerlines of lanes with the given type.
func (s *Scenario) LanesOfType(lt LaneType) (ids []int, polylines [][]MapPoint) {
	for _, f := range s.MapFeatures {
		if f.Lane != nil && f.Lane.Type == lt {
			ids = append(ids, f.ID)
			polylines = append(polylines, f.Lane.Polyline)
		}
	}
	return ids, polylines
}
