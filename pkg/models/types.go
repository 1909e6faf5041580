package models

import (
	"fmt"
	"time"
)

// SizePrefix identifies the nomenclature family of a tire size designation.
type SizePrefix string

const (
	PrefixNone   SizePrefix = ""
	PrefixB      SizePrefix = "B"
	PrefixC      SizePrefix = "C"
	PrefixH      SizePrefix = "H"
	PrefixMetric SizePrefix = "*" // metric-derived sizes, converted per units.ConversionPolicy
)

// DesignVector is the minimal set of independent parameters identifying one
// candidate tire. Geometry units are inches, speed index is mph.
// A DesignVector is immutable once constructed.
type DesignVector struct {
	Prefix                 SizePrefix `json:"pre" yaml:"pre"`
	NominalOverallDiameter float64    `json:"m" yaml:"m"`   // M
	NominalSectionWidth    float64    `json:"n" yaml:"n"`   // N
	RimDiameter            float64    `json:"d" yaml:"d"`   // D
	PlyRating              int        `json:"pr" yaml:"pr"` // PR
	SpeedIndex             float64    `json:"si" yaml:"si"` // SI
}

// Designation renders the conventional three-part size string, e.g. "21x7.25-10".
func (d DesignVector) Designation() string {
	return fmt.Sprintf("%s%gx%g-%g", d.Prefix, d.NominalOverallDiameter, d.NominalSectionWidth, d.RimDiameter)
}

// GeometricState holds the derived dimensions of a candidate tire.
// Lengths are inches. The state is mutable only while the geometry solver
// iterates; callers receive it after convergence and must treat it as
// immutable.
type GeometricState struct {
	OutsideDiameterMax float64 `json:"do_max"`
	OutsideDiameterMin float64 `json:"do_min"`
	SectionWidthMax    float64 `json:"w_max"`
	SectionWidthMin    float64 `json:"w_min"`

	// Mean dimensions used by the load and netting relations.
	MeanOverallDiameter float64 `json:"dm"`
	MeanSectionWidth    float64 `json:"wm"`

	ShoulderDiameterMax float64 `json:"ds_max"`
	ShoulderWidthMax    float64 `json:"ws_max"`

	SectionHeight float64 `json:"sh"`
	AspectRatio   float64 `json:"ar"`
	TreadGauge    float64 `json:"g"`

	StaticLoadedRadiusRated     float64 `json:"lr_rl"`
	StaticLoadedRadiusBottoming float64 `json:"lr_bl"`

	RimWidthBetweenFlanges float64 `json:"a"`
	FlangeHeight           float64 `json:"fh"`
	OuterFlangeDiameter    float64 `json:"df"`

	// Grown dimensions under inflation and cord load (the catalog's
	// DG/WG/DSG/WSG columns). Zero until the coupling solver has run.
	GrownDiameter         float64 `json:"dg,omitempty"`
	GrownWidth            float64 `json:"wg,omitempty"`
	GrownShoulderDiameter float64 `json:"dsg,omitempty"`
	GrownShoulderWidth    float64 `json:"wsg,omitempty"`
}

// CouplingVariables are the two values exchanged between the load and
// mechanical disciplines inside the MDA loop. Pressure is psi, tension
// is newtons per cord.
type CouplingVariables struct {
	InflationPressure float64 `json:"ip"`
	CordTension       float64 `json:"t"`
}

// Requirement is one selection query: the load the gear position must carry
// and the speed rating the airframe demands.
type Requirement struct {
	RequiredLoad       float64 `json:"required_load" yaml:"required_load"`               // lbf
	RequiredSpeedIndex float64 `json:"required_speed_index" yaml:"required_speed_index"` // mph
}

// ConstraintKind identifies a discipline constraint in a FeasibilityResult.
type ConstraintKind string

const (
	ConstraintLoadCapacity ConstraintKind = "load_capacity"
	ConstraintMechanical   ConstraintKind = "mechanical"
	ConstraintAspectRatio  ConstraintKind = "aspect_ratio"
	ConstraintFlange       ConstraintKind = "flange_clearance"
)

// FeasibilityResult aggregates the three discipline evaluations for one
// converged candidate. It is produced once per evaluated DesignVector and
// never mutated afterwards.
type FeasibilityResult struct {
	RatedLoad         float64          `json:"rated_load"`          // lbf
	LoadMargin        float64          `json:"load_margin"`         // lbf, ratedLoad - requiredLoad
	MassEstimate      float64          `json:"mass_estimate"`       // kg, inflation medium
	CordTension       float64          `json:"cord_tension"`        // N per cord
	CordTensionMargin float64          `json:"cord_tension_margin"` // N, materialLimit - cordTension
	InflationPressure float64          `json:"inflation_pressure"`  // psi
	Feasible          bool             `json:"feasible"`
	Violated          []ConstraintKind `json:"violated,omitempty"`
}

// Violates reports whether the given constraint is in the violated set.
func (r *FeasibilityResult) Violates(kind ConstraintKind) bool {
	for _, k := range r.Violated {
		if k == kind {
			return true
		}
	}
	return false
}

// RankedDesign pairs a design with its evaluation, as returned by the
// selector in rank order.
type RankedDesign struct {
	Family   string            `json:"family"`
	Design   DesignVector      `json:"design"`
	Geometry GeometricState    `json:"geometry"`
	Result   FeasibilityResult `json:"result"`
	Cost     float64           `json:"cost"`
}

// JobStatus represents the lifecycle state of a selection job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// SelectionJob is one asynchronous selection request tracked by the daemon.
type SelectionJob struct {
	ID          string         `json:"id"`
	Requirement Requirement    `json:"requirement"`
	Families    []string       `json:"families,omitempty"`
	Backend     string         `json:"backend,omitempty"`
	Status      JobStatus      `json:"status"`
	Rankings    []RankedDesign `json:"rankings,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   time.Time      `json:"started_at,omitempty"`
	EndedAt     time.Time      `json:"ended_at,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}
