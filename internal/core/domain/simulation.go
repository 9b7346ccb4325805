package domain

import "time"

// SimulationStatus is the lifecycle state of a simulation run.
type SimulationStatus string

const (
	SimulationPending   SimulationStatus = "pending"
	SimulationRunning   SimulationStatus = "running"
	SimulationCompleted SimulationStatus = "completed"
	SimulationFailed    SimulationStatus = "failed"
	SimulationCancelled SimulationStatus = "cancelled"
)

// SimulationParameters tune a scenario run.
type SimulationParameters struct {
	DurationMinutes   int            `json:"duration,omitempty"`
	TrafficIncrease   float64        `json:"trafficIncrease,omitempty"`
	AffectedRoutes    []string       `json:"affectedRoutes,omitempty"`
	WeatherConditions string         `json:"weatherConditions,omitempty"`
	TimeOfDay         string         `json:"timeOfDay,omitempty"`
	Custom            map[string]any `json:"customParams,omitempty"`
}

// SimulationSummary holds the headline numbers of a completed run.
type SimulationSummary struct {
	AvgSpeed         float64 `json:"avgSpeed"`
	CongestionLevel  float64 `json:"congestionLevel"`
	TotalDelay       float64 `json:"totalDelay"`
	AffectedVehicles int     `json:"affectedVehicles"`
}

// SimulationResults is the outcome of a run.
type SimulationResults struct {
	Summary         SimulationSummary `json:"summary"`
	Recommendations []string          `json:"recommendations"`
}

// Simulation is a what-if scenario run by the remote simulation engine.
type Simulation struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Scenario    string               `json:"scenario"`
	Parameters  SimulationParameters `json:"parameters"`
	Status      SimulationStatus     `json:"status"`
	CreatedBy   string               `json:"createdBy"`
	CreatedAt   time.Time            `json:"createdAt"`
	StartedAt   time.Time            `json:"startedAt,omitzero"`
	CompletedAt time.Time            `json:"completedAt,omitzero"`
	Results     *SimulationResults   `json:"results,omitempty"`
}

// RunSimulationInput requests a new run.
type RunSimulationInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Scenario    string               `json:"scenario"`
	Parameters  SimulationParameters `json:"parameters"`
}
