package domain

import (
	"fmt"
	"time"
)

// TransportMode identifies one of the per-mode indicator feeds.
type TransportMode string

const (
	ModeCar        TransportMode = "car"
	ModeCycle      TransportMode = "cycle"
	ModeBus        TransportMode = "bus"
	ModeTrain      TransportMode = "train"
	ModeTram       TransportMode = "tram"
	ModePedestrian TransportMode = "pedestrian"
)

// TransportModes lists the modes in menu order.
var TransportModes = []TransportMode{ModeCar, ModeCycle, ModeBus, ModeTrain, ModeTram, ModePedestrian}

// ParseTransportMode validates a path parameter.
func ParseTransportMode(s string) (TransportMode, error) {
	for _, m := range TransportModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown transport mode %q", ErrInvalidArgument, s)
}

// TimeRange is the window an indicator query covers.
type TimeRange string

const (
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
)

// IndicatorFilters narrows indicator queries. The zero value means no filter.
type IndicatorFilters struct {
	TimeRange TimeRange `json:"timeRange,omitempty"`
	Start     string    `json:"start,omitempty"`
	End       string    `json:"end,omitempty"`
}

func (f IndicatorFilters) IsZero() bool {
	return f == IndicatorFilters{}
}

// IndicatorPoint is a single sample of a historical series.
type IndicatorPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Label     string    `json:"label,omitempty"`
}

// TransportMetrics are the mode-specific headline metrics.
type TransportMetrics struct {
	AvgSpeed        float64 `json:"avgSpeed,omitempty"`
	TotalVehicles   int     `json:"totalVehicles,omitempty"`
	PeakHour        string  `json:"peakHour,omitempty"`
	Efficiency      float64 `json:"efficiency,omitempty"`
	CarbonEmissions float64 `json:"carbonEmissions,omitempty"`
}

// TransportIndicator is the payload of a per-mode indicator read.
type TransportIndicator struct {
	Mode             TransportMode    `json:"mode"`
	CurrentValue     float64          `json:"currentValue"`
	Change           float64          `json:"change"`
	ChangePercentage float64          `json:"changePercentage"`
	History          []IndicatorPoint `json:"historicalData"`
	Metrics          TransportMetrics `json:"metrics"`
}

// Impact grades how disruptive an event or construction project is.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// CityEvent is a planned or ongoing event affecting traffic.
type CityEvent struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Location       string   `json:"location"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	ExpectedImpact Impact   `json:"expectedImpact"`
	Status         string   `json:"status"`
	AffectedRoutes []string `json:"affectedRoutes,omitempty"`
}

// ConstructionProject is a roadwork or building project affecting traffic.
type ConstructionProject struct {
	ID               string   `json:"id"`
	ProjectName      string   `json:"projectName"`
	Location         string   `json:"location"`
	StartDate        string   `json:"startDate"`
	EstimatedEndDate string   `json:"estimatedEndDate"`
	Progress         float64  `json:"progress"`
	Impact           Impact   `json:"impact"`
	AffectedAreas    []string `json:"affectedAreas"`
	Status           string   `json:"status"`
}
