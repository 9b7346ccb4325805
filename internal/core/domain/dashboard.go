package domain

import "time"

// DashboardStats are the headline tiles on the landing page.
type DashboardStats struct {
	TotalVehicles      int     `json:"totalVehicles"`
	ActiveRoutes       int     `json:"activeRoutes"`
	AvgSpeed           float64 `json:"avgSpeed"`
	CongestionLevel    string  `json:"congestionLevel"`
	CongestionScore    float64 `json:"congestionScore,omitempty"`
	CO2Emissions       float64 `json:"co2Emissions,omitempty"`
	PublicTransitUsage float64 `json:"publicTransitUsage,omitempty"`
}

// Alert is a recent alert shown on the overview.
type Alert struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Severity  string           `json:"severity,omitempty"`
}

// TrendPoint is one sample of an overview trend line.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Category  string    `json:"category"`
}

// DashboardOverview combines stats, alerts and trends.
type DashboardOverview struct {
	Stats        DashboardStats `json:"stats"`
	RecentAlerts []Alert        `json:"recentAlerts"`
	Trends       []TrendPoint   `json:"trends"`
}
