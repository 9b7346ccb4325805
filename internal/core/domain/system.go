package domain

import "time"

// ServiceStatus reports one backend service.
type ServiceStatus struct {
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ResponseTime float64   `json:"responseTime,omitempty"`
	LastChecked  time.Time `json:"lastChecked"`
	ErrorRate    float64   `json:"errorRate,omitempty"`
}

// SystemMetrics are host-level utilisation figures.
type SystemMetrics struct {
	CPUUsage            float64 `json:"cpuUsage"`
	MemoryUsage         float64 `json:"memoryUsage"`
	DiskUsage           float64 `json:"diskUsage"`
	ActiveConnections   int     `json:"activeConnections"`
	RequestsPerMinute   int     `json:"requestsPerMinute"`
	AverageResponseTime float64 `json:"averageResponseTime"`
}

// SystemStatus is the polled status view.
type SystemStatus struct {
	Status      string          `json:"status"`
	Uptime      int64           `json:"uptime"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Services    []ServiceStatus `json:"services"`
	Metrics     SystemMetrics   `json:"metrics"`
}

// HealthCheck is a single probe result.
type HealthCheck struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemHealth aggregates health checks.
type SystemHealth struct {
	Overall   string        `json:"overall"`
	Checks    []HealthCheck `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
}
