package storage

import "time"

// Overview carries the headline dashboard counters
type Overview struct {
	TotalPosts      int64 `json:"totalPosts"`
	PublishedPosts  int64 `json:"publishedPosts"`
	DraftPosts      int64 `json:"draftPosts"`
	TotalEvents     int64 `json:"totalEvents"`
	UpcomingEvents  int64 `json:"upcomingEvents"`
	CompletedEvents int64 `json:"completedEvents"`
	TotalContacts   int64 `json:"totalContacts"`
	NewContacts     int64 `json:"newContacts"`
	TotalViews      int64 `json:"totalViews"`
}

// ActivityItem is one row of the recent-activity feed
type ActivityItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecentActivity lists the latest records per entity, newest first
type RecentActivity struct {
	Posts    []ActivityItem `json:"posts"`
	Events   []ActivityItem `json:"events"`
	Contacts []ActivityItem `json:"contacts"`
}

// MonthCount is a per-month bucket of created records
type MonthCount struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// MonthlyCounts holds creation counts bucketed by calendar month for a year
type MonthlyCounts struct {
	Year   int          `json:"year"`
	Posts  []MonthCount `json:"posts"`
	Events []MonthCount `json:"events"`
}

// DayCount is a per-day bucket of created records
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DailyCounts holds creation counts bucketed by day over a trailing window
type DailyCounts struct {
	Days     int        `json:"days"`
	Posts    []DayCount `json:"posts"`
	Events   []DayCount `json:"events"`
	Contacts []DayCount `json:"contacts"`
}

// EventCapacity summarizes attendance across capacity-managed events.
// Events without an attendee cap do not contribute to the utilization
// average.
type EventCapacity struct {
	ManagedEvents      int64   `json:"managedEvents"`
	TotalCapacity      int64   `json:"totalCapacity"`
	TotalAttendees     int64   `json:"totalAttendees"`
	AverageUtilization float64 `json:"averageUtilization"`
	FullEvents         int64   `json:"fullEvents"`
}

// Distributions breaks entities down by their categorical fields
type Distributions struct {
	PostsByCategory  map[string]int64 `json:"postsByCategory"`
	EventsByType     map[string]int64 `json:"eventsByType"`
	EventsByCategory map[string]int64 `json:"eventsByCategory"`
	EventsByStatus   map[string]int64 `json:"eventsByStatus"`
	ContactsByStatus map[string]int64 `json:"contactsByStatus"`
}
