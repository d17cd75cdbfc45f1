package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// StatsRepository computes the dashboard aggregations with SQL
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new PostgreSQL stats repository
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Stale upcoming events count as completed without waiting for the
// per-entity status flip to be persisted.
const completedClause = "status = 'completed' OR (status = 'upcoming' AND date < ?)"

func (r *StatsRepository) Overview(ctx context.Context) (*storage.Overview, error) {
	o := &storage.Overview{}
	now := time.Now()

	posts := r.db.WithContext(ctx).Model(&post.Post{})
	if err := posts.Session(&gorm.Session{}).Count(&o.TotalPosts).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	if err := posts.Session(&gorm.Session{}).Where("status = ?", post.StatusPublished).Count(&o.PublishedPosts).Error; err != nil {
		return nil, fmt.Errorf("failed to count published posts: %w", err)
	}
	o.DraftPosts = o.TotalPosts - o.PublishedPosts

	events := r.db.WithContext(ctx).Model(&event.Event{})
	if err := events.Session(&gorm.Session{}).Count(&o.TotalEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	if err := events.Session(&gorm.Session{}).
		Where("status = ? AND date >= ?", event.StatusUpcoming, now).
		Count(&o.UpcomingEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count upcoming events: %w", err)
	}
	if err := events.Session(&gorm.Session{}).
		Where(completedClause, now).
		Count(&o.CompletedEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed events: %w", err)
	}

	contacts := r.db.WithContext(ctx).Model(&contact.Contact{})
	if err := contacts.Session(&gorm.Session{}).Count(&o.TotalContacts).Error; err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	if err := contacts.Session(&gorm.Session{}).
		Where("status = ?", contact.StatusNew).
		Count(&o.NewContacts).Error; err != nil {
		return nil, fmt.Errorf("failed to count new contacts: %w", err)
	}

	var views *int64
	if err := r.db.WithContext(ctx).Model(&post.Post{}).
		Select("SUM(views)").Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to sum views: %w", err)
	}
	if views != nil {
		o.TotalViews = *views
	}

	return o, nil
}

func (r *StatsRepository) RecentActivity(ctx context.Context, limit int) (*storage.RecentActivity, error) {
	if limit <= 0 {
		limit = 5
	}
	activity := &storage.RecentActivity{}

	var posts []post.Post
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent posts: %w", err)
	}
	for _, p := range posts {
		activity.Posts = append(activity.Posts, storage.ActivityItem{
			ID: p.ID.String(), Kind: "post", Title: p.Title,
			Status: string(p.Status), CreatedAt: p.CreatedAt,
		})
	}

	var events []event.Event
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent events: %w", err)
	}
	now := time.Now()
	for i := range events {
		events[i].DeriveStatus(now)
		activity.Events = append(activity.Events, storage.ActivityItem{
			ID: events[i].ID.String(), Kind: "event", Title: events[i].Title,
			Status: string(events[i].Status), CreatedAt: events[i].CreatedAt,
		})
	}

	var contacts []contact.Contact
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent contacts: %w", err)
	}
	for _, c := range contacts {
		activity.Contacts = append(activity.Contacts, storage.ActivityItem{
			ID: c.ID.String(), Kind: "contact", Title: c.Subject,
			Status: string(c.Status), CreatedAt: c.CreatedAt,
		})
	}

	return activity, nil
}

func (r *StatsRepository) MonthlyCounts(ctx context.Context, year int) (*storage.MonthlyCounts, error) {
	counts := &storage.MonthlyCounts{Year: year}

	postBuckets, err := r.monthlyBuckets(ctx, "posts", year)
	if err != nil {
		return nil, err
	}
	counts.Posts = postBuckets

	eventBuckets, err := r.monthlyBuckets(ctx, "events", year)
	if err != nil {
		return nil, err
	}
	counts.Events = eventBuckets

	return counts, nil
}

func (r *StatsRepository) monthlyBuckets(ctx context.Context, table string, year int) ([]storage.MonthCount, error) {
	var rows []struct {
		Month int
		Count int64
	}
	err := r.db.WithContext(ctx).Table(table).
		Select("EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS count").
		Where("EXTRACT(YEAR FROM created_at) = ?", year).
		Group("month").
		Order("month").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to bucket %s by month: %w", table, err)
	}

	// Every month appears, empty ones included
	buckets := make([]storage.MonthCount, 12)
	for i := range buckets {
		buckets[i] = storage.MonthCount{Month: i + 1}
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			buckets[row.Month-1].Count = row.Count
		}
	}
	return buckets, nil
}

func (r *StatsRepository) DailyCounts(ctx context.Context, days int) (*storage.DailyCounts, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	counts := &storage.DailyCounts{Days: days}

	for _, target := range []struct {
		table string
		dest  *[]storage.DayCount
	}{
		{"posts", &counts.Posts},
		{"events", &counts.Events},
		{"contacts", &counts.Contacts},
	} {
		var rows []struct {
			Date  time.Time
			Count int64
		}
		err := r.db.WithContext(ctx).Table(target.table).
			Select("DATE(created_at) AS date, COUNT(*) AS count").
			Where("created_at >= ?", since).
			Group("date").
			Order("date").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to bucket %s by day: %w", target.table, err)
		}
		for _, row := range rows {
			*target.dest = append(*target.dest, storage.DayCount{
				Date:  row.Date.Format("2006-01-02"),
				Count: row.Count,
			})
		}
	}

	return counts, nil
}

func (r *StatsRepository) PopularPosts(ctx context.Context, limit int) ([]*post.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	var posts []*post.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", post.StatusPublished).
		Order("views DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load popular posts: %w", err)
	}
	return posts, nil
}

func (r *StatsRepository) EventCapacity(ctx context.Context) (*storage.EventCapacity, error) {
	var row struct {
		ManagedEvents      int64
		TotalCapacity      *int64
		TotalAttendees     *int64
		AverageUtilization *float64
		FullEvents         int64
	}
	// Uncapped events (max_attendees = 0) stay out of every figure so they
	// cannot drag the utilization average toward zero.
	err := r.db.WithContext(ctx).Model(&event.Event{}).
		Select(`COUNT(*) AS managed_events,
			SUM(max_attendees) AS total_capacity,
			SUM(current_attendees) AS total_attendees,
			AVG(current_attendees::float / max_attendees) AS average_utilization,
			COUNT(*) FILTER (WHERE current_attendees >= max_attendees) AS full_events`).
		Where("max_attendees > 0").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate event capacity: %w", err)
	}

	capacity := &storage.EventCapacity{
		ManagedEvents: row.ManagedEvents,
		FullEvents:    row.FullEvents,
	}
	if row.TotalCapacity != nil {
		capacity.TotalCapacity = *row.TotalCapacity
	}
	if row.TotalAttendees != nil {
		capacity.TotalAttendees = *row.TotalAttendees
	}
	if row.AverageUtilization != nil {
		capacity.AverageUtilization = *row.AverageUtilization
	}
	return capacity, nil
}

func (r *StatsRepository) Distributions(ctx context.Context) (*storage.Distributions, error) {
	d := &storage.Distributions{}

	for _, target := range []struct {
		table  string
		column string
		dest   *map[string]int64
	}{
		{"posts", "category", &d.PostsByCategory},
		{"events", "type", &d.EventsByType},
		{"events", "category", &d.EventsByCategory},
		{"events", "status", &d.EventsByStatus},
		{"contacts", "status", &d.ContactsByStatus},
	} {
		var rows []struct {
			Key   string
			Count int64
		}
		err := r.db.WithContext(ctx).Table(target.table).
			Select(target.column + " AS key, COUNT(*) AS count").
			Group(target.column).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to group %s by %s: %w", target.table, target.column, err)
		}
		m := make(map[string]int64, len(rows))
		for _, row := range rows {
			m[row.Key] = row.Count
		}
		*target.dest = m
	}

	return d, nil
}
