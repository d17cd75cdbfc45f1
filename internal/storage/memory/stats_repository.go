package memory

import (
	"context"
	"sort"
	"time"

	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// StatsRepository computes the dashboard aggregations over the in-memory
// stores
type StatsRepository struct {
	posts    *PostRepository
	events   *EventRepository
	contacts *ContactRepository
}

// NewStatsRepository wires the stats aggregations over the given stores
func NewStatsRepository(posts *PostRepository, events *EventRepository, contacts *ContactRepository) *StatsRepository {
	return &StatsRepository{posts: posts, events: events, contacts: contacts}
}

func (r *StatsRepository) snapshot() ([]post.Post, []event.Event, []contact.Contact) {
	now := time.Now()

	r.posts.mu.RLock()
	posts := make([]post.Post, 0, len(r.posts.posts))
	for _, p := range r.posts.posts {
		posts = append(posts, *p)
	}
	r.posts.mu.RUnlock()

	r.events.mu.Lock()
	events := make([]event.Event, 0, len(r.events.events))
	for _, e := range r.events.events {
		e.DeriveStatus(now)
		events = append(events, *e)
	}
	r.events.mu.Unlock()

	r.contacts.mu.RLock()
	contacts := make([]contact.Contact, 0, len(r.contacts.contacts))
	for _, c := range r.contacts.contacts {
		contacts = append(contacts, *c)
	}
	r.contacts.mu.RUnlock()

	return posts, events, contacts
}

func (r *StatsRepository) Overview(_ context.Context) (*storage.Overview, error) {
	posts, events, contacts := r.snapshot()
	o := &storage.Overview{
		TotalPosts:    int64(len(posts)),
		TotalEvents:   int64(len(events)),
		TotalContacts: int64(len(contacts)),
	}
	for _, p := range posts {
		if p.IsPublished() {
			o.PublishedPosts++
		} else {
			o.DraftPosts++
		}
		o.TotalViews += int64(p.Views)
	}
	for _, e := range events {
		switch e.Status {
		case event.StatusUpcoming:
			o.UpcomingEvents++
		case event.StatusCompleted:
			o.CompletedEvents++
		}
	}
	for _, c := range contacts {
		if c.Status == contact.StatusNew {
			o.NewContacts++
		}
	}
	return o, nil
}

func (r *StatsRepository) RecentActivity(_ context.Context, limit int) (*storage.RecentActivity, error) {
	if limit <= 0 {
		limit = 5
	}
	posts, events, contacts := r.snapshot()
	activity := &storage.RecentActivity{}

	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	for i := 0; i < len(posts) && i < limit; i++ {
		activity.Posts = append(activity.Posts, storage.ActivityItem{
			ID: posts[i].ID.String(), Kind: "post", Title: posts[i].Title,
			Status: string(posts[i].Status), CreatedAt: posts[i].CreatedAt,
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	for i := 0; i < len(events) && i < limit; i++ {
		activity.Events = append(activity.Events, storage.ActivityItem{
			ID: events[i].ID.String(), Kind: "event", Title: events[i].Title,
			Status: string(events[i].Status), CreatedAt: events[i].CreatedAt,
		})
	}

	sort.Slice(contacts, func(i, j int) bool { return contacts[i].CreatedAt.After(contacts[j].CreatedAt) })
	for i := 0; i < len(contacts) && i < limit; i++ {
		activity.Contacts = append(activity.Contacts, storage.ActivityItem{
			ID: contacts[i].ID.String(), Kind: "contact", Title: contacts[i].Subject,
			Status: string(contacts[i].Status), CreatedAt: contacts[i].CreatedAt,
		})
	}

	return activity, nil
}

func (r *StatsRepository) MonthlyCounts(_ context.Context, year int) (*storage.MonthlyCounts, error) {
	posts, events, _ := r.snapshot()
	counts := &storage.MonthlyCounts{Year: year}
	counts.Posts = make([]storage.MonthCount, 12)
	counts.Events = make([]storage.MonthCount, 12)
	for i := 0; i < 12; i++ {
		counts.Posts[i] = storage.MonthCount{Month: i + 1}
		counts.Events[i] = storage.MonthCount{Month: i + 1}
	}
	for _, p := range posts {
		if p.CreatedAt.Year() == year {
			counts.Posts[int(p.CreatedAt.Month())-1].Count++
		}
	}
	for _, e := range events {
		if e.CreatedAt.Year() == year {
			counts.Events[int(e.CreatedAt.Month())-1].Count++
		}
	}
	return counts, nil
}

func (r *StatsRepository) DailyCounts(_ context.Context, days int) (*storage.DailyCounts, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	posts, events, contacts := r.snapshot()
	counts := &storage.DailyCounts{Days: days}

	counts.Posts = dailyBuckets(posts, since, func(p post.Post) time.Time { return p.CreatedAt })
	counts.Events = dailyBuckets(events, since, func(e event.Event) time.Time { return e.CreatedAt })
	counts.Contacts = dailyBuckets(contacts, since, func(c contact.Contact) time.Time { return c.CreatedAt })
	return counts, nil
}

func dailyBuckets[T any](items []T, since time.Time, createdAt func(T) time.Time) []storage.DayCount {
	byDay := make(map[string]int64)
	for _, item := range items {
		t := createdAt(item)
		if t.Before(since) {
			continue
		}
		byDay[t.Format("2006-01-02")]++
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	buckets := make([]storage.DayCount, 0, len(days))
	for _, day := range days {
		buckets = append(buckets, storage.DayCount{Date: day, Count: byDay[day]})
	}
	return buckets
}

func (r *StatsRepository) PopularPosts(_ context.Context, limit int) ([]*post.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	posts, _, _ := r.snapshot()
	var published []*post.Post
	for i := range posts {
		if posts[i].IsPublished() {
			published = append(published, &posts[i])
		}
	}
	sort.Slice(published, func(i, j int) bool { return published[i].Views > published[j].Views })
	if len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

func (r *StatsRepository) EventCapacity(_ context.Context) (*storage.EventCapacity, error) {
	_, events, _ := r.snapshot()
	capacity := &storage.EventCapacity{}
	var utilizationSum float64
	for _, e := range events {
		if e.MaxAttendees <= 0 {
			continue
		}
		capacity.ManagedEvents++
		capacity.TotalCapacity += int64(e.MaxAttendees)
		capacity.TotalAttendees += int64(e.CurrentAttendees)
		utilizationSum += float64(e.CurrentAttendees) / float64(e.MaxAttendees)
		if e.CurrentAttendees >= e.MaxAttendees {
			capacity.FullEvents++
		}
	}
	if capacity.ManagedEvents > 0 {
		capacity.AverageUtilization = utilizationSum / float64(capacity.ManagedEvents)
	}
	return capacity, nil
}

func (r *StatsRepository) Distributions(_ context.Context) (*storage.Distributions, error) {
	posts, events, contacts := r.snapshot()
	d := &storage.Distributions{
		PostsByCategory:  make(map[string]int64),
		EventsByType:     make(map[string]int64),
		EventsByCategory: make(map[string]int64),
		EventsByStatus:   make(map[string]int64),
		ContactsByStatus: make(map[string]int64),
	}
	for _, p := range posts {
		d.PostsByCategory[p.Category]++
	}
	for _, e := range events {
		d.EventsByType[string(e.Type)]++
		d.EventsByCategory[string(e.Category)]++
		d.EventsByStatus[string(e.Status)]++
	}
	for _, c := range contacts {
		d.ContactsByStatus[string(c.Status)]++
	}
	return d, nil
}
