package alerts

import "ipfolio/internal/models"

// Entry is one row of the combined alert feed, tagged by source.
type Entry struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	SourceID  string `json:"source_id"`
	CreatedAt string `json:"created_at"`
}

// Combined merges system alerts with monitoring alerts, system first.
func Combined(derived []models.DerivedAlert, monitoring []models.MonitoringAlert) []Entry {
	out := make([]Entry, 0, len(derived)+len(monitoring))

	for _, a := range derived {
		out = append(out, Entry{
			ID:        a.ID,
			Source:    models.SourceSystem,
			Type:      a.Type,
			Priority:  a.Priority,
			Title:     a.Message,
			Message:   a.Message,
			SourceID:  a.SourceID,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	for _, a := range monitoring {
		out = append(out, Entry{
			ID:        a.ID,
			Source:    models.SourceMonitoring,
			Type:      a.Type,
			Priority:  a.Priority,
			Title:     a.Title,
			Message:   a.Description,
			SourceID:  a.MonitoringItemID,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return out
}

// Filter keeps entries matching the given priority and type. Empty values
// match everything.
func Filter(entries []Entry, priority, alertType string) []Entry {
	if priority == "" && alertType == "" {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if priority != "" && e.Priority != priority {
			continue
		}
		if alertType != "" && e.Type != alertType {
			continue
		}
		out = append(out, e)
	}
	return out
}
