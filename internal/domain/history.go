package domain

import (
	"sort"
	"time"
)

// DaySummary сессии одного календарного дня для экрана истории
type DaySummary struct {
	Date         string     `json:"date"`
	TotalSeconds int64      `json:"totalSeconds"`
	Count        int        `json:"count"`
	Sessions     []*Session `json:"sessions"`
}

// Total возвращает суммарное время фокуса за день
func (d *DaySummary) Total() time.Duration {
	return time.Duration(d.TotalSeconds) * time.Second
}

// GroupByDate группирует сессии по дате: дни от новых к старым,
// внутри дня сессии от поздних к ранним
func GroupByDate(sessions []*Session) []*DaySummary {
	byDate := make(map[string]*DaySummary)
	for _, s := range sessions {
		day, ok := byDate[s.Date]
		if !ok {
			day = &DaySummary{Date: s.Date}
			byDate[s.Date] = day
		}
		day.Sessions = append(day.Sessions, s)
		day.TotalSeconds += s.DurationSeconds
		day.Count++
	}

	days := make([]*DaySummary, 0, len(byDate))
	for _, day := range byDate {
		sort.SliceStable(day.Sessions, func(i, j int) bool {
			return day.Sessions[i].StartTime.After(day.Sessions[j].StartTime)
		})
		days = append(days, day)
	}

	// YYYY-MM-DD сортируется лексикографически
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	return days
}
