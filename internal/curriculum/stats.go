package curriculum

// Statistics aggregates counts and averages over the loaded dataset
type Statistics struct {
	TotalCurricula        int            `json:"total_curricula"`
	ByStatus              map[string]int `json:"by_status"`
	ByDifficulty          map[string]int `json:"by_difficulty"`
	ByCategory            map[string]int `json:"by_category"`
	TotalModules          int            `json:"total_modules"`
	TotalLessons          int            `json:"total_lessons"`
	TotalStudents         int            `json:"total_students"`
	TotalPracticeProblems int            `json:"total_practice_problems"`
	AverageCompletionRate float64        `json:"average_completion_rate"`
	AverageRating         float64        `json:"average_rating"`
}

// Statistics computes aggregate figures. Module and lesson totals count the
// loaded module list rather than the per-curriculum counters.
func (m *Manager) Statistics() Statistics {
	stats := Statistics{
		TotalCurricula: len(m.data.Curricula),
		ByStatus:       make(map[string]int),
		ByDifficulty:   make(map[string]int),
		ByCategory:     make(map[string]int),
		TotalModules:   len(m.data.Modules),
	}

	var completion, rating float64
	for _, c := range m.data.Curricula {
		stats.ByStatus[string(c.Status)]++
		stats.ByDifficulty[string(c.Difficulty)]++
		stats.ByCategory[c.Category]++
		stats.TotalStudents += c.StudentCount
		completion += c.CompletionRate
		rating += c.Rating
	}

	for _, mod := range m.data.Modules {
		stats.TotalLessons += len(mod.Lessons)
		for _, l := range mod.Lessons {
			stats.TotalPracticeProblems += l.PracticeProblems
		}
	}

	if n := len(m.data.Curricula); n > 0 {
		stats.AverageCompletionRate = completion / float64(n)
		stats.AverageRating = rating / float64(n)
	}

	return stats
}
