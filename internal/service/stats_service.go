package service

import (
	"testbot_backend/internal/model"
	"testbot_backend/internal/util"
)

type ResultStore interface {
	ByUser(telegramID int64) ([]model.Result, error)
	Recent(telegramID int64, limit int) ([]model.Result, error)
}

// StatsService считает агрегаты по истории результатов. Только чтение:
// производные величины не хранятся, а выводятся из строк results.
type StatsService struct {
	Results ResultStore
}

func NewStatsService(results ResultStore) *StatsService {
	return &StatsService{Results: results}
}

const recentResultsLimit = 5

type GradeCounts struct {
	Excellent    int `json:"excellent"`
	Good         int `json:"good"`
	Satisfactory int `json:"satisfactory"`
	Fail         int `json:"fail"`
}

type RecentResult struct {
	Specialization string  `json:"specialization"`
	Difficulty     string  `json:"difficulty"`
	Grade          string  `json:"grade"`
	Percentage     float64 `json:"percentage"`
	Date           string  `json:"date"`
}

type UserStatsResponse struct {
	TotalTests     int            `json:"total_tests"`
	AvgPercentage  float64        `json:"avg_percentage"`
	BestPercentage float64        `json:"best_percentage"`
	Grades         GradeCounts    `json:"grades"`
	RecentResults  []RecentResult `json:"recent_results"`
}

// GetUserStats: количество тестов, средний и лучший проценты, разбивка по
// оценкам и до пяти последних результатов. Пустая история — нули и пустой
// список, не ошибка.
func (s *StatsService) GetUserStats(telegramID int64) (*UserStatsResponse, error) {
	all, err := s.Results.ByUser(telegramID)
	if err != nil {
		return nil, err
	}

	resp := &UserStatsResponse{RecentResults: []RecentResult{}}
	resp.TotalTests = len(all)

	var sum, best float64
	for _, r := range all {
		sum += r.Percentage
		if r.Percentage > best {
			best = r.Percentage
		}
		switch r.Grade {
		case model.GradeExcellent:
			resp.Grades.Excellent++
		case model.GradeGood:
			resp.Grades.Good++
		case model.GradeSatisfactory:
			resp.Grades.Satisfactory++
		case model.GradeFail:
			resp.Grades.Fail++
		}
	}
	if len(all) > 0 {
		resp.AvgPercentage = Round1(sum / float64(len(all)))
		resp.BestPercentage = Round1(best)
	}

	recent, err := s.Results.Recent(telegramID, recentResultsLimit)
	if err != nil {
		return nil, err
	}
	for _, r := range recent {
		resp.RecentResults = append(resp.RecentResults, RecentResult{
			Specialization: model.SpecializationLabel(r.Specialization),
			Difficulty:     r.Difficulty,
			Grade:          r.Grade,
			Percentage:     Round1(r.Percentage),
			Date:           r.CreatedAt.Format(util.TimeFormat),
		})
	}

	return resp, nil
}
