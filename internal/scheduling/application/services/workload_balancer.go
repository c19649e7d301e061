package services

import (
	"fmt"
	"math"
	"time"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
	"gonum.org/v1/gonum/stat"
)

// Rebalancer proposes block migrations to even out a week's load. The
// greedy implementation below can be swapped for a real optimizer without
// touching callers.
type Rebalancer interface {
	Rebalance(week domain.WeekLoad, blocksByDate map[string][]*domain.ScheduleBlock, targetMinutesPerDay int) []domain.BalanceSuggestion
}

// Limits for the greedy heuristic.
const (
	movableBlockMaxMinutes = 120
	splittableBlockMinutes = 180
)

// WorkloadBalancer aggregates per-day load across a week window.
type WorkloadBalancer struct{}

// NewWorkloadBalancer creates a workload balancer.
func NewWorkloadBalancer() *WorkloadBalancer {
	return &WorkloadBalancer{}
}

// DayInput is one day's busy picture for workload analysis.
type DayInput struct {
	Date   time.Time
	Blocks []*domain.ScheduleBlock
	Events []domain.BusyItem
}

// Analyze computes day loads and the week's balance from the supplied
// days. targetMinutesPerDay derives from the user's configured work-hour
// span.
func (b *WorkloadBalancer) Analyze(days []DayInput, targetMinutesPerDay int) domain.WeekLoad {
	loads := make([]domain.DayLoad, 0, len(days))
	totals := make([]float64, 0, len(days))

	for _, day := range days {
		load := domain.DayLoad{Date: day.Date}

		for _, block := range day.Blocks {
			minutes := int(block.Duration() / time.Minute)
			load.TotalMinutes += minutes
			switch block.BlockType() {
			case domain.BlockTypeWork:
				load.WorkMinutes += minutes
			case domain.BlockTypeMeeting:
				load.MeetingMinutes += minutes
			case domain.BlockTypeBreak:
				load.BreakMinutes += minutes
			}
		}
		for _, event := range day.Events {
			minutes := event.Interval.Minutes()
			load.TotalMinutes += minutes
			load.MeetingMinutes += minutes
		}

		if targetMinutesPerDay > 0 {
			score := int(math.Round(float64(load.TotalMinutes) / float64(targetMinutesPerDay) * 100))
			if score > 100 {
				score = 100
			}
			load.LoadScore = score
		}

		loads = append(loads, load)
		totals = append(totals, float64(load.TotalMinutes))
	}

	week := domain.WeekLoad{Days: loads}
	if len(loads) == 0 {
		week.BalanceScore = 100
		return week
	}

	average := stat.Mean(totals, nil)
	week.AverageLoad = average

	if average > 0 {
		maxDeviation := 0.0
		for _, total := range totals {
			if dev := math.Abs(total - average); dev > maxDeviation {
				maxDeviation = dev
			}
		}
		week.VariancePercent = maxDeviation / average * 100
	}

	balance := 100 - int(math.Round(week.VariancePercent))
	if balance < 0 {
		balance = 0
	}
	week.BalanceScore = balance

	return week
}

// GreedyRebalancer is a first-fit heuristic, not a global optimizer: for
// every (overloaded, underloaded) day pair it proposes moving the first
// movable block, and separately proposes splitting any long block on an
// overloaded day.
type GreedyRebalancer struct{}

// NewGreedyRebalancer creates the greedy rebalancer.
func NewGreedyRebalancer() *GreedyRebalancer {
	return &GreedyRebalancer{}
}

// Rebalance proposes moves and splits to even out the week.
func (r *GreedyRebalancer) Rebalance(
	week domain.WeekLoad,
	blocksByDate map[string][]*domain.ScheduleBlock,
	targetMinutesPerDay int,
) []domain.BalanceSuggestion {
	suggestions := make([]domain.BalanceSuggestion, 0)
	overloaded := week.Overloaded()
	underloaded := week.Underloaded()

	for _, heavy := range overloaded {
		blocks := blocksByDate[dateKey(heavy.Date)]

		for _, light := range underloaded {
			block := firstMovable(blocks)
			if block == nil {
				break
			}

			minutes := int(block.Duration() / time.Minute)
			feasibility := "medium"
			if targetMinutesPerDay > 0 && light.TotalMinutes+minutes <= targetMinutesPerDay {
				feasibility = "high"
			}

			suggestions = append(suggestions, domain.BalanceSuggestion{
				Kind:       domain.SuggestionMove,
				FromDate:   heavy.Date,
				ToDate:     light.Date,
				BlockID:    block.ID(),
				BlockTitle: block.Title(),
				Impact: fmt.Sprintf("moves %d minutes from %s to %s",
					minutes, heavy.Date.Format("Mon Jan 2"), light.Date.Format("Mon Jan 2")),
				Feasibility: feasibility,
			})
		}

		for _, block := range blocks {
			if int(block.Duration()/time.Minute) < splittableBlockMinutes {
				continue
			}
			suggestions = append(suggestions, domain.BalanceSuggestion{
				Kind:       domain.SuggestionSplit,
				FromDate:   heavy.Date,
				BlockID:    block.ID(),
				BlockTitle: block.Title(),
				Impact: fmt.Sprintf("splits a %d-minute block into smaller sessions",
					int(block.Duration()/time.Minute)),
				Feasibility: "medium",
			})
		}
	}

	return suggestions
}

func firstMovable(blocks []*domain.ScheduleBlock) *domain.ScheduleBlock {
	for _, block := range blocks {
		if block.BlockType() != domain.BlockTypeWork {
			continue
		}
		if block.IsFixed() {
			continue
		}
		if block.Duration() > movableBlockMaxMinutes*time.Minute {
			continue
		}
		return block
	}
	return nil
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}
