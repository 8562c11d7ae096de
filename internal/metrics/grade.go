package metrics

import (
	"math"

	"github.com/nurulquran/academy-backend/internal/model"
)

// GradePercentage returns 100 * score / totalScore, clamped into [0, 100].
// It refuses data that would produce a meaningless figure.
func GradePercentage(score, totalScore float64) (float64, error) {
	if totalScore <= 0 || score < 0 || score > totalScore ||
		math.IsNaN(score) || math.IsNaN(totalScore) || math.IsInf(totalScore, 0) {
		return 0, &model.InvalidGradeDataError{Score: score, TotalScore: totalScore}
	}
	return clamp(100*score/totalScore, 0, 100), nil
}

// LetterGrade maps a percentage to A (>=90), B (>=80), C (>=70), D (>=60) or F.
func LetterGrade(percentage float64) model.Letter {
	switch {
	case percentage >= 90:
		return model.LetterA
	case percentage >= 80:
		return model.LetterB
	case percentage >= 70:
		return model.LetterC
	case percentage >= 60:
		return model.LetterD
	default:
		return model.LetterF
	}
}

// DetailedLetterGrade refines LetterGrade with +/- suffixes for display.
// The base letter always equals LetterGrade(percentage).
func DetailedLetterGrade(percentage float64) string {
	letter := LetterGrade(percentage)
	if letter == model.LetterF {
		return string(letter)
	}

	// Offset into the 10-point band of the letter.
	band := percentage - (90 - 10*letterRank(letter))
	switch {
	case band >= 7:
		return string(letter) + "+"
	case band < 3:
		return string(letter) + "-"
	default:
		return string(letter)
	}
}

func letterRank(l model.Letter) float64 {
	switch l {
	case model.LetterA:
		return 0
	case model.LetterB:
		return 1
	case model.LetterC:
		return 2
	default:
		return 3
	}
}

// GradeResult is one record with its derived figures.
type GradeResult struct {
	Record     model.GradeRecord `json:"record"`
	Percentage float64           `json:"percentage"`
	Letter     model.Letter      `json:"letter"`
	Detailed   string            `json:"detailed_letter"`
}

// Grade derives the figures for one record.
func Grade(r model.GradeRecord) (GradeResult, error) {
	pct, err := GradePercentage(r.Score, r.TotalScore)
	if err != nil {
		return GradeResult{}, err
	}
	return GradeResult{
		Record:     r,
		Percentage: pct,
		Letter:     LetterGrade(pct),
		Detailed:   DetailedLetterGrade(pct),
	}, nil
}

// GradeSummary aggregates a student's grade records.
type GradeSummary struct {
	Results []GradeResult `json:"results"`
	// Invalid holds records rejected by GradePercentage.
	Invalid           []model.GradeRecord `json:"invalid,omitempty"`
	AveragePercentage float64             `json:"average_percentage"`
	AverageLetter     model.Letter        `json:"average_letter"`
}

// SummarizeGrades derives per-record and average figures. Invalid records are
// reported separately and excluded from the average. An empty set averages
// to zero with letter F.
func SummarizeGrades(records []model.GradeRecord) GradeSummary {
	summary := GradeSummary{Results: make([]GradeResult, 0, len(records))}

	var sum float64
	for _, r := range records {
		result, err := Grade(r)
		if err != nil {
			summary.Invalid = append(summary.Invalid, r)
			continue
		}
		summary.Results = append(summary.Results, result)
		sum += result.Percentage
	}

	if n := len(summary.Results); n > 0 {
		summary.AveragePercentage = math.Round(sum/float64(n)*100) / 100
	}
	summary.AverageLetter = LetterGrade(summary.AveragePercentage)
	return summary
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
