package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurulquran/academy-backend/internal/model"
)

func TestGradePercentage(t *testing.T) {
	pct, err := GradePercentage(85, 100)
	require.NoError(t, err)
	assert.Equal(t, 85.0, pct)

	pct, err = GradePercentage(0, 40)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)

	pct, err = GradePercentage(40, 40)
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)
}

func TestGradePercentageRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name         string
		score, total float64
	}{
		{name: "score above total", score: 101, total: 100},
		{name: "zero total", score: 0, total: 0},
		{name: "negative total", score: 5, total: -10},
		{name: "negative score", score: -1, total: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GradePercentage(tt.score, tt.total)
			var gradeErr *model.InvalidGradeDataError
			require.ErrorAs(t, err, &gradeErr)
			assert.Equal(t, tt.score, gradeErr.Score)
		})
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want model.Letter
	}{
		{100, model.LetterA},
		{92, model.LetterA},
		{90, model.LetterA},
		{89.99, model.LetterB},
		{85, model.LetterB},
		{80, model.LetterB},
		{70, model.LetterC},
		{60, model.LetterD},
		{59.9, model.LetterF},
		{0, model.LetterF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LetterGrade(tt.pct), "percentage %v", tt.pct)
	}
}

func TestDetailedLetterGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{98, "A+"},
		{95, "A"},
		{91, "A-"},
		{88, "B+"},
		{85, "B"},
		{80, "B-"},
		{72, "C-"},
		{66, "D"},
		{40, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetailedLetterGrade(tt.pct), "percentage %v", tt.pct)
	}
}

func TestSummarizeGrades(t *testing.T) {
	summary := SummarizeGrades([]model.GradeRecord{
		{ExamType: "midterm", Score: 45, TotalScore: 50},
		{ExamType: "final", Score: 70, TotalScore: 100},
		{ExamType: "quiz", Score: 12, TotalScore: 10},
	})

	require.Len(t, summary.Results, 2)
	require.Len(t, summary.Invalid, 1)
	assert.Equal(t, "quiz", summary.Invalid[0].ExamType)
	assert.Equal(t, 80.0, summary.AveragePercentage)
	assert.Equal(t, model.LetterB, summary.AverageLetter)
	assert.Equal(t, "A-", summary.Results[0].Detailed)
}

func TestSummarizeGradesEmpty(t *testing.T) {
	summary := SummarizeGrades(nil)
	assert.Empty(t, summary.Results)
	assert.Equal(t, 0.0, summary.AveragePercentage)
	assert.Equal(t, model.LetterF, summary.AverageLetter)
}
