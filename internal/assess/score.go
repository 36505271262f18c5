package assess

// Scores maps dimension codes to raw scores on a 0..100 scale.
type Scores map[string]float64

// Grade labels, ordered from best to worst.
const (
	GradeExcellent        = "优秀"
	GradeGood             = "良好"
	GradePass             = "合格"
	GradeNeedsImprovement = "待改进"
)

// Grade cut-offs on the total score.
const (
	ThresholdExcellent = 85
	ThresholdGood      = 75
	ThresholdPass      = 60
)

// Weight is the contribution of a single dimension to the total score.
// All dimensions weigh the same.
func Weight() float64 {
	return 1 / float64(len(Dimensions))
}

// Valid reports whether s is a usable dimension score.
func Valid(s float64) bool {
	return s >= 0 && s <= 100
}

// FillMissing returns a copy of scores with every known dimension present,
// missing ones set to 0. Unknown codes are dropped.
func FillMissing(scores Scores) Scores {
	filled := make(Scores, len(Dimensions))
	for _, d := range Dimensions {
		filled[d.Code] = scores[d.Code]
	}
	return filled
}

// Total computes the weighted total score. Missing dimensions count as 0.
func Total(scores Scores) float64 {
	w := Weight()
	total := 0.0
	for _, d := range Dimensions {
		total += scores[d.Code] * w
	}
	return total
}

// GradeFor maps a total score to its grade label.
func GradeFor(total float64) string {
	switch {
	case total >= ThresholdExcellent:
		return GradeExcellent
	case total >= ThresholdGood:
		return GradeGood
	case total >= ThresholdPass:
		return GradePass
	default:
		return GradeNeedsImprovement
	}
}

// Suggestion carries the improvement tips for one underperforming dimension.
type Suggestion struct {
	Code  string   `json:"code"`
	Label string   `json:"label"`
	Score float64  `json:"score"`
	Tips  []string `json:"tips"`
}

// Advice returns improvement suggestions for every dimension scoring below
// the pass threshold, in canonical dimension order.
func Advice(scores Scores) []Suggestion {
	var out []Suggestion
	for _, d := range Dimensions {
		s := scores[d.Code]
		if s < ThresholdPass {
			out = append(out, Suggestion{
				Code:  d.Code,
				Label: d.Label,
				Score: s,
				Tips:  d.Tips,
			})
		}
	}
	return out
}
