package engine

// Band maps a value range to a unit score. A band list is ordered by
// ascending threshold and always terminates in a catch-all high threshold
// so every value resolves to some score.
type Band struct {
	Threshold float64
	Score     float64
}

// Piecewise returns the score of the first band whose threshold the value
// does not exceed, or the final band's score for values past every threshold.
func Piecewise(value float64, bands []Band) float64 {
	for _, b := range bands {
		if value <= b.Threshold {
			return b.Score
		}
	}
	return bands[len(bands)-1].Score
}

var revenueYoYBands = []Band{
	{-20, 0.00}, {-10, 0.10}, {0, 0.30}, {5, 0.55},
	{10, 0.70}, {15, 0.82}, {25, 0.92}, {10000, 1.00},
}

var epsYoYBands = []Band{
	{-40, 0.00}, {-20, 0.10}, {0, 0.30}, {10, 0.55},
	{20, 0.72}, {35, 0.85}, {50, 0.94}, {10000, 1.00},
}

var marginLevelBands = []Band{
	{0, 0.00}, {5, 0.15}, {10, 0.30}, {15, 0.50},
	{20, 0.70}, {25, 0.83}, {30, 0.93}, {10000, 1.00},
}

// Thresholds are percentage-point deltas, not percent changes.
var marginYoYBands = []Band{
	{-8, 0.00}, {-4, 0.12}, {-2, 0.28}, {0, 0.45},
	{1, 0.62}, {2, 0.76}, {4, 0.90}, {10000, 1.00},
}

var fcfYoYBands = []Band{
	{-50, 0.00}, {-25, 0.15}, {-10, 0.32}, {0, 0.50},
	{10, 0.66}, {20, 0.80}, {35, 0.92}, {10000, 1.00},
}

// Lower leverage scores higher.
var leverageBands = []Band{
	{0.0, 1.00}, {1.0, 0.88}, {2.0, 0.72}, {3.0, 0.52},
	{4.0, 0.30}, {5.0, 0.15}, {10000, 0.00},
}

type gradeStep struct {
	threshold float64
	label     string
}

var gradeScale = []gradeStep{
	{97, "A+"}, {93, "A"}, {90, "A-"},
	{87, "B+"}, {83, "B"}, {80, "B-"},
	{77, "C+"}, {73, "C"}, {70, "C-"},
	{67, "D+"}, {63, "D"}, {60, "D-"},
}

// Grade maps a 0..100 total to a letter grade, highest threshold wins.
func Grade(total float64) string {
	for _, step := range gradeScale {
		if total >= step.threshold {
			return step.label
		}
	}
	return "F"
}
