package dto

// Nil fields in the inputs leave the stored value unchanged.

type BreakInput struct {
	Interval *int
	Duration *int
}

type ReadingInput struct {
	FontSize     *int
	LineSpacing  *float64
	HighContrast *bool
}

type PrefsOutput struct {
	BreakInterval int
	BreakDuration int
	Focus         bool
	FontSize      int
	LineSpacing   float64
	HighContrast  bool
}
