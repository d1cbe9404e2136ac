package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultBreakInterval = 15
	DefaultBreakDuration = 5

	DefaultFontSize    = 100
	MinFontSize        = 80
	MaxFontSize        = 150
	DefaultLineSpacing = 1.6
	MinLineSpacing     = 1.2
	MaxLineSpacing     = 2.5
)

// Break holds minutes of study between breaks and minutes per break.
type Break struct {
	Interval int `json:"breakInterval"`
	Duration int `json:"breakDuration"`
}

// WithDefaults fills fields an older or partial record left unset.
func (b Break) WithDefaults() Break {
	if b.Interval <= 0 {
		b.Interval = DefaultBreakInterval
	}
	if b.Duration <= 0 {
		b.Duration = DefaultBreakDuration
	}
	return b
}

func (b Break) Validate() error {
	if b.Interval < 1 || b.Interval > 240 {
		return fmt.Errorf("break interval must be between 1 and 240 minutes, got %d", b.Interval)
	}
	if b.Duration < 1 || b.Duration > 60 {
		return fmt.Errorf("break duration must be between 1 and 60 minutes, got %d", b.Duration)
	}
	return nil
}

// NextBreak reports how long until a break is due for a stretch of study
// that began at start, repeating every interval. Zero means one is due now.
func (b Break) NextBreak(start, now time.Time) time.Duration {
	b = b.WithDefaults()
	interval := time.Duration(b.Interval) * time.Minute
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return interval
	}
	if elapsed > 0 && elapsed%interval == 0 {
		return 0
	}
	return interval - elapsed%interval
}

type Focus struct {
	Enabled bool `json:"enabled"`
}

type Reading struct {
	FontSize     int     `json:"fontSize"`
	LineSpacing  float64 `json:"lineSpacing"`
	HighContrast bool    `json:"highContrast"`
}

func (r Reading) WithDefaults() Reading {
	if r.FontSize == 0 {
		r.FontSize = DefaultFontSize
	}
	if r.LineSpacing == 0 {
		r.LineSpacing = DefaultLineSpacing
	}
	return r
}

// Clamp keeps font size and line spacing inside the supported range.
func (r Reading) Clamp() Reading {
	r = r.WithDefaults()
	r.FontSize = min(max(r.FontSize, MinFontSize), MaxFontSize)
	if math.IsNaN(r.LineSpacing) {
		r.LineSpacing = DefaultLineSpacing
	}
	r.LineSpacing = math.Round(min(max(r.LineSpacing, MinLineSpacing), MaxLineSpacing)*10) / 10
	return r
}

type Preferences struct {
	Break   Break
	Focus   Focus
	Reading Reading
}

func Defaults() Preferences {
	return Preferences{
		Break:   Break{}.WithDefaults(),
		Reading: Reading{}.WithDefaults(),
	}
}
