package dto

import "time"

type AchievementOutput struct {
	ID       string
	Rule     string
	Title    string
	Message  string
	Icon     string
	EarnedAt time.Time
}

type RuleOutput struct {
	ID     string
	Title  string
	Icon   string
	Earned int
}
