package dto

import "time"

type AddInput struct {
	Text    string
	Subject string
}

type TaskOutput struct {
	ID          string
	ShortID     string
	Text        string
	Subject     string
	Completed   bool
	Created     time.Time
	CompletedAt time.Time
}
