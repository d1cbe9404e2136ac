package dto

type ExportInput struct {
	// Path empty means render only.
	Path string
	// Into splices the report into an existing note's managed block instead
	// of replacing the file.
	Into             bool
	UpcomingLimit    int
	AchievementLimit int
}

type ExportOutput struct {
	Path    string
	Content string
	Written bool
}
