package in

import (
	"context"

	reportdto "studydesk/internal/modules/report/dto"
	reportin "studydesk/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, path string, into bool, upcoming, achievements int) (reportdto.ExportOutput, error) {
	return h.usecase.Export(ctx, reportdto.ExportInput{Path: path, Into: into, UpcomingLimit: upcoming, AchievementLimit: achievements})
}
