package usecase

import (
	"context"
	"fmt"
	"strings"

	reportdto "studydesk/internal/modules/report/dto"
	reportin "studydesk/internal/modules/report/port/in"
	"studydesk/internal/modules/report/service"
	apperrors "studydesk/internal/platform/errors"
)

const (
	defaultUpcoming     = 5
	defaultAchievements = 5
)

type Interactor struct {
	svc *service.ReportService
}

func NewInteractor(svc *service.ReportService) reportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Export(ctx context.Context, input reportdto.ExportInput) (reportdto.ExportOutput, error) {
	path := strings.TrimSpace(input.Path)
	if input.Into && path == "" {
		return reportdto.ExportOutput{}, fmt.Errorf("%w: a note path is required to embed the report", apperrors.ErrInvalidInput)
	}
	upcoming := input.UpcomingLimit
	if upcoming <= 0 {
		upcoming = defaultUpcoming
	}
	achievements := input.AchievementLimit
	if achievements <= 0 {
		achievements = defaultAchievements
	}

	r, err := i.svc.Build(ctx, upcoming, achievements)
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	var content string
	if input.Into {
		content, err = i.svc.Embed(ctx, r, path)
	} else {
		content, err = i.svc.Document(r)
	}
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	out := reportdto.ExportOutput{Path: path, Content: content}
	if path == "" {
		return out, nil
	}
	if err := i.svc.Write(ctx, path, content); err != nil {
		return reportdto.ExportOutput{}, err
	}
	out.Written = true
	return out, nil
}
