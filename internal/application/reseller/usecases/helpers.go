package usecases

import (
	"context"
	"errors"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/application/reseller/services"
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	apperrors "panelsync/internal/shared/errors"
)

func notFoundOr(err error, sentinel error, message string) error {
	if errors.Is(err, sentinel) {
		return apperrors.NewNotFoundError(message)
	}
	return err
}

// translateError maps domain failures of manual actions to application
// errors. Anything unknown is returned unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case panel.IsMissingConfiguration(err):
		return apperrors.NewValidationError("panel is not configured for this config", err.Error())
	case errors.Is(err, reseller.ErrLimitBelowUsage),
		errors.Is(err, reseller.ErrExpiryInPast):
		return apperrors.NewValidationError(err.Error())
	case errors.Is(err, reseller.ErrConfigDeleted):
		return apperrors.NewConflictError("config is deleted")
	case errors.Is(err, reseller.ErrInvalidStatusTransition):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, reseller.ErrConcurrentModification):
		return apperrors.NewConflictError("config was modified concurrently, retry the request")
	}
	return err
}

func loadConfig(ctx context.Context, repo reseller.ConfigRepository, id uint) (*reseller.Config, error) {
	cfg, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperrors.NewNotFoundError("config not found")
	}
	return cfg, nil
}

func loadReseller(ctx context.Context, repo reseller.ResellerRepository, id uint) (*reseller.Reseller, error) {
	r, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperrors.NewNotFoundError("reseller not found")
	}
	return r, nil
}

// configActionResult reports a manual config action. A failed panel call
// after a successful local change is a warning, not an error.
func configActionResult(res *services.TransitionResult) *dto.ActionResult {
	out := &dto.ActionResult{Result: dto.ResultSucceeded, Config: dto.ToConfigDTO(res.Config)}
	if res.RemoteFailed() {
		out.Result = dto.ResultSucceededWithWarning
		if res.Outcome.LastError != nil {
			out.Warning = res.Outcome.LastError.Error()
		} else {
			out.Warning = "panel update failed"
		}
	}
	return out
}
