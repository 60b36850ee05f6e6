package services

import (
	stderrors "errors"

	"github.com/abrezinsky/tourneytracker/internal/errors"
	"github.com/abrezinsky/tourneytracker/internal/repository"
)

// Service errors
var (
	ErrSessionCompleted = errors.Conflict("session is completed; games and penalties can no longer change")
	ErrTooFewTeams      = errors.Validation("a session needs at least 2 teams")
	ErrNothingToImport  = errors.Validation("No data to import")
	ErrBackupsDisabled  = errors.Validation("backup directory is not configured")
	ErrPenaltyPositive  = errors.Validation("penalty value must be zero or negative")
)

// fromRepo translates a repository error into an application error.
// what names the record for not-found messages.
func fromRepo(err error, what string) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFoundf("%s not found", what)
	case stderrors.Is(err, repository.ErrSessionCompleted):
		return ErrSessionCompleted
	}
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.Wrap(err, errors.ErrInternal, "storage error")
}
