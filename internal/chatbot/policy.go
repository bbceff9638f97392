package chatbot

import (
	"context"

	"commission-assistant-backend/internal/models"
)

// Policy is the authorization seam for chatbot actions: one method per
// guarded action, returning nil to allow or a *Error (normally
// PermissionDenied) to refuse. The default deployment allows everything.
type Policy interface {
	CanCreateCommission(ctx context.Context, user *models.User) error
	CanCreateMeeting(ctx context.Context, user *models.User, commission *models.Commission) error
	CanManageMembers(ctx context.Context, user *models.User, commission *models.Commission) error
	CanViewUsers(ctx context.Context, user *models.User) error
	CanGeneratePV(ctx context.Context, user *models.User) error
	CanSendEmail(ctx context.Context, user *models.User) error
	CanViewCommission(ctx context.Context, user *models.User, commissionID int64) error
	CanNavigate(ctx context.Context, user *models.User, target string) error
}

// AllowAll is the default permissive policy.
type AllowAll struct{}

func (AllowAll) CanCreateCommission(context.Context, *models.User) error { return nil }
func (AllowAll) CanCreateMeeting(context.Context, *models.User, *models.Commission) error {
	return nil
}
func (AllowAll) CanManageMembers(context.Context, *models.User, *models.Commission) error {
	return nil
}
func (AllowAll) CanViewUsers(context.Context, *models.User) error           { return nil }
func (AllowAll) CanGeneratePV(context.Context, *models.User) error          { return nil }
func (AllowAll) CanSendEmail(context.Context, *models.User) error           { return nil }
func (AllowAll) CanViewCommission(context.Context, *models.User, int64) error {
	return nil
}
func (AllowAll) CanNavigate(context.Context, *models.User, string) error { return nil }
