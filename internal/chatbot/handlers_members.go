package chatbot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/models"
)

// manageMember adds or removes a user from a commission. Both directions
// are idempotent: repeating a request that is already satisfied reports
// the current state instead of failing.
func (h *Handlers) manageMember(ctx context.Context, user *models.User, params MemberParams, add bool) (*Result, error) {
	var missing []string
	if strings.TrimSpace(params.CommissionNameOrID) == "" {
		missing = append(missing, "which commission")
	}
	if strings.TrimSpace(params.UserNameOrEmail) == "" {
		missing = append(missing, "which user")
	}
	if len(missing) > 0 {
		return nil, NewValidationFailed(fmt.Sprintf("Please tell me %s you mean.", strings.Join(missing, " and ")))
	}

	commission, err := h.resolver.Commission(ctx, params.CommissionNameOrID, user, true)
	if err != nil {
		return nil, err
	}
	if err := h.policy.CanManageMembers(ctx, user, commission); err != nil {
		return nil, err
	}

	target, err := h.resolver.User(ctx, params.UserNameOrEmail)
	if err != nil {
		return nil, err
	}

	isMember, err := h.store.IsMember(ctx, commission.ID, target.ID)
	if err != nil {
		return nil, NewInternal(err)
	}

	if add {
		if isMember {
			return &Result{Reply: fmt.Sprintf("'%s' is already a member of '%s'.", target.Name, commission.Name)}, nil
		}
		if err := h.store.AddMember(ctx, commission.ID, target.ID); err != nil {
			return nil, NewInternal(err)
		}
		h.log.Info("member added via chatbot",
			zap.Int64("commission_id", commission.ID),
			zap.Int64("target_user_id", target.ID),
			zap.Int64("user_id", user.ID))
		return &Result{Reply: fmt.Sprintf("OK, I've added '%s' to the '%s' commission.", target.Name, commission.Name)}, nil
	}

	if !isMember {
		return &Result{Reply: fmt.Sprintf("'%s' is not a member of '%s', so I cannot remove them.", target.Name, commission.Name)}, nil
	}
	if err := h.store.RemoveMember(ctx, commission.ID, target.ID); err != nil {
		return nil, NewInternal(err)
	}
	h.log.Info("member removed via chatbot",
		zap.Int64("commission_id", commission.ID),
		zap.Int64("target_user_id", target.ID),
		zap.Int64("user_id", user.ID))
	return &Result{Reply: fmt.Sprintf("OK, I've removed '%s' from the '%s' commission.", target.Name, commission.Name)}, nil
}
