package chatbot

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/models"
)

var commissionPathRe = regexp.MustCompile(`^/commissions/(\d+)(/.*)?$`)

// Navigate guards a navigation request from the model. Known targets are
// checked against the policy; anything off the allowlist is denied with a
// fixed message. A missing target reads as the model asking where to go,
// which is a clarification, not a failure.
func (h *Handlers) Navigate(ctx context.Context, user *models.User, nav *NavigateReply) (*Result, error) {
	target := strings.TrimSpace(nav.Target)
	if target == "" {
		return &Result{Reply: "I'm not sure where you want to navigate to."}, nil
	}

	var err error
	switch {
	case target == "/generate-pv":
		err = h.policy.CanGeneratePV(ctx, user)
	case target == "/send-email":
		err = h.policy.CanSendEmail(ctx, user)
	case target == "/users":
		err = h.policy.CanViewUsers(ctx, user)
	case target == "/meetings", target == "/commissions":
		err = h.policy.CanNavigate(ctx, user, target)
	default:
		m := commissionPathRe.FindStringSubmatch(target)
		if m == nil {
			h.log.Warn("navigation target denied",
				zap.String("target", target),
				zap.Int64("user_id", user.ID))
			return nil, NewPermissionDenied("I cannot navigate to that location.")
		}
		id, _ := strconv.ParseInt(m[1], 10, 64)
		err = h.policy.CanViewCommission(ctx, user, id)
	}
	if err != nil {
		return nil, err
	}

	text := nav.Text
	if text == "" {
		text = "Okay, navigating..."
	}
	return &Result{
		Reply: text,
		Action: &Action{
			Type:   "navigate",
			Target: target,
			Params: nav.Params,
		},
	}, nil
}
