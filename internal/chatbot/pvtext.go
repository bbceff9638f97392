package chatbot

import (
	"context"
	"fmt"

	"commission-assistant-backend/internal/models"
)

// generatePVText looks up a PV by ID, checks the acting user can see its
// commission, and returns a download action pointing at the rendered text.
func (h *Handlers) generatePVText(ctx context.Context, user *models.User, raw map[string]any) (*Result, error) {
	params, err := decodeGeneratePVTextParams(raw)
	if err != nil {
		return nil, err
	}
	if err := h.policy.CanGeneratePV(ctx, user); err != nil {
		return nil, err
	}

	pv, err := h.store.PVByID(ctx, params.PVID)
	if err != nil {
		return nil, NewInternal(err)
	}
	if pv == nil {
		return nil, NewNotFound(fmt.Sprintf("I couldn't find a PV with ID %d.", params.PVID))
	}

	member, err := h.store.IsMember(ctx, pv.CommissionID, user.ID)
	if err != nil {
		return nil, NewInternal(err)
	}
	if !member {
		return nil, NewMembershipRequired(fmt.Sprintf("You need to be a member of the '%s' commission to access this PV.", pv.CommissionName))
	}

	return &Result{
		Reply: fmt.Sprintf("Here is the text for PV %d (meeting '%s'). Your download should start automatically.", pv.ID, pv.MeetingTitle),
		Action: &Action{
			Type:     "download",
			URL:      h.links.PVTextURL(pv.ID),
			Filename: fmt.Sprintf("pv_%d.txt", pv.ID),
		},
	}, nil
}
