package chatbot

import (
	"context"
	"fmt"
	"strings"

	"commission-assistant-backend/internal/models"
)

const (
	meetingListLimit = 15
	userListLimit    = 20
	pvListLimit      = 10
)

func (h *Handlers) listCommissions(ctx context.Context, user *models.User) (*Result, error) {
	commissions, err := h.store.UserCommissions(ctx, user.ID)
	if err != nil {
		return nil, NewInternal(err)
	}
	if len(commissions) == 0 {
		return &Result{Reply: "You are not currently a member of any commissions."}, nil
	}

	var b strings.Builder
	b.WriteString("Here are the commissions you are a member of:")
	for _, c := range commissions {
		fmt.Fprintf(&b, "\n- %s (ID: %d)", c.Name, c.ID)
	}
	return &Result{Reply: b.String()}, nil
}

func (h *Handlers) listMeetings(ctx context.Context, user *models.User, params ListMeetingsParams) (*Result, error) {
	commissions, err := h.store.UserCommissions(ctx, user.ID)
	if err != nil {
		return nil, NewInternal(err)
	}
	if len(commissions) == 0 {
		return &Result{Reply: "You need to be in a commission to see meetings."}, nil
	}

	filter := MeetingFilter{CommissionIDs: commissionIDs(commissions), Limit: meetingListLimit}
	timeframeDesc := ""
	if params.Timeframe != "" {
		tr, err := ParseTimeframe(params.Timeframe, h.now().In(h.userLocation(user)))
		if err != nil {
			return nil, err
		}
		filter.From, filter.To, filter.Ascending = tr.From, tr.To, tr.Ascending
		timeframeDesc = tr.Description
	}

	commissionContext := ""
	if params.CommissionNameOrID != "" {
		// Membership is required: the user is listing meetings FOR a
		// commission they should belong to.
		commission, err := h.resolver.Commission(ctx, params.CommissionNameOrID, user, true)
		if err != nil {
			return nil, err
		}
		filter.CommissionID = commission.ID
		commissionContext = fmt.Sprintf(" for the '%s' commission", commission.Name)
	}

	meetings, err := h.store.ListMeetings(ctx, filter)
	if err != nil {
		return nil, NewInternal(err)
	}
	if len(meetings) == 0 {
		return &Result{Reply: fmt.Sprintf("No meetings found%s%s.", commissionContext, timeframeDesc)}, nil
	}

	loc := h.userLocation(user)
	var b strings.Builder
	fmt.Fprintf(&b, "Here are the meetings%s%s:", commissionContext, timeframeDesc)
	for _, m := range meetings {
		name := m.CommissionName
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "\n- %s (ID: %d) for '%s' on %s at %s",
			m.Title, m.ID, name, m.Date.In(loc).Format("Mon, Jan 2 15:04"), m.Location)
	}
	return &Result{Reply: b.String()}, nil
}

func (h *Handlers) listUsers(ctx context.Context, user *models.User, params ListUsersParams) (*Result, error) {
	if err := h.policy.CanViewUsers(ctx, user); err != nil {
		return nil, err
	}

	filter := UserFilter{NameOrEmail: params.NameOrEmail, Limit: userListLimit}
	commissionName := ""
	if params.CommissionNameOrID != "" {
		// Listing members of a commission does not require membership.
		commission, err := h.resolver.Commission(ctx, params.CommissionNameOrID, user, false)
		if err != nil {
			return nil, err
		}
		filter.CommissionID = commission.ID
		commissionName = commission.Name
	}

	users, err := h.store.ListUsers(ctx, filter)
	if err != nil {
		return nil, NewInternal(err)
	}

	context := ""
	if commissionName != "" {
		context = fmt.Sprintf(" in the '%s' commission", commissionName)
	}
	if params.NameOrEmail != "" {
		context += fmt.Sprintf(" matching '%s'", params.NameOrEmail)
	}
	if len(users) == 0 {
		return &Result{Reply: fmt.Sprintf("No users found%s.", context)}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are the users I found%s:", context)
	for _, u := range users {
		fmt.Fprintf(&b, "\n- %s (%s)", u.Name, u.Email)
	}
	return &Result{Reply: b.String()}, nil
}

func (h *Handlers) listPVs(ctx context.Context, user *models.User, params ListPVsParams) (*Result, error) {
	commissions, err := h.store.UserCommissions(ctx, user.ID)
	if err != nil {
		return nil, NewInternal(err)
	}
	if len(commissions) == 0 {
		return &Result{Reply: "You need to be part of a commission to view PVs."}, nil
	}

	filter := PVFilter{
		CommissionIDs: commissionIDs(commissions),
		MeetingTitle:  params.MeetingTitle,
		Limit:         pvListLimit,
	}
	filterDesc := ""
	if params.CommissionNameOrID != "" {
		commission, err := h.resolver.Commission(ctx, params.CommissionNameOrID, user, true)
		if err != nil {
			return nil, err
		}
		filter.CommissionID = commission.ID
		filterDesc += fmt.Sprintf(" for '%s' commission", commission.Name)
	}
	if params.MeetingTitle != "" {
		filterDesc += fmt.Sprintf(" for meetings titled '%s'", params.MeetingTitle)
	}
	if params.Timeframe != "" {
		tr, err := ParseTimeframe(params.Timeframe, h.now().In(h.userLocation(user)))
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = tr.From, tr.To
		filterDesc += fmt.Sprintf(" from timeframe '%s'", params.Timeframe)
	}

	pvs, err := h.store.ListPVs(ctx, filter)
	if err != nil {
		return nil, NewInternal(err)
	}
	if len(pvs) == 0 {
		return &Result{Reply: fmt.Sprintf("No PVs found matching your criteria%s.", filterDesc)}, nil
	}

	loc := h.userLocation(user)
	var b strings.Builder
	fmt.Fprintf(&b, "Here are the latest PVs%s:", filterDesc)
	for _, pv := range pvs {
		title := pv.MeetingTitle
		if title == "" {
			title = "Unknown Meeting"
		}
		name := pv.CommissionName
		if name == "" {
			name = "Unknown Commission"
		}
		fmt.Fprintf(&b, "\n- PV ID %d for meeting '%s' (%s on %s)",
			pv.ID, title, name, pv.MeetingDate.In(loc).Format("Jan 2, 2006"))
	}
	b.WriteString("\nYou can ask to generate the text for a specific PV using its ID (e.g., 'generate pv text for id 123').")
	return &Result{Reply: b.String()}, nil
}

func commissionIDs(commissions []models.Commission) []int64 {
	ids := make([]int64, 0, len(commissions))
	for _, c := range commissions {
		ids = append(ids, c.ID)
	}
	return ids
}
