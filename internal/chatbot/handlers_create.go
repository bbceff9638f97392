package chatbot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/models"
)

var gpsRe = regexp.MustCompile(`^-?\d{1,3}(\.\d+)?\s*,\s*-?\d{1,3}(\.\d+)?$`)

func (h *Handlers) createCommission(ctx context.Context, user *models.User, params CreateCommissionParams) (*Result, error) {
	if err := h.policy.CanCreateCommission(ctx, user); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, NewValidationFailed("I need a name to create the commission.")
	}

	exists, err := h.store.CommissionNameExists(ctx, name)
	if err != nil {
		return nil, NewInternal(err)
	}
	if exists {
		return nil, NewValidationFailed("A commission with that name already exists.")
	}

	commission := &models.Commission{Name: name, Description: strings.TrimSpace(params.Description)}
	if err := h.store.CreateCommission(ctx, commission); err != nil {
		return nil, NewInternal(err)
	}
	if err := h.store.AddMember(ctx, commission.ID, user.ID); err != nil {
		return nil, NewInternal(err)
	}

	h.log.Info("commission created via chatbot",
		zap.Int64("commission_id", commission.ID),
		zap.Int64("user_id", user.ID))

	return &Result{Reply: fmt.Sprintf("Done! I've created the '%s' commission (ID: %d) and added you as a member.", commission.Name, commission.ID)}, nil
}

func (h *Handlers) createMeeting(ctx context.Context, user *models.User, params CreateMeetingParams) (*Result, error) {
	var missing []string
	if strings.TrimSpace(params.Title) == "" {
		missing = append(missing, "a title")
	}
	if strings.TrimSpace(params.Date) == "" {
		missing = append(missing, "a date")
	}
	if strings.TrimSpace(params.CommissionNameOrID) == "" {
		missing = append(missing, "the commission")
	}
	if len(missing) > 0 {
		return nil, NewValidationFailed(fmt.Sprintf("To create a meeting I still need %s. You can ask me to suggest details if you're unsure.", strings.Join(missing, ", ")))
	}

	commission, err := h.resolver.Commission(ctx, params.CommissionNameOrID, user, true)
	if err != nil {
		return nil, err
	}
	if err := h.policy.CanCreateMeeting(ctx, user, commission); err != nil {
		return nil, err
	}

	loc := h.userLocation(user)
	date, err := NormalizeMeetingDate(params.Date, h.now().In(loc))
	if err != nil {
		return nil, err
	}

	gps := strings.TrimSpace(params.GPS)
	if gps != "" && !gpsRe.MatchString(gps) {
		return nil, NewValidationFailed("The GPS coordinates don't look right. Please use the 'latitude, longitude' format, like '48.8566, 2.3522'.")
	}

	location := strings.TrimSpace(params.Location)
	if location == "" {
		location = "To be determined"
	}

	meeting := &models.Meeting{
		CommissionID: commission.ID,
		Title:        strings.TrimSpace(params.Title),
		Date:         date,
		Location:     location,
		GPS:          gps,
	}
	if err := h.store.CreateMeeting(ctx, meeting); err != nil {
		return nil, NewInternal(err)
	}

	h.log.Info("meeting created via chatbot",
		zap.Int64("meeting_id", meeting.ID),
		zap.Int64("commission_id", commission.ID),
		zap.Int64("user_id", user.ID))

	return &Result{Reply: fmt.Sprintf("All set! I've scheduled '%s' for the '%s' commission on %s at %s.",
		meeting.Title, commission.Name, date.Format("Mon, Jan 2 2006 at 15:04"), meeting.Location)}, nil
}
