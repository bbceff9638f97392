package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"commission-assistant-backend/internal/models"
)

const defaultMeetingLocation = "Conference Room A"

// suggestDetails derives sensible defaults for a meeting the user is about
// to create. Nothing here mutates state: the defaults come back as a
// structured suggestions map plus a readable explanation, and the frontend
// pre-fills the creation form with them.
func (h *Handlers) suggestDetails(ctx context.Context, user *models.User, params SuggestParams) (*Result, error) {
	if params.ItemType != "" && params.ItemType != "meeting" {
		return &Result{Reply: fmt.Sprintf("I can suggest meeting details, but I don't know how to suggest '%s' yet.", params.ItemType)}, nil
	}

	commission, err := h.store.LastMeetingCommission(ctx, user.ID)
	if err != nil {
		return nil, NewInternal(err)
	}
	if commission == nil {
		commission, err = h.store.FirstCommission(ctx, user.ID)
		if err != nil {
			return nil, NewInternal(err)
		}
	}
	if commission == nil {
		return &Result{Reply: "I'd love to suggest meeting details, but you're not a member of any commission yet. Create or join one first."}, nil
	}

	loc := h.userLocation(user)
	slot := nextMeetingSlot(h.now().In(loc))

	location, err := h.store.LastPhysicalLocation(ctx, user.ID)
	if err != nil {
		return nil, NewInternal(err)
	}
	if location == "" {
		location = defaultMeetingLocation
	}

	title := suggestedTitle(params.Context)

	suggestions := map[string]any{
		"commission_id":   commission.ID,
		"commission_name": commission.Name,
		"title":           title,
		"date":            slot.Format("2006-01-02 15:04"),
		"location":        location,
	}

	reply := fmt.Sprintf("Here's what I'd suggest for your next meeting:\n- Commission: '%s'\n- Title: '%s'\n- Date: %s\n- Location: %s\nSay 'create it' or adjust any detail you like.",
		commission.Name, title, slot.Format("Monday, Jan 2 at 15:04"), location)

	return &Result{Reply: reply, Suggestions: suggestions}, nil
}

// nextMeetingSlot picks the next 10:00 or 14:00 slot: today's 10:00 if it
// is still ahead, else today's 14:00, else tomorrow 10:00. Slots landing
// on a weekend roll forward to Monday.
func nextMeetingSlot(now time.Time) time.Time {
	day := startOfDay(now)
	morning := day.Add(10 * time.Hour)
	afternoon := day.Add(14 * time.Hour)

	var slot time.Time
	switch {
	case now.Before(morning):
		slot = morning
	case now.Before(afternoon):
		slot = afternoon
	default:
		slot = morning.AddDate(0, 0, 1)
	}

	for slot.Weekday() == time.Saturday || slot.Weekday() == time.Sunday {
		slot = slot.AddDate(0, 0, 1)
	}
	return slot
}

// suggestedTitle title-cases the context phrase and appends "Meeting".
func suggestedTitle(context string) string {
	context = strings.TrimSpace(context)
	if context == "" {
		return "Planning Meeting"
	}
	words := strings.Fields(strings.ToLower(context))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Meeting"
}
