package chatbot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/models"
)

// Result is a handled turn: reply text plus optional structured payloads
// for the frontend to act on.
type Result struct {
	Reply       string         `json:"reply"`
	Suggestions map[string]any `json:"suggestions,omitempty"`
	Action      *Action        `json:"action,omitempty"`
}

// Action instructs the frontend to navigate or download.
type Action struct {
	Type     string         `json:"type"`
	Target   string         `json:"target,omitempty"`
	URL      string         `json:"url,omitempty"`
	Filename string         `json:"filename,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// Store is the persistence surface the handlers need.
type Store interface {
	Directory

	UserCommissions(ctx context.Context, userID int64) ([]models.Commission, error)
	ListMeetings(ctx context.Context, f MeetingFilter) ([]models.Meeting, error)
	ListUsers(ctx context.Context, f UserFilter) ([]models.User, error)
	ListPVs(ctx context.Context, f PVFilter) ([]models.PV, error)

	CommissionNameExists(ctx context.Context, name string) (bool, error)
	CreateCommission(ctx context.Context, c *models.Commission) error
	CreateMeeting(ctx context.Context, m *models.Meeting) error
	AddMember(ctx context.Context, commissionID, userID int64) error
	RemoveMember(ctx context.Context, commissionID, userID int64) error

	LastMeetingCommission(ctx context.Context, userID int64) (*models.Commission, error)
	FirstCommission(ctx context.Context, userID int64) (*models.Commission, error)
	LastPhysicalLocation(ctx context.Context, userID int64) (string, error)
	PVByID(ctx context.Context, id int64) (*models.PV, error)
}

// MeetingFilter narrows a meeting list query. CommissionIDs scopes to the
// acting user's commissions; CommissionID narrows further when non-zero.
type MeetingFilter struct {
	CommissionIDs []int64
	CommissionID  int64
	From          *time.Time
	To            *time.Time
	Ascending     bool
	Limit         int
}

type UserFilter struct {
	CommissionID int64
	NameOrEmail  string
	Limit        int
}

type PVFilter struct {
	CommissionIDs []int64
	CommissionID  int64
	MeetingTitle  string
	From          *time.Time
	To            *time.Time
	Limit         int
}

// LinkGenerator produces the download URL for a PV's rendered text.
type LinkGenerator interface {
	PVTextURL(pvID int64) string
}

// Handlers owns the intent dispatch and the per-intent operations. The
// acting user is threaded through every call; there is no ambient session
// state.
type Handlers struct {
	store    Store
	resolver *Resolver
	policy   Policy
	links    LinkGenerator
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewHandlers(store Store, policy Policy, links LinkGenerator, loc *time.Location, log *zap.Logger) *Handlers {
	if policy == nil {
		policy = AllowAll{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handlers{
		store:    store,
		resolver: NewResolver(store),
		policy:   policy,
		links:    links,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

// Route dispatches a recognized intent to its handler. A well-formed but
// unsupported intent kind gets a polite reply rather than an error: the
// kind string comes from the upstream model, not from the caller.
func (h *Handlers) Route(ctx context.Context, user *models.User, intent *IntentReply) (*Result, error) {
	h.log.Debug("handling intent",
		zap.String("intent", string(intent.Kind)),
		zap.Int64("user_id", user.ID))

	switch intent.Kind {
	case IntentListCommissions:
		return h.listCommissions(ctx, user)
	case IntentListMeetings:
		return h.listMeetings(ctx, user, decodeListMeetingsParams(intent.Params))
	case IntentListUsers:
		return h.listUsers(ctx, user, decodeListUsersParams(intent.Params))
	case IntentListPVs:
		return h.listPVs(ctx, user, decodeListPVsParams(intent.Params))
	case IntentCreateCommission:
		return h.createCommission(ctx, user, decodeCreateCommissionParams(intent.Params))
	case IntentCreateMeeting:
		return h.createMeeting(ctx, user, decodeCreateMeetingParams(intent.Params))
	case IntentAddMember:
		return h.manageMember(ctx, user, decodeMemberParams(intent.Params), true)
	case IntentRemoveMember:
		return h.manageMember(ctx, user, decodeMemberParams(intent.Params), false)
	case IntentSuggestDetails:
		return h.suggestDetails(ctx, user, decodeSuggestParams(intent.Params))
	case IntentGeneratePVText:
		return h.generatePVText(ctx, user, intent.Params)
	default:
		h.log.Warn("unhandled structured intent",
			zap.String("intent", string(intent.Kind)),
			zap.Int64("user_id", user.ID))
		return &Result{Reply: fmt.Sprintf("I understood the request type '%s', but I cannot perform that specific action yet.", intent.Kind)}, nil
	}
}

// userLocation resolves the acting user's timezone, falling back to the
// configured default when unset or invalid.
func (h *Handlers) userLocation(user *models.User) *time.Location {
	if user.Timezone != "" {
		if loc, err := time.LoadLocation(user.Timezone); err == nil {
			return loc
		}
	}
	return h.loc
}
