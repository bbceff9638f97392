package chatbot

import (
	"fmt"
	"strconv"
	"strings"
)

// IntentKind is the classified high-level request derived from LLM output.
type IntentKind string

const (
	IntentListCommissions  IntentKind = "list_commissions"
	IntentListMeetings     IntentKind = "list_meetings"
	IntentListUsers        IntentKind = "list_users"
	IntentListPVs          IntentKind = "list_pvs"
	IntentCreateCommission IntentKind = "create_commission"
	IntentCreateMeeting    IntentKind = "create_meeting"
	IntentAddMember        IntentKind = "add_commission_member"
	IntentRemoveMember     IntentKind = "remove_commission_member"
	IntentSuggestDetails   IntentKind = "suggest_details"
	IntentGeneratePVText   IntentKind = "generate_pv_text"
)

// Typed parameter structs, decoded from the generic params map at the
// router boundary. Missing keys decode to zero values; each handler
// enforces its own required/format rules.

type ListMeetingsParams struct {
	Timeframe          string
	CommissionNameOrID string
}

type ListUsersParams struct {
	CommissionNameOrID string
	NameOrEmail        string
}

type ListPVsParams struct {
	CommissionNameOrID string
	MeetingTitle       string
	Timeframe          string
}

type CreateCommissionParams struct {
	Name        string
	Description string
}

type CreateMeetingParams struct {
	Title              string
	Date               string
	Location           string
	GPS                string
	CommissionNameOrID string
}

type MemberParams struct {
	CommissionNameOrID string
	UserNameOrEmail    string
}

type SuggestParams struct {
	ItemType string
	Context  string
}

type GeneratePVTextParams struct {
	PVID int64
}

func decodeListMeetingsParams(params map[string]any) ListMeetingsParams {
	return ListMeetingsParams{
		Timeframe:          paramString(params, "timeframe"),
		CommissionNameOrID: paramString(params, "commission_name_or_id"),
	}
}

func decodeListUsersParams(params map[string]any) ListUsersParams {
	return ListUsersParams{
		CommissionNameOrID: paramString(params, "commission_name_or_id"),
		NameOrEmail:        paramString(params, "name_or_email"),
	}
}

func decodeListPVsParams(params map[string]any) ListPVsParams {
	return ListPVsParams{
		CommissionNameOrID: paramString(params, "commission_name_or_id"),
		MeetingTitle:       paramString(params, "meeting_title"),
		Timeframe:          paramString(params, "timeframe"),
	}
}

func decodeCreateCommissionParams(params map[string]any) CreateCommissionParams {
	return CreateCommissionParams{
		Name:        paramString(params, "name"),
		Description: paramString(params, "description"),
	}
}

func decodeCreateMeetingParams(params map[string]any) CreateMeetingParams {
	return CreateMeetingParams{
		Title:              paramString(params, "title"),
		Date:               paramString(params, "date"),
		Location:           paramString(params, "location"),
		GPS:                paramString(params, "gps"),
		CommissionNameOrID: paramString(params, "commission_name_or_id"),
	}
}

func decodeMemberParams(params map[string]any) MemberParams {
	return MemberParams{
		CommissionNameOrID: paramString(params, "commission_name_or_id"),
		UserNameOrEmail:    paramString(params, "user_name_or_email"),
	}
}

func decodeSuggestParams(params map[string]any) SuggestParams {
	return SuggestParams{
		ItemType: strings.ToLower(paramString(params, "item_type")),
		Context:  paramString(params, "context"),
	}
}

func decodeGeneratePVTextParams(params map[string]any) (GeneratePVTextParams, error) {
	v, ok := params["pv_id"]
	if !ok || v == nil {
		return GeneratePVTextParams{}, NewValidationFailed("Which PV do you want the text for? Please provide the PV ID number.")
	}
	id, err := paramInt64(v)
	if err != nil || id < 1 {
		return GeneratePVTextParams{}, NewValidationFailed("The PV ID needs to be a valid number.")
	}
	return GeneratePVTextParams{PVID: id}, nil
}

// paramString reads a string-ish value. The model sometimes emits numbers
// where names are expected (a commission named "2024"), so numbers are
// stringified rather than rejected.
func paramString(params map[string]any, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func paramInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("not an integer: %v", t)
		}
		return int64(t), nil
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}
