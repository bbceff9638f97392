package chatbot

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"commission-assistant-backend/internal/models"
)

// ambiguityCap bounds candidate search for ambiguity detection. Two rows
// are enough to know the identifier is ambiguous; this is not pagination.
const ambiguityCap = 2

// Directory is the lookup surface the resolver needs. Implemented by the
// database store and the in-memory store.
type Directory interface {
	// CommissionsByIDOrName matches id = ident OR name = ident, for
	// numeric identifiers (a name can itself be a numeric string).
	CommissionsByIDOrName(ctx context.Context, ident string, limit int) ([]models.Commission, error)
	CommissionByExactName(ctx context.Context, name string) (*models.Commission, error)
	CommissionsByNameContains(ctx context.Context, substr string, limit int) ([]models.Commission, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByExactName(ctx context.Context, name string) (*models.User, error)
	UsersByNameContains(ctx context.Context, substr string, limit int) ([]models.User, error)
	IsMember(ctx context.Context, commissionID, userID int64) (bool, error)
}

// Resolver maps a free-text identifier to exactly one domain entity.
// Ambiguous identifiers fail closed: it never silently picks one of
// several matches.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Commission resolves an identifier to a single commission. An exact name
// match short-circuits the fuzzy search so an exact name can never be
// shadowed by an unrelated partial match. When requireMembership is set
// the acting user must be a member of the resolved commission.
func (r *Resolver) Commission(ctx context.Context, identifier string, actingUser *models.User, requireMembership bool) (*models.Commission, error) {
	identifier = strings.TrimSpace(identifier)

	var candidates []models.Commission
	if isNumeric(identifier) {
		found, err := r.dir.CommissionsByIDOrName(ctx, identifier, ambiguityCap)
		if err != nil {
			return nil, NewInternal(err)
		}
		candidates = found
	} else {
		exact, err := r.dir.CommissionByExactName(ctx, identifier)
		if err != nil {
			return nil, NewInternal(err)
		}
		if exact != nil {
			candidates = []models.Commission{*exact}
		} else {
			found, err := r.dir.CommissionsByNameContains(ctx, identifier, ambiguityCap)
			if err != nil {
				return nil, NewInternal(err)
			}
			candidates = found
		}
	}

	switch {
	case len(candidates) == 0:
		return nil, NewNotFound(fmt.Sprintf("I couldn't find a commission matching '%s'. Please provide a valid name or ID.", identifier))
	case len(candidates) > 1:
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, fmt.Sprintf("'%s' (ID: %d)", c.Name, c.ID))
		}
		return nil, NewAmbiguous(fmt.Sprintf("Which commission did you mean? I found %s. Please use the exact name or the ID.", strings.Join(names, " or ")))
	}

	commission := candidates[0]
	if requireMembership {
		member, err := r.dir.IsMember(ctx, commission.ID, actingUser.ID)
		if err != nil {
			return nil, NewInternal(err)
		}
		if !member {
			return nil, NewMembershipRequired(fmt.Sprintf("You need to be a member of the '%s' commission to perform this action.", commission.Name))
		}
	}
	return &commission, nil
}

// User resolves an identifier to a single user, by exact email first, then
// exact name, then a capped contains search.
func (r *Resolver) User(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	var candidates []models.User
	if isEmail(identifier) {
		found, err := r.dir.UserByEmail(ctx, identifier)
		if err != nil {
			return nil, NewInternal(err)
		}
		if found != nil {
			candidates = []models.User{*found}
		}
	} else {
		exact, err := r.dir.UserByExactName(ctx, identifier)
		if err != nil {
			return nil, NewInternal(err)
		}
		if exact != nil {
			candidates = []models.User{*exact}
		} else {
			found, err := r.dir.UsersByNameContains(ctx, identifier, ambiguityCap)
			if err != nil {
				return nil, NewInternal(err)
			}
			candidates = found
		}
	}

	switch {
	case len(candidates) == 0:
		return nil, NewNotFound(fmt.Sprintf("I couldn't find a user matching '%s'. Please provide their full name or email address.", identifier))
	case len(candidates) > 1:
		details := make([]string, 0, len(candidates))
		for _, u := range candidates {
			details = append(details, fmt.Sprintf("'%s' (%s)", u.Name, u.Email))
		}
		return nil, NewAmbiguous(fmt.Sprintf("Which user did you mean? I found %s. Please use their full email address for clarity.", strings.Join(details, " or ")))
	}
	return &candidates[0], nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
