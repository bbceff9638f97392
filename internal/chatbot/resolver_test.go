package chatbot

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-assistant-backend/internal/models"
)

// fakeDirectory backs the resolver with slices.
type fakeDirectory struct {
	commissions []models.Commission
	users       []models.User
	members     map[[2]int64]bool
}

func (f *fakeDirectory) CommissionsByIDOrName(_ context.Context, ident string, limit int) ([]models.Commission, error) {
	id, _ := strconv.ParseInt(ident, 10, 64)
	var out []models.Commission
	for _, c := range f.commissions {
		if c.ID == id || c.Name == ident {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDirectory) CommissionByExactName(_ context.Context, name string) (*models.Commission, error) {
	for _, c := range f.commissions {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) CommissionsByNameContains(_ context.Context, substr string, limit int) ([]models.Commission, error) {
	var out []models.Commission
	for _, c := range f.commissions {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(substr)) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDirectory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) UserByExactName(_ context.Context, name string) (*models.User, error) {
	for _, u := range f.users {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) UsersByNameContains(_ context.Context, substr string, limit int) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(substr)) {
			out = append(out, u)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDirectory) IsMember(_ context.Context, commissionID, userID int64) (bool, error) {
	return f.members[[2]int64{commissionID, userID}], nil
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{
		commissions: []models.Commission{
			{ID: 1, Name: "Budget"},
			{ID: 2, Name: "Budget Review"},
			{ID: 3, Name: "Events"},
		},
		users: []models.User{
			{ID: 10, Name: "Alice Martin", Email: "alice@example.com"},
			{ID: 11, Name: "Alice Durand", Email: "alice.d@example.com"},
			{ID: 12, Name: "Bob Leroy", Email: "bob@example.com"},
		},
		members: map[[2]int64]bool{
			{1, 10}: true,
		},
	}
}

func TestResolveCommissionExactNameBeatsPartialMatches(t *testing.T) {
	r := NewResolver(testDirectory())

	// "Budget" is an exact match and a substring of "Budget Review"; the
	// exact match must win without an ambiguity error.
	c, err := r.Commission(context.Background(), "Budget", &models.User{ID: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
}

func TestResolveCommissionAmbiguousWithoutExactMatch(t *testing.T) {
	r := NewResolver(testDirectory())

	_, err := r.Commission(context.Background(), "Budg", &models.User{ID: 10}, false)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeAmbiguous, derr.Code)
	assert.Contains(t, derr.Message, "'Budget' (ID: 1)")
	assert.Contains(t, derr.Message, "'Budget Review' (ID: 2)")
	assert.Contains(t, derr.Message, " or ")
}

func TestResolveCommissionNotFound(t *testing.T) {
	r := NewResolver(testDirectory())

	_, err := r.Commission(context.Background(), "Finance", &models.User{ID: 10}, false)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeNotFound, derr.Code)
	assert.Contains(t, derr.Message, "'Finance'")
}

func TestResolveCommissionByNumericID(t *testing.T) {
	r := NewResolver(testDirectory())

	c, err := r.Commission(context.Background(), "3", &models.User{ID: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, "Events", c.Name)
}

func TestResolveCommissionMembershipRequired(t *testing.T) {
	r := NewResolver(testDirectory())

	_, err := r.Commission(context.Background(), "Events", &models.User{ID: 10}, true)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeMembershipRequired, derr.Code)
	assert.Contains(t, derr.Message, "'Events'")

	c, err := r.Commission(context.Background(), "Budget", &models.User{ID: 10}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
}

func TestResolveUserByEmail(t *testing.T) {
	r := NewResolver(testDirectory())

	u, err := r.User(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(10), u.ID)
}

func TestResolveUserAmbiguousByName(t *testing.T) {
	r := NewResolver(testDirectory())

	_, err := r.User(context.Background(), "Alice")
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeAmbiguous, derr.Code)
	assert.Contains(t, derr.Message, "alice@example.com")
	assert.Contains(t, derr.Message, "alice.d@example.com")
}

func TestResolveUserExactNameBeatsPartial(t *testing.T) {
	dir := testDirectory()
	dir.users = append(dir.users, models.User{ID: 13, Name: "Bob", Email: "bob2@example.com"})
	r := NewResolver(dir)

	u, err := r.User(context.Background(), "Bob")
	require.NoError(t, err)
	assert.Equal(t, int64(13), u.ID)
}

func TestResolveUserNotFound(t *testing.T) {
	r := NewResolver(testDirectory())

	_, err := r.User(context.Background(), "Charlie")
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeNotFound, derr.Code)
}
