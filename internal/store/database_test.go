package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/db"
	"commission-assistant-backend/internal/models"
)

func newMockStore(t *testing.T) (*DatabaseStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewDatabaseStore(&db.DB{DB: mockDB}), mock
}

func commissionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "created_at"})
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "timezone", "password_hash"})
}

func TestCommissionByExactName(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM commissions WHERE name = \\$1").
		WithArgs("Budget").
		WillReturnRows(commissionRows().AddRow(1, "Budget", "Annual budget", time.Now()))

	c, err := ds.CommissionByExactName(context.Background(), "Budget")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "Budget", c.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionByExactNameMissing(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM commissions WHERE name = \\$1").
		WithArgs("Nope").
		WillReturnRows(commissionRows())

	c, err := ds.CommissionByExactName(context.Background(), "Nope")
	require.NoError(t, err)
	assert.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionsByIDOrName(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM commissions WHERE id = \\$1 OR name = \\$2").
		WithArgs(int64(7), "7", 2).
		WillReturnRows(commissionRows().AddRow(7, "Events", "", time.Now()))

	got, err := ds.CommissionsByIDOrName(context.Background(), "7", 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Events", got[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByEmailCaseInsensitive(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("lower(email) = lower($1)")).
		WithArgs("Alice@Example.com").
		WillReturnRows(userRows().AddRow(10, "Alice Martin", "alice@example.com", "", "hash"))

	u, err := ds.UserByEmail(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(10), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMember(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	member, err := ds.IsMember(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, member)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberIsIdempotentInsert(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO commission_user (commission_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
		WithArgs(int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ds.AddMember(context.Background(), 1, 10))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListMeetingsBuildsFilter(t *testing.T) {
	ds, mock := newMockStore(t)

	from := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`m.commission_id = ANY\(\$1\)(.+)m.date >= \$2(.+)ORDER BY m.date ASC LIMIT \$3`).
		WithArgs(sqlmock.AnyArg(), from, 15).
		WillReturnRows(sqlmock.NewRows([]string{"id", "commission_id", "title", "date", "location", "gps", "created_at", "name"}).
			AddRow(5, 1, "Sync", from.Add(10*time.Hour), "Room 2", "", time.Now(), "Budget"))

	got, err := ds.ListMeetings(context.Background(), chatbot.MeetingFilter{
		CommissionIDs: []int64{1, 3},
		From:          &from,
		Ascending:     true,
		Limit:         15,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Budget", got[0].CommissionName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLastPhysicalLocationNone(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectQuery("SELECT m.location").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"location"}))

	loc, err := ds.LastPhysicalLocation(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, loc)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommissionReturnsID(t *testing.T) {
	ds, mock := newMockStore(t)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO commissions").
		WithArgs("Finance", "money stuff").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(4, created))

	c := &models.Commission{Name: "Finance", Description: "money stuff"}
	require.NoError(t, ds.CreateCommission(context.Background(), c))
	assert.Equal(t, int64(4), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCommissionMissingRow(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectExec("UPDATE commissions SET").
		WithArgs("Finance", "", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ds.UpdateCommission(context.Background(), &models.Commission{ID: 99, Name: "Finance"})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPVByIDMissing(t *testing.T) {
	ds, mock := newMockStore(t)

	mock.ExpectQuery("SELECT p.id, p.meeting_id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	pv, err := ds.PVByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, pv)
	require.NoError(t, mock.ExpectationsWereMet())
}
