package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/db"
	"commission-assistant-backend/internal/models"
)

// DatabaseStore is the PostgreSQL-backed store. It implements
// chatbot.Store plus the lookups the HTTP API needs.
type DatabaseStore struct {
	db *db.DB
}

func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

var _ chatbot.Store = (*DatabaseStore)(nil)

const commissionColumns = "id, name, COALESCE(description, ''), created_at"
const userColumns = "id, name, email, COALESCE(timezone, ''), COALESCE(password_hash, '')"

func scanCommission(row interface{ Scan(...any) error }) (models.Commission, error) {
	var c models.Commission
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, err
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Timezone, &u.PasswordHash)
	return u, err
}

// Directory lookups used by the entity resolver.

func (ds *DatabaseStore) CommissionsByIDOrName(ctx context.Context, ident string, limit int) ([]models.Commission, error) {
	id, _ := strconv.ParseInt(ident, 10, 64)
	rows, err := ds.db.QueryContext(ctx,
		"SELECT "+commissionColumns+" FROM commissions WHERE id = $1 OR name = $2 ORDER BY id LIMIT $3",
		id, ident, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query commissions by id or name: %w", err)
	}
	return collectCommissions(rows)
}

func (ds *DatabaseStore) CommissionByExactName(ctx context.Context, name string) (*models.Commission, error) {
	c, err := scanCommission(ds.db.QueryRowContext(ctx,
		"SELECT "+commissionColumns+" FROM commissions WHERE name = $1", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query commission by name: %w", err)
	}
	return &c, nil
}

func (ds *DatabaseStore) CommissionsByNameContains(ctx context.Context, substr string, limit int) ([]models.Commission, error) {
	rows, err := ds.db.QueryContext(ctx,
		"SELECT "+commissionColumns+" FROM commissions WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2",
		substr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search commissions: %w", err)
	}
	return collectCommissions(rows)
}

func (ds *DatabaseStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(ds.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &u, nil
}

func (ds *DatabaseStore) UserByExactName(ctx context.Context, name string) (*models.User, error) {
	u, err := scanUser(ds.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE name = $1", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by name: %w", err)
	}
	return &u, nil
}

func (ds *DatabaseStore) UsersByNameContains(ctx context.Context, substr string, limit int) ([]models.User, error) {
	rows, err := ds.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2",
		substr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return collectUsers(rows)
}

func (ds *DatabaseStore) IsMember(ctx context.Context, commissionID, userID int64) (bool, error) {
	var exists bool
	err := ds.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM commission_user WHERE commission_id = $1 AND user_id = $2)",
		commissionID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// Chatbot queries.

func (ds *DatabaseStore) UserCommissions(ctx context.Context, userID int64) ([]models.Commission, error) {
	rows, err := ds.db.QueryContext(ctx, `
		SELECT c.id, c.name, COALESCE(c.description, ''), c.created_at
		FROM commissions c
		JOIN commission_user cu ON cu.commission_id = c.id
		WHERE cu.user_id = $1
		ORDER BY c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user commissions: %w", err)
	}
	return collectCommissions(rows)
}

func (ds *DatabaseStore) ListMeetings(ctx context.Context, f chatbot.MeetingFilter) ([]models.Meeting, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.CommissionID != 0 {
		where = append(where, "m.commission_id = "+arg(f.CommissionID))
	} else if len(f.CommissionIDs) > 0 {
		where = append(where, "m.commission_id = ANY("+arg(pq.Array(f.CommissionIDs))+")")
	}
	if f.From != nil {
		where = append(where, "m.date >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "m.date < "+arg(*f.To))
	}

	order := "DESC"
	if f.Ascending {
		order = "ASC"
	}
	query := `
		SELECT m.id, m.commission_id, m.title, m.date, m.location, COALESCE(m.gps, ''), m.created_at, c.name
		FROM meetings m
		JOIN commissions c ON c.id = m.commission_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.date " + order
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := ds.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	var out []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.CommissionID, &m.Title, &m.Date, &m.Location, &m.GPS, &m.CreatedAt, &m.CommissionName); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (ds *DatabaseStore) ListUsers(ctx context.Context, f chatbot.UserFilter) ([]models.User, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	query := "SELECT u.id, u.name, u.email, COALESCE(u.timezone, ''), COALESCE(u.password_hash, '') FROM users u"
	if f.CommissionID != 0 {
		query += " JOIN commission_user cu ON cu.user_id = u.id"
		where = append(where, "cu.commission_id = "+arg(f.CommissionID))
	}
	if f.NameOrEmail != "" {
		p := arg(f.NameOrEmail)
		where = append(where, "(u.name ILIKE '%' || "+p+" || '%' OR u.email ILIKE '%' || "+p+" || '%')")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY u.name"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := ds.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return collectUsers(rows)
}

func (ds *DatabaseStore) ListPVs(ctx context.Context, f chatbot.PVFilter) ([]models.PV, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.CommissionID != 0 {
		where = append(where, "m.commission_id = "+arg(f.CommissionID))
	} else if len(f.CommissionIDs) > 0 {
		where = append(where, "m.commission_id = ANY("+arg(pq.Array(f.CommissionIDs))+")")
	}
	if f.MeetingTitle != "" {
		where = append(where, "m.title ILIKE '%' || "+arg(f.MeetingTitle)+" || '%'")
	}
	if f.From != nil {
		where = append(where, "m.date >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "m.date < "+arg(*f.To))
	}

	query := `
		SELECT p.id, p.meeting_id, p.created_at, m.title, m.date, m.commission_id, c.name
		FROM pvs p
		JOIN meetings m ON m.id = p.meeting_id
		JOIN commissions c ON c.id = m.commission_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := ds.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pvs: %w", err)
	}
	defer rows.Close()

	var out []models.PV
	for rows.Next() {
		var pv models.PV
		if err := rows.Scan(&pv.ID, &pv.MeetingID, &pv.CreatedAt, &pv.MeetingTitle, &pv.MeetingDate, &pv.CommissionID, &pv.CommissionName); err != nil {
			return nil, fmt.Errorf("failed to scan pv: %w", err)
		}
		out = append(out, pv)
	}
	return out, rows.Err()
}

// Chatbot mutations and default lookups.

func (ds *DatabaseStore) CommissionNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := ds.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM commissions WHERE lower(name) = lower($1))", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check commission name: %w", err)
	}
	return exists, nil
}

func (ds *DatabaseStore) CreateCommission(ctx context.Context, c *models.Commission) error {
	err := ds.db.QueryRowContext(ctx,
		"INSERT INTO commissions (name, description, created_at) VALUES ($1, $2, NOW()) RETURNING id, created_at",
		c.Name, c.Description).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create commission: %w", err)
	}
	return nil
}

func (ds *DatabaseStore) CreateMeeting(ctx context.Context, m *models.Meeting) error {
	err := ds.db.QueryRowContext(ctx,
		"INSERT INTO meetings (commission_id, title, date, location, gps, created_at) VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at",
		m.CommissionID, m.Title, m.Date, m.Location, m.GPS).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

func (ds *DatabaseStore) AddMember(ctx context.Context, commissionID, userID int64) error {
	_, err := ds.db.ExecContext(ctx,
		"INSERT INTO commission_user (commission_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		commissionID, userID)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (ds *DatabaseStore) RemoveMember(ctx context.Context, commissionID, userID int64) error {
	_, err := ds.db.ExecContext(ctx,
		"DELETE FROM commission_user WHERE commission_id = $1 AND user_id = $2",
		commissionID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// LastMeetingCommission returns the commission of the user's most recently
// created meeting, or nil when they have none.
func (ds *DatabaseStore) LastMeetingCommission(ctx context.Context, userID int64) (*models.Commission, error) {
	c, err := scanCommission(ds.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, COALESCE(c.description, ''), c.created_at
		FROM meetings m
		JOIN commissions c ON c.id = m.commission_id
		JOIN commission_user cu ON cu.commission_id = c.id
		WHERE cu.user_id = $1
		ORDER BY m.created_at DESC
		LIMIT 1`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last meeting commission: %w", err)
	}
	return &c, nil
}

func (ds *DatabaseStore) FirstCommission(ctx context.Context, userID int64) (*models.Commission, error) {
	c, err := scanCommission(ds.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, COALESCE(c.description, ''), c.created_at
		FROM commissions c
		JOIN commission_user cu ON cu.commission_id = c.id
		WHERE cu.user_id = $1
		ORDER BY c.id
		LIMIT 1`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query first commission: %w", err)
	}
	return &c, nil
}

// LastPhysicalLocation returns the location of the user's most recent
// meeting that was not held remotely, or "" when there is none.
func (ds *DatabaseStore) LastPhysicalLocation(ctx context.Context, userID int64) (string, error) {
	var location string
	err := ds.db.QueryRowContext(ctx, `
		SELECT m.location
		FROM meetings m
		JOIN commission_user cu ON cu.commission_id = m.commission_id
		WHERE cu.user_id = $1
		  AND m.location <> ''
		  AND m.location NOT ILIKE '%remote%'
		  AND m.location NOT ILIKE '%online%'
		  AND m.location NOT ILIKE '%visio%'
		ORDER BY m.date DESC
		LIMIT 1`, userID).Scan(&location)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query last physical location: %w", err)
	}
	return location, nil
}

func (ds *DatabaseStore) PVByID(ctx context.Context, id int64) (*models.PV, error) {
	var pv models.PV
	err := ds.db.QueryRowContext(ctx, `
		SELECT p.id, p.meeting_id, COALESCE(p.content, ''), p.created_at, m.title, m.date, m.commission_id, c.name
		FROM pvs p
		JOIN meetings m ON m.id = p.meeting_id
		JOIN commissions c ON c.id = m.commission_id
		WHERE p.id = $1`, id).Scan(
		&pv.ID, &pv.MeetingID, &pv.Content, &pv.CreatedAt,
		&pv.MeetingTitle, &pv.MeetingDate, &pv.CommissionID, &pv.CommissionName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pv: %w", err)
	}
	return &pv, nil
}

// Account and CRUD operations used by the HTTP API.

func (ds *DatabaseStore) CreateUser(ctx context.Context, u *models.User) error {
	err := ds.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email, timezone, password_hash) VALUES ($1, $2, $3, $4) RETURNING id",
		u.Name, u.Email, u.Timezone, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (ds *DatabaseStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(ds.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (ds *DatabaseStore) CommissionByID(ctx context.Context, id int64) (*models.Commission, error) {
	c, err := scanCommission(ds.db.QueryRowContext(ctx,
		"SELECT "+commissionColumns+" FROM commissions WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query commission: %w", err)
	}
	return &c, nil
}

func (ds *DatabaseStore) ListCommissions(ctx context.Context) ([]models.Commission, error) {
	rows, err := ds.db.QueryContext(ctx,
		"SELECT "+commissionColumns+" FROM commissions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	return collectCommissions(rows)
}

func (ds *DatabaseStore) UpdateCommission(ctx context.Context, c *models.Commission) error {
	res, err := ds.db.ExecContext(ctx,
		"UPDATE commissions SET name = $1, description = $2 WHERE id = $3",
		c.Name, c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update commission: %w", err)
	}
	return requireRow(res)
}

func (ds *DatabaseStore) DeleteCommission(ctx context.Context, id int64) error {
	res, err := ds.db.ExecContext(ctx, "DELETE FROM commissions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete commission: %w", err)
	}
	return requireRow(res)
}

func (ds *DatabaseStore) MeetingByID(ctx context.Context, id int64) (*models.Meeting, error) {
	var m models.Meeting
	err := ds.db.QueryRowContext(ctx, `
		SELECT m.id, m.commission_id, m.title, m.date, m.location, COALESCE(m.gps, ''), m.created_at, c.name
		FROM meetings m
		JOIN commissions c ON c.id = m.commission_id
		WHERE m.id = $1`, id).Scan(
		&m.ID, &m.CommissionID, &m.Title, &m.Date, &m.Location, &m.GPS, &m.CreatedAt, &m.CommissionName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query meeting: %w", err)
	}
	return &m, nil
}

func (ds *DatabaseStore) UpdateMeeting(ctx context.Context, m *models.Meeting) error {
	res, err := ds.db.ExecContext(ctx,
		"UPDATE meetings SET title = $1, date = $2, location = $3, gps = $4 WHERE id = $5",
		m.Title, m.Date, m.Location, m.GPS, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return requireRow(res)
}

func (ds *DatabaseStore) DeleteMeeting(ctx context.Context, id int64) error {
	res, err := ds.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return requireRow(res)
}

func (ds *DatabaseStore) CreatePV(ctx context.Context, pv *models.PV) error {
	err := ds.db.QueryRowContext(ctx,
		"INSERT INTO pvs (meeting_id, content, created_at) VALUES ($1, $2, NOW()) RETURNING id, created_at",
		pv.MeetingID, pv.Content).Scan(&pv.ID, &pv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pv: %w", err)
	}
	return nil
}

// ErrNotFound is returned by mutations targeting a missing row.
var ErrNotFound = fmt.Errorf("not found")

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectCommissions(rows *sql.Rows) ([]models.Commission, error) {
	defer rows.Close()
	var out []models.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
