package repository

import (
	"database/sql"
	"fmt"

	"rpe/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, user_type, is_active, leader_id, mentor_id, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.UserType,
		&user.IsActive,
		&user.LeaderID,
		&user.MentorID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by id, or nil when it does not exist
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a user by email, or nil when it does not exist
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(query, email))
}

// ListActiveForPanel selects active users for the committee panel, name
// ascending, with the leader reference and the first position role attached.
// search filters by name substring, track by track-role name substring.
func (r *UserRepository) ListActiveForPanel(search, track string) ([]models.PanelUser, error) {
	query := `
		SELECT u.id, u.name, u.user_type, u.leader_id,
		       COALESCE((
		           SELECT cr.name FROM roles cr
		           WHERE cr.user_id = u.id AND cr.type = $1
		           ORDER BY cr.name ASC LIMIT 1
		       ), 'N/A') AS position_role
		FROM users u
		WHERE u.is_active = TRUE
		  AND ($2 = '' OR u.name ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR EXISTS (
		        SELECT 1 FROM roles tr
		        WHERE tr.user_id = u.id AND tr.type = $4 AND tr.name ILIKE '%' || $3 || '%'
		  ))
		ORDER BY u.name ASC
	`

	rows, err := r.db.Query(query, models.RoleTypePosition, search, track, models.RoleTypeTrack)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.PanelUser
	for rows.Next() {
		var user models.PanelUser
		if err := rows.Scan(&user.ID, &user.Name, &user.UserType, &user.LeaderID, &user.PositionRole); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// CountActiveNonAdmin counts active users excluding admins
func (r *UserRepository) CountActiveNonAdmin() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_active = TRUE AND user_type <> $1`
	err := r.db.QueryRow(query, models.UserTypeAdmin).Scan(&count)
	return count, err
}

// SetMentor assigns a mentor to a user and returns the updated row
func (r *UserRepository) SetMentor(userID string, mentorID *string) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET mentor_id = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, userColumns)
	return scanUser(r.db.QueryRow(query, userID, mentorID))
}

// GetMentees lists the users mentored by the given user, name ascending
func (r *UserRepository) GetMentees(mentorID string) ([]models.TeamMember, error) {
	query := `SELECT id, name, email FROM users WHERE mentor_id = $1 ORDER BY name ASC`

	rows, err := r.db.Query(query, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mentees []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		if err := rows.Scan(&member.ID, &member.Name, &member.Email); err != nil {
			return nil, err
		}
		mentees = append(mentees, member)
	}

	return mentees, rows.Err()
}
