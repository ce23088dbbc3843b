package repository

import (
	"database/sql"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CountByCycle returns the number of projects registered for a cycle
func (r *ProjectRepository) CountByCycle(cycleID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM projects WHERE cycle_id = $1`
	err := r.db.QueryRow(query, cycleID).Scan(&count)
	return count, err
}
