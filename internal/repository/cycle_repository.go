package repository

import (
	"database/sql"

	"rpe/internal/models"
)

type CycleRepository struct {
	db *sql.DB
}

func NewCycleRepository(db *sql.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// GetByID retrieves a cycle by id, or nil when it does not exist
func (r *CycleRepository) GetByID(id string) (*models.EvaluationCycle, error) {
	query := `SELECT id, name, start_date, status FROM evaluation_cycles WHERE id = $1`

	var cycle models.EvaluationCycle
	err := r.db.QueryRow(query, id).Scan(&cycle.ID, &cycle.Name, &cycle.StartDate, &cycle.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cycle, nil
}

// GetLatest retrieves the most recent cycle by start date, or nil when none exists
func (r *CycleRepository) GetLatest() (*models.EvaluationCycle, error) {
	query := `SELECT id, name, start_date, status FROM evaluation_cycles ORDER BY start_date DESC LIMIT 1`

	var cycle models.EvaluationCycle
	err := r.db.QueryRow(query).Scan(&cycle.ID, &cycle.Name, &cycle.StartDate, &cycle.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cycle, nil
}

// ListAll retrieves all cycles, most recent first
func (r *CycleRepository) ListAll() ([]models.EvaluationCycle, error) {
	query := `SELECT id, name, start_date, status FROM evaluation_cycles ORDER BY start_date DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []models.EvaluationCycle
	for rows.Next() {
		var cycle models.EvaluationCycle
		if err := rows.Scan(&cycle.ID, &cycle.Name, &cycle.StartDate, &cycle.Status); err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}

	return cycles, rows.Err()
}
