package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/projects-backend/internal/domain"
)

// ProjectRepository defines persistence access for project records.
type ProjectRepository interface {
	Insert(ctx context.Context, project *domain.Project) error
	List(ctx context.Context) ([]domain.Project, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Insert(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (id, title, description, imageurl, githuburl, livelink)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.ImageURL,
		project.GithubURL,
		project.LiveLink,
	).Scan(&project.CreatedAt)
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const query = `
        SELECT id, title, description, imageurl, githuburl, livelink, created_at
        FROM projects ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.ImageURL,
			&p.GithubURL,
			&p.LiveLink,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
