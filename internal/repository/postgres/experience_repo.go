package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
)

const experienceColumns = `id::text, name, country, company, questions, user_id::text, created_at, updated_at,
	experience_years, ctc, verified, difficulty, verification_path, verified_at`

type experienceRepo struct {
	db *pgxpool.Pool
}

func NewExperienceRepository(db *pgxpool.Pool) domain.ExperienceRepository {
	return &experienceRepo{db: db}
}

func (r *experienceRepo) Insert(ctx context.Context, exp *domain.InterviewExperience) (*domain.InterviewExperience, error) {
	query := `INSERT INTO experiences (name, country, company, questions, user_id, experience_years, ctc, verified, difficulty, verification_path)
              VALUES ($1, $2, $3, $4, $5::uuid, $6, $7, COALESCE($8, FALSE), $9, $10)
              RETURNING ` + experienceColumns

	row := r.db.QueryRow(ctx, query,
		exp.Name, exp.Country, exp.Company, exp.Questions, exp.UserID,
		exp.ExperienceYears, exp.CTC, exp.Verified, difficultyArg(exp.Difficulty), exp.VerificationPath,
	)
	stored, err := scanExperience(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation) {
			return nil, apperror.BadRequest(pgErr.Message)
		}
		return nil, apperror.Internal(err)
	}
	return stored, nil
}

func (r *experienceRepo) List(ctx context.Context, filter domain.ExperienceFilter) ([]domain.InterviewExperience, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer rows.Close()

	experiences := []domain.InterviewExperience{}
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		experiences = append(experiences, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal(err)
	}
	return experiences, nil
}

// buildListQuery mirrors the PostgREST filters: company is a case-insensitive
// substring match, experience_years an exact match.
func buildListQuery(filter domain.ExperienceFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if c := strings.TrimSpace(filter.Company); c != "" {
		args = append(args, "%"+escapeLike(c)+"%")
		where = append(where, fmt.Sprintf("company ILIKE $%d", len(args)))
	}
	if filter.ExperienceYears != "" {
		args = append(args, filter.ExperienceYears)
		where = append(where, fmt.Sprintf("experience_years = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d::uuid", len(args)))
	}

	query := "SELECT " + experienceColumns + " FROM experiences"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	return query, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func difficultyArg(d *domain.Difficulty) *string {
	if d == nil {
		return nil
	}
	s := string(*d)
	return &s
}

func scanExperience(row pgx.Row) (*domain.InterviewExperience, error) {
	var (
		exp        domain.InterviewExperience
		difficulty *string
	)
	err := row.Scan(
		&exp.ID, &exp.Name, &exp.Country, &exp.Company, &exp.Questions, &exp.UserID, &exp.CreatedAt, &exp.UpdatedAt,
		&exp.ExperienceYears, &exp.CTC, &exp.Verified, &difficulty, &exp.VerificationPath, &exp.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	if difficulty != nil {
		d := domain.Difficulty(*difficulty)
		exp.Difficulty = &d
	}
	return &exp, nil
}
