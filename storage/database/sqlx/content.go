package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ourson-app/backend/core/content"
)

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(db *sqlx.DB) content.Repository {
	return &contentRepository{db: db}
}

// Sections

func (repo *contentRepository) CreateSection(ctx context.Context, section content.Section) (content.Section, error) {
	const q = `
		INSERT INTO section (id, subject, title, section_number, color, display_order, created_at, updated_at)
		VALUES (:id, :subject, :title, :section_number, :color, :display_order, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, section); err != nil {
		return content.Section{}, errors.Wrap(err, "inserting section")
	}
	return section, nil
}

func (repo *contentRepository) QuerySections(ctx context.Context, subject content.Subject) ([]content.Section, error) {
	const q = `SELECT * FROM section WHERE subject = $1 ORDER BY display_order, section_number`
	sections := make([]content.Section, 0)
	if err := repo.db.SelectContext(ctx, &sections, q, subject); err != nil {
		return nil, errors.Wrap(err, "selecting sections")
	}
	for i := range sections {
		levels, err := repo.querySectionLevels(ctx, sections[i].ID)
		if err != nil {
			return nil, err
		}
		sections[i].Levels = levels
	}
	return sections, nil
}

func (repo *contentRepository) GetSectionByID(ctx context.Context, id string) (content.Section, error) {
	const q = `SELECT * FROM section WHERE id = $1`
	var section content.Section
	if err := repo.db.GetContext(ctx, &section, q, id); err != nil {
		if err == sql.ErrNoRows {
			return content.Section{}, content.ErrSectionNotFound
		}
		return content.Section{}, errors.Wrap(err, "selecting section")
	}
	levels, err := repo.querySectionLevels(ctx, section.ID)
	if err != nil {
		return content.Section{}, err
	}
	section.Levels = levels
	return section, nil
}

func (repo *contentRepository) QuerySectionNumbers(ctx context.Context, subject content.Subject) ([]int, error) {
	const q = `SELECT section_number FROM section WHERE subject = $1`
	nums := make([]int, 0)
	if err := repo.db.SelectContext(ctx, &nums, q, subject); err != nil {
		return nil, errors.Wrap(err, "selecting section numbers")
	}
	return nums, nil
}

func (repo *contentRepository) DeleteSection(ctx context.Context, id string) error {
	// levels and activities go with it (ON DELETE CASCADE)
	res, err := repo.db.ExecContext(ctx, `DELETE FROM section WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting section")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.ErrSectionNotFound
	}
	return nil
}

// Levels

func (repo *contentRepository) querySectionLevels(ctx context.Context, sectionID string) ([]content.Level, error) {
	const q = `SELECT * FROM level WHERE section_id = $1 ORDER BY display_order, level_number`
	levels := make([]content.Level, 0)
	if err := repo.db.SelectContext(ctx, &levels, q, sectionID); err != nil {
		return nil, errors.Wrap(err, "selecting section levels")
	}
	return levels, nil
}

func (repo *contentRepository) CreateLevel(ctx context.Context, level content.Level) (content.Level, error) {
	const q = `
		INSERT INTO level (id, section_id, level_number, title, introduction, kind, template, config, display_order, created_at, updated_at)
		VALUES (:id, :section_id, :level_number, :title, :introduction, :kind, :template, :config, :display_order, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, level); err != nil {
		return content.Level{}, errors.Wrap(err, "inserting level")
	}
	return level, nil
}

func (repo *contentRepository) GetLevelByID(ctx context.Context, id string) (content.Level, error) {
	const q = `SELECT * FROM level WHERE id = $1`
	var level content.Level
	if err := repo.db.GetContext(ctx, &level, q, id); err != nil {
		if err == sql.ErrNoRows {
			return content.Level{}, content.ErrLevelNotFound
		}
		return content.Level{}, errors.Wrap(err, "selecting level")
	}
	return level, nil
}

func (repo *contentRepository) QueryLevelNumbers(ctx context.Context, sectionID string) ([]int, error) {
	const q = `SELECT level_number FROM level WHERE section_id = $1`
	nums := make([]int, 0)
	if err := repo.db.SelectContext(ctx, &nums, q, sectionID); err != nil {
		return nil, errors.Wrap(err, "selecting level numbers")
	}
	return nums, nil
}

func (repo *contentRepository) UpdateLevel(ctx context.Context, level content.Level) (content.Level, error) {
	const q = `
		UPDATE level
		SET title = :title, introduction = :introduction, template = :template, config = :config,
		    display_order = :display_order, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, level)
	if err != nil {
		return content.Level{}, errors.Wrap(err, "updating level")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.Level{}, content.ErrLevelNotFound
	}
	return level, nil
}

func (repo *contentRepository) DeleteLevel(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM level WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting level")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.ErrLevelNotFound
	}
	return nil
}

// Activities

func (repo *contentRepository) CreateActivities(ctx context.Context, acts []content.Activity) ([]content.Activity, error) {
	const q = `
		INSERT INTO activity (id, level_id, step_number, template, config, title, created_at, updated_at)
		VALUES (:id, :level_id, :step_number, :template, :config, :title, :created_at, :updated_at)`
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning tx")
	}
	for _, act := range acts {
		if _, err = tx.NamedExecContext(ctx, q, act); err != nil {
			_ = tx.Rollback()
			return nil, errors.Wrap(err, "inserting activity")
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing tx")
	}
	return acts, nil
}

func (repo *contentRepository) QueryLevelActivities(ctx context.Context, levelID string) ([]content.Activity, error) {
	const q = `SELECT * FROM activity WHERE level_id = $1 ORDER BY step_number`
	acts := make([]content.Activity, 0)
	if err := repo.db.SelectContext(ctx, &acts, q, levelID); err != nil {
		return nil, errors.Wrap(err, "selecting level activities")
	}
	return acts, nil
}

func (repo *contentRepository) GetActivityByID(ctx context.Context, id string) (content.Activity, error) {
	const q = `SELECT * FROM activity WHERE id = $1`
	var act content.Activity
	if err := repo.db.GetContext(ctx, &act, q, id); err != nil {
		if err == sql.ErrNoRows {
			return content.Activity{}, content.ErrActivityNotFound
		}
		return content.Activity{}, errors.Wrap(err, "selecting activity")
	}
	return act, nil
}

func (repo *contentRepository) UpdateActivity(ctx context.Context, act content.Activity) (content.Activity, error) {
	const q = `
		UPDATE activity
		SET step_number = :step_number, template = :template, config = :config, title = :title, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, act)
	if err != nil {
		return content.Activity{}, errors.Wrap(err, "updating activity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.Activity{}, content.ErrActivityNotFound
	}
	return act, nil
}

func (repo *contentRepository) DeleteActivity(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM activity WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting activity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.ErrActivityNotFound
	}
	return nil
}
