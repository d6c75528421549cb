package inmemdb

import (
	"context"
	"sort"

	"github.com/ourson-app/backend/core/content"
)

type contentRepository struct {
	db *contentTables
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

// Sections

func (repo *contentRepository) CreateSection(ctx context.Context, section content.Section) (content.Section, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.sections[section.ID] = &section
	return section, nil
}

func (repo *contentRepository) QuerySections(ctx context.Context, subject content.Subject) ([]content.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sections := make([]content.Section, 0)
	for _, s := range repo.db.sections {
		if s.Subject == subject {
			section := *s
			section.Levels = repo.querySectionLevels(s.ID)
			sections = append(sections, section)
		}
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].DisplayOrder != sections[j].DisplayOrder {
			return sections[i].DisplayOrder < sections[j].DisplayOrder
		}
		return sections[i].SectionNumber < sections[j].SectionNumber
	})
	return sections, nil
}

func (repo *contentRepository) GetSectionByID(ctx context.Context, id string) (content.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	s, ok := repo.db.sections[id]
	if !ok {
		return content.Section{}, content.ErrSectionNotFound
	}
	section := *s
	section.Levels = repo.querySectionLevels(id)
	return section, nil
}

func (repo *contentRepository) QuerySectionNumbers(ctx context.Context, subject content.Subject) ([]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	nums := make([]int, 0)
	for _, s := range repo.db.sections {
		if s.Subject == subject {
			nums = append(nums, s.SectionNumber)
		}
	}
	return nums, nil
}

func (repo *contentRepository) DeleteSection(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.sections[id]; !ok {
		return content.ErrSectionNotFound
	}
	delete(repo.db.sections, id)
	// cascade
	for lid, l := range repo.db.levels {
		if l.SectionID == id {
			delete(repo.db.levels, lid)
			repo.deleteLevelActivities(lid)
		}
	}
	return nil
}

// Levels

func (repo *contentRepository) querySectionLevels(sectionID string) []content.Level {
	levels := make([]content.Level, 0)
	for _, l := range repo.db.levels {
		if l.SectionID == sectionID {
			levels = append(levels, *l)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].DisplayOrder != levels[j].DisplayOrder {
			return levels[i].DisplayOrder < levels[j].DisplayOrder
		}
		return levels[i].LevelNumber < levels[j].LevelNumber
	})
	return levels
}

func (repo *contentRepository) CreateLevel(ctx context.Context, level content.Level) (content.Level, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	level.Activities = nil
	repo.db.levels[level.ID] = &level
	return level, nil
}

func (repo *contentRepository) GetLevelByID(ctx context.Context, id string) (content.Level, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if l, ok := repo.db.levels[id]; ok {
		return *l, nil
	}
	return content.Level{}, content.ErrLevelNotFound
}

func (repo *contentRepository) QueryLevelNumbers(ctx context.Context, sectionID string) ([]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	nums := make([]int, 0)
	for _, l := range repo.db.levels {
		if l.SectionID == sectionID {
			nums = append(nums, l.LevelNumber)
		}
	}
	return nums, nil
}

func (repo *contentRepository) UpdateLevel(ctx context.Context, level content.Level) (content.Level, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.levels[level.ID]; !ok {
		return content.Level{}, content.ErrLevelNotFound
	}
	level.Activities = nil
	repo.db.levels[level.ID] = &level
	return level, nil
}

func (repo *contentRepository) DeleteLevel(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.levels[id]; !ok {
		return content.ErrLevelNotFound
	}
	delete(repo.db.levels, id)
	repo.deleteLevelActivities(id)
	return nil
}

// Activities

func (repo *contentRepository) deleteLevelActivities(levelID string) {
	for aid, a := range repo.db.activities {
		if a.LevelID == levelID {
			delete(repo.db.activities, aid)
		}
	}
}

func (repo *contentRepository) CreateActivities(ctx context.Context, acts []content.Activity) ([]content.Activity, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range acts {
		act := acts[i]
		repo.db.activities[act.ID] = &act
	}
	return acts, nil
}

func (repo *contentRepository) QueryLevelActivities(ctx context.Context, levelID string) ([]content.Activity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	acts := make([]content.Activity, 0)
	for _, a := range repo.db.activities {
		if a.LevelID == levelID {
			acts = append(acts, *a)
		}
	}
	sort.Slice(acts, func(i, j int) bool { return acts[i].StepNumber < acts[j].StepNumber })
	return acts, nil
}

func (repo *contentRepository) GetActivityByID(ctx context.Context, id string) (content.Activity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.activities[id]; ok {
		return *a, nil
	}
	return content.Activity{}, content.ErrActivityNotFound
}

func (repo *contentRepository) UpdateActivity(ctx context.Context, act content.Activity) (content.Activity, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.activities[act.ID]; !ok {
		return content.Activity{}, content.ErrActivityNotFound
	}
	repo.db.activities[act.ID] = &act
	return act, nil
}

func (repo *contentRepository) DeleteActivity(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.activities[id]; !ok {
		return content.ErrActivityNotFound
	}
	delete(repo.db.activities, id)
	return nil
}
