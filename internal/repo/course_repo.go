package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/calarcon/aulabot/internal/model"
	appErr "github.com/calarcon/aulabot/internal/pkg/errors"
)

type CourseRepo struct {
	db *sql.DB
}

func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

func (r *CourseRepo) ListNames(ctx context.Context) ([]string, error) {
	sqlStr, args, err := builder.BuildSelect("courses", map[string]interface{}{"_orderby": "name asc"}, []string{"name"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetRecord returns the course row plus its updates and documents, newest
// first. Returns ErrNotFound when no course has that name.
func (r *CourseRepo) GetRecord(ctx context.Context, name string) (*model.CourseRecord, error) {
	sqlStr, args, err := builder.BuildSelect("courses", map[string]interface{}{"name": name}, []string{"id", "name", "section"})
	if err != nil {
		return nil, err
	}
	var (
		courseID int64
		section  sql.NullString
	)
	record := &model.CourseRecord{}
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	if err := row.Scan(&courseID, &record.Name, &section); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	record.Section = section.String

	if record.Updates, err = r.listUpdates(ctx, courseID, record.Section); err != nil {
		return nil, err
	}
	if record.Documents, err = r.listDocuments(ctx, courseID); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, update := range record.Updates {
		if _, ok := seen[update.Category]; !ok {
			seen[update.Category] = struct{}{}
			record.Categories = append(record.Categories, update.Category)
		}
	}
	if len(record.Updates) > 0 {
		record.LastUpdate = record.Updates[0].Timestamp
	}
	return record, nil
}

func (r *CourseRepo) listUpdates(ctx context.Context, courseID int64, courseSection string) ([]model.CourseUpdate, error) {
	where := map[string]interface{}{"course_id": courseID, "_orderby": "created_at desc"}
	sqlStr, args, err := builder.BuildSelect("updates", where, []string{"content", "category", "ciclo", "modulo", "created_at"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	updates := make([]model.CourseUpdate, 0)
	for rows.Next() {
		var (
			update        model.CourseUpdate
			cycle, module sql.NullString
		)
		if err := rows.Scan(&update.Content, &update.Category, &cycle, &module, &update.Timestamp); err != nil {
			return nil, err
		}
		update.Cycle = cycle.String
		update.Module = module.String
		update.Section = courseSection
		updates = append(updates, update)
	}
	return updates, rows.Err()
}

func (r *CourseRepo) listDocuments(ctx context.Context, courseID int64) ([]model.CourseDocument, error) {
	where := map[string]interface{}{"course_id": courseID, "_orderby": "uploaded_at desc"}
	sqlStr, args, err := builder.BuildSelect("documents", where, []string{"title", "file_path", "category", "ciclo", "modulo", "section", "uploaded_at"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	documents := make([]model.CourseDocument, 0)
	for rows.Next() {
		var (
			doc                    model.CourseDocument
			cycle, module, section sql.NullString
		)
		if err := rows.Scan(&doc.Title, &doc.Locator, &doc.Category, &cycle, &module, &section, &doc.Timestamp); err != nil {
			return nil, err
		}
		doc.Cycle = cycle.String
		doc.Module = module.String
		doc.Section = section.String
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

// AddUpdate commits one update, creating the course row on first use. The
// whole operation runs in a transaction so a failure never leaves a partial
// record behind.
func (r *CourseRepo) AddUpdate(ctx context.Context, input model.UpdateInput) error {
	if input.Course == "" || input.Section == "" || input.Content == "" ||
		input.Category == "" || input.Cycle == "" || input.Module == "" {
		return fmt.Errorf("%w: update is missing required fields", appErr.ErrInvalid)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sqlStr, args, err := builder.BuildSelect("courses", map[string]interface{}{"name": input.Course}, []string{"id"})
	if err != nil {
		return err
	}
	var courseID int64
	err = tx.QueryRowContext(ctx, sqlStr, args...).Scan(&courseID)
	switch {
	case err == sql.ErrNoRows:
		insertSQL, insertArgs, buildErr := builder.BuildInsert("courses", []map[string]interface{}{{
			"name":    input.Course,
			"section": input.Section,
		}})
		if buildErr != nil {
			return buildErr
		}
		result, execErr := tx.ExecContext(ctx, insertSQL, insertArgs...)
		if execErr != nil {
			return execErr
		}
		if courseID, err = result.LastInsertId(); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		updateSQL, updateArgs, buildErr := builder.BuildUpdate("courses",
			map[string]interface{}{"id": courseID},
			map[string]interface{}{"section": input.Section})
		if buildErr != nil {
			return buildErr
		}
		if _, execErr := tx.ExecContext(ctx, updateSQL, updateArgs...); execErr != nil {
			return execErr
		}
	}

	insertSQL, insertArgs, err := builder.BuildInsert("updates", []map[string]interface{}{{
		"course_id": courseID,
		"content":   input.Content,
		"category":  input.Category,
		"ciclo":     input.Cycle,
		"modulo":    input.Module,
		"section":   input.Section,
	}})
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		return err
	}
	return tx.Commit()
}
