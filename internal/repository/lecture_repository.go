package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusops/faculty-workload-api/internal/catalog"
	"github.com/campusops/faculty-workload-api/internal/models"
)

const lectureColumns = "l.id, l.faculty_id, l.subject_id, l.division, l.day, l.time_slot, l.created_at, l.updated_at"

const lectureDetailColumns = lectureColumns + ", f.name AS faculty_name, s.name AS subject_name"

const lectureJoins = " JOIN faculties f ON f.id = l.faculty_id JOIN subjects s ON s.id = l.subject_id"

// facultyDaySlotKey is the unique index backing the double-booking
// invariant at the storage layer.
const facultyDaySlotKey = "lectures_faculty_day_slot_key"

// LectureRepository provides persistence for lecture assignments. Writes run
// the clash check and the mutation in a single serializable transaction so
// that two concurrent writers cannot both pass validation.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository creates a new lecture repository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

// orderCase renders a CASE expression mapping the fixed catalog values of
// column to their display positions. Values come from the static catalog,
// never from request input.
func orderCase(column string, values []string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, v := range values {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", v, i)
	}
	b.WriteString(" ELSE 99 END")
	return b.String()
}

// catalogOrder sorts lectures by day, then time slot, then division, each in
// catalog order.
func catalogOrder() string {
	return orderCase("l.day", catalog.Days) + ", " + orderCase("l.time_slot", catalog.TimeSlots) + ", l.division ASC, l.id ASC"
}

// List returns lectures joined with faculty/subject names, filtered by any
// combination of faculty, subject, division, day and time slot, in catalog
// order.
func (r *LectureRepository) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, int, error) {
	base := "FROM lectures l" + lectureJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("l.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("l.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Division != "" {
		conditions = append(conditions, fmt.Sprintf("l.division = $%d", len(args)+1))
		args = append(args, filter.Division)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("l.day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.TimeSlot != "" {
		conditions = append(conditions, fmt.Sprintf("l.time_slot = $%d", len(args)+1))
		args = append(args, filter.TimeSlot)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", lectureDetailColumns, base, catalogOrder(), size, offset)
	var lectures []models.LectureDetail
	if err := r.db.SelectContext(ctx, &lectures, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lectures: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lectures: %w", err)
	}

	return lectures, total, nil
}

// FindByID loads a lecture by id.
func (r *LectureRepository) FindByID(ctx context.Context, id string) (*models.Lecture, error) {
	const query = `SELECT id, faculty_id, subject_id, division, day, time_slot, created_at, updated_at FROM lectures WHERE id = $1`
	var lecture models.Lecture
	if err := r.db.GetContext(ctx, &lecture, query, id); err != nil {
		return nil, err
	}
	return &lecture, nil
}

// FindClash returns the lecture occupying (facultyID, day, timeSlot),
// excluding excludeID, or nil when the slot is free. Division and subject
// are not part of the match key.
func (r *LectureRepository) FindClash(ctx context.Context, facultyID, day, timeSlot, excludeID string) (*models.Lecture, error) {
	query := `SELECT id, faculty_id, subject_id, division, day, time_slot, created_at, updated_at FROM lectures WHERE faculty_id = $1 AND day = $2 AND time_slot = $3`
	args := []interface{}{facultyID, day, timeSlot}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	query += " ORDER BY id ASC LIMIT 1"

	var lecture models.Lecture
	if err := r.db.GetContext(ctx, &lecture, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lecture clash: %w", err)
	}
	return &lecture, nil
}

// ListByDivision returns the division's lectures with faculty/subject names
// in catalog order (day, slot, id). The id tiebreak keeps cell resolution
// deterministic when two faculty claim the same division/day/slot.
func (r *LectureRepository) ListByDivision(ctx context.Context, division string) ([]models.LectureDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM lectures l%s WHERE l.division = $1 ORDER BY %s", lectureDetailColumns, lectureJoins, catalogOrder())
	var lectures []models.LectureDetail
	if err := r.db.SelectContext(ctx, &lectures, query, division); err != nil {
		return nil, fmt.Errorf("list lectures by division: %w", err)
	}
	return lectures, nil
}

// WorkloadCounts returns one row per faculty with the global count of
// lectures referencing them, ordered by faculty name.
func (r *LectureRepository) WorkloadCounts(ctx context.Context) ([]models.FacultyWorkload, error) {
	const query = `SELECT f.id AS faculty_id, f.name AS faculty_name, f.department, COUNT(l.id) AS lecture_count
		FROM faculties f
		LEFT JOIN lectures l ON l.faculty_id = f.id
		GROUP BY f.id, f.name, f.department
		ORDER BY f.name ASC, f.id ASC`
	var rows []models.FacultyWorkload
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("workload counts: %w", err)
	}
	return rows, nil
}

// CountAll returns the number of lecture records.
func (r *LectureRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM lectures`); err != nil {
		return 0, fmt.Errorf("count lectures: %w", err)
	}
	return total, nil
}

// Create validates and inserts a lecture atomically. On clash the insert is
// rolled back and a *models.LectureClashError is returned.
func (r *LectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	if lecture.ID == "" {
		lecture.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lecture.CreatedAt.IsZero() {
		lecture.CreatedAt = now
	}
	lecture.UpdatedAt = now

	return r.writeChecked(ctx, lecture, "", `INSERT INTO lectures (id, faculty_id, subject_id, division, day, time_slot, created_at, updated_at) VALUES (:id, :faculty_id, :subject_id, :division, :day, :time_slot, :created_at, :updated_at)`)
}

// Update validates and modifies a lecture atomically, excluding its own
// prior state from the clash check.
func (r *LectureRepository) Update(ctx context.Context, lecture *models.Lecture) error {
	lecture.UpdatedAt = time.Now().UTC()
	return r.writeChecked(ctx, lecture, lecture.ID, `UPDATE lectures SET faculty_id = :faculty_id, subject_id = :subject_id, division = :division, day = :day, time_slot = :time_slot, updated_at = :updated_at WHERE id = :id`)
}

func (r *LectureRepository) writeChecked(ctx context.Context, lecture *models.Lecture, excludeID, stmt string) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin lecture write: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var clash *models.LectureClashError
	if clash, err = r.clashWithinTx(ctx, tx, lecture, excludeID); err != nil {
		return err
	}
	if clash != nil {
		_ = tx.Rollback()
		return clash
	}

	if _, err = sqlx.NamedExecContext(ctx, tx, stmt, lecture); err != nil {
		if clash := asUniqueViolation(err); clash != nil {
			// concurrent writer won the race; the unique index is the backstop
			_ = tx.Rollback()
			return clash
		}
		return fmt.Errorf("write lecture: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit lecture write: %w", err)
	}
	return nil
}

func (r *LectureRepository) clashWithinTx(ctx context.Context, tx *sqlx.Tx, lecture *models.Lecture, excludeID string) (*models.LectureClashError, error) {
	query := `SELECT id, faculty_id, subject_id, division, day, time_slot, created_at, updated_at FROM lectures WHERE faculty_id = $1 AND day = $2 AND time_slot = $3`
	args := []interface{}{lecture.FacultyID, lecture.Day, lecture.TimeSlot}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	query += " ORDER BY id ASC LIMIT 1"

	var existing models.Lecture
	if err := tx.GetContext(ctx, &existing, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("check lecture clash: %w", err)
	}
	return clashError(&existing), nil
}

// Delete removes a lecture by id; no validation is needed.
func (r *LectureRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	return nil
}

func asUniqueViolation(err error) *models.LectureClashError {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == facultyDaySlotKey {
		return &models.LectureClashError{Message: "faculty already has a lecture at this day and time slot"}
	}
	return nil
}

func clashError(existing *models.Lecture) *models.LectureClashError {
	return &models.LectureClashError{
		Message: "faculty already has a lecture at this day and time slot",
		Existing: models.LectureClash{
			LectureID: existing.ID,
			FacultyID: existing.FacultyID,
			SubjectID: existing.SubjectID,
			Division:  existing.Division,
			Day:       existing.Day,
			TimeSlot:  existing.TimeSlot,
		},
	}
}
