package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-workload-api/internal/models"
)

var lectureTestColumns = []string{"id", "faculty_id", "subject_id", "division", "day", "time_slot", "created_at", "updated_at"}

func lectureRow(id, facultyID, day, slot string) *sqlmock.Rows {
	return sqlmock.NewRows(lectureTestColumns).
		AddRow(id, facultyID, "s1", "A", day, slot, time.Now(), time.Now())
}

func TestLectureRepositoryFindClash(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE faculty_id = $1 AND day = $2 AND time_slot = $3 ORDER BY id ASC LIMIT 1")).
		WithArgs("f1", "Monday", "9-10").
		WillReturnRows(lectureRow("l1", "f1", "Monday", "9-10"))

	existing, err := repo.FindClash(context.Background(), "f1", "Monday", "9-10", "")
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "l1", existing.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryFindClashExcludesSelf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE faculty_id = $1 AND day = $2 AND time_slot = $3 AND id <> $4 ORDER BY id ASC LIMIT 1")).
		WithArgs("f1", "Monday", "9-10", "l1").
		WillReturnRows(sqlmock.NewRows(lectureTestColumns))

	existing, err := repo.FindClash(context.Background(), "f1", "Monday", "9-10", "l1")
	require.NoError(t, err)
	assert.Nil(t, existing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryCreateRejectsClash(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE faculty_id = $1 AND day = $2 AND time_slot = $3 ORDER BY id ASC LIMIT 1")).
		WithArgs("f1", "Monday", "9-10").
		WillReturnRows(lectureRow("l1", "f1", "Monday", "9-10"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Lecture{
		FacultyID: "f1", SubjectID: "s2", Division: "B", Day: "Monday", TimeSlot: "9-10",
	})
	require.Error(t, err)

	var clash *models.LectureClashError
	require.ErrorAs(t, err, &clash)
	assert.Equal(t, "l1", clash.Existing.LectureID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryCreateCommitsWhenFree(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE faculty_id = $1 AND day = $2 AND time_slot = $3 ORDER BY id ASC LIMIT 1")).
		WithArgs("f1", "Monday", "9-10").
		WillReturnRows(sqlmock.NewRows(lectureTestColumns))
	mock.ExpectExec("INSERT INTO lectures").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	lecture := &models.Lecture{FacultyID: "f1", SubjectID: "s1", Division: "A", Day: "Monday", TimeSlot: "9-10"}
	require.NoError(t, repo.Create(context.Background(), lecture))
	assert.NotEmpty(t, lecture.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryCreateMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE faculty_id = $1 AND day = $2 AND time_slot = $3 ORDER BY id ASC LIMIT 1")).
		WithArgs("f1", "Monday", "9-10").
		WillReturnRows(sqlmock.NewRows(lectureTestColumns))
	mock.ExpectExec("INSERT INTO lectures").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "lectures_faculty_day_slot_key"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Lecture{
		FacultyID: "f1", SubjectID: "s1", Division: "A", Day: "Monday", TimeSlot: "9-10",
	})
	var clash *models.LectureClashError
	require.ErrorAs(t, err, &clash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryUpdateExcludesSelfFromClashCheck(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE faculty_id = $1 AND day = $2 AND time_slot = $3 AND id <> $4 ORDER BY id ASC LIMIT 1")).
		WithArgs("f1", "Tuesday", "10-11", "l1").
		WillReturnRows(sqlmock.NewRows(lectureTestColumns))
	mock.ExpectExec("UPDATE lectures SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Lecture{
		ID: "l1", FacultyID: "f1", SubjectID: "s1", Division: "A", Day: "Tuesday", TimeSlot: "10-11",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryWorkloadCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	rows := sqlmock.NewRows([]string{"faculty_id", "faculty_name", "department", "lecture_count"}).
		AddRow("f1", "Dr. Ahuja", "Mathematics", 14).
		AddRow("f2", "Dr. Rao", "Computer Science", 0)
	mock.ExpectQuery("SELECT f.id AS faculty_id").WillReturnRows(rows)

	counts, err := repo.WorkloadCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 14, counts[0].LectureCount)
	assert.Equal(t, 0, counts[1].LectureCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryListByDivision(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	rows := sqlmock.NewRows(append(lectureTestColumns, "faculty_name", "subject_name")).
		AddRow("l1", "f1", "s1", "A", "Monday", "9-10", time.Now(), time.Now(), "Dr. Rao", "Algorithms")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.division = $1")).
		WithArgs("A").
		WillReturnRows(rows)

	lectures, err := repo.ListByDivision(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, lectures, 1)
	assert.Equal(t, "Dr. Rao", lectures[0].FacultyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
