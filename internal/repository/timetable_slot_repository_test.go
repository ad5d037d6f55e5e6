package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var slotRowColumns = []string{"id", "timetable_id", "teacher_id", "class_id", "subject_id", "day_of_week", "period", "start_time", "end_time", "room", "kind"}

func TestTimetableSlotRepositoryReplaceForTimetable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_slots WHERE timetable_id = $1")).
		WithArgs("tt-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_slots")).
		WithArgs(sqlmock.AnyArg(), "tt-1", "T1", "C1", "MATH", 1, 1, "07:00", "07:45", sqlmock.AnyArg(), "regular").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_slots")).
		WithArgs(sqlmock.AnyArg(), "tt-1", "T1", "C1", "MATH", 2, 1, "07:00", "07:45", sqlmock.AnyArg(), "regular").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	slots := []models.TimetableSlot{
		{TeacherID: "T1", ClassID: "C1", SubjectID: "MATH", DayOfWeek: 1, Period: 1, StartTime: "07:00", EndTime: "07:45", Kind: "regular"},
		{TeacherID: "T1", ClassID: "C1", SubjectID: "MATH", DayOfWeek: 2, Period: 1, StartTime: "07:00", EndTime: "07:45", Kind: "regular"},
	}
	require.NoError(t, repo.ReplaceForTimetable(context.Background(), tx, "tt-1", slots))
	require.NoError(t, tx.Commit())
	assert.NotEmpty(t, slots[0].ID)
	assert.Equal(t, "tt-1", slots[1].TimetableID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSlotRepositoryListByTimetable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableSlotRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM timetable_slots WHERE timetable_id = \\$1 ORDER BY day_of_week, period, teacher_id").
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows(slotRowColumns).
			AddRow("s-1", "tt-1", "T1", "C1", "MATH", 1, 1, "07:00", "07:45", "Lab 1", "regular").
			AddRow("s-2", "tt-1", "T2", "C2", "BIO", 1, 1, "07:00", "07:45", nil, "regular"))

	slots, err := repo.ListByTimetable(context.Background(), "tt-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.NotNil(t, slots[0].Room)
	assert.Equal(t, "Lab 1", *slots[0].Room)
	assert.Nil(t, slots[1].Room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSlotRepositoryListCommitted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableSlotRepository(db)

	mock.ExpectQuery("FROM timetable_slots s\\s+JOIN timetables t ON t.id = s.timetable_id").
		WithArgs("ay-1", "tt-new", "T1", "T2").
		WillReturnRows(sqlmock.NewRows(slotRowColumns).
			AddRow("s-9", "tt-old", "T1", "C7", "PHY", 3, 2, "07:50", "08:35", nil, "regular"))

	slots, err := repo.ListCommitted(context.Background(), "ay-1", []string{"T1", "T2"}, "tt-new")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "tt-old", slots[0].TimetableID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSlotRepositoryListCommittedNoTeachers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableSlotRepository(db)

	slots, err := repo.ListCommitted(context.Background(), "ay-1", nil, "")
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}
