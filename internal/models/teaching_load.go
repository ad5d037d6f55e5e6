package models

// TeachingLoad is a stored obligation: a teacher owes a class weekly periods of a subject.
type TeachingLoad struct {
	ID             string  `db:"id" json:"id"`
	InstitutionID  string  `db:"institution_id" json:"institution_id"`
	AcademicYearID string  `db:"academic_year_id" json:"academic_year_id"`
	TeacherID      string  `db:"teacher_id" json:"teacher_id"`
	ClassID        string  `db:"class_id" json:"class_id"`
	SubjectID      string  `db:"subject_id" json:"subject_id"`
	WeeklyHours    int     `db:"weekly_hours" json:"weekly_hours"`
	RoomHint       *string `db:"room_hint" json:"room_hint,omitempty"`
}
