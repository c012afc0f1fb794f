package school

import (
	"time"

	"github.com/trezcool/academia/core"
)

// Records match the backend's JSON contract for the console's resource pages.

type Course struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProfessorID int       `json:"professor_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Unit is a module within a Course.
type Unit struct {
	ID       int    `json:"id"`
	CourseID int    `json:"course_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type Student struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Registered time.Time `json:"registered"` // UTC
	CourseIDs  []int     `json:"course_ids,omitempty"`
}

type Professor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CourseIDs []int  `json:"course_ids,omitempty"`
}

type Lesson struct {
	ID       int       `json:"id"`
	CourseID int       `json:"course_id"`
	UnitID   int       `json:"unit_id,omitempty"`
	Topic    string    `json:"topic"`
	Date     time.Time `json:"date"` // UTC
}

type Attendance struct {
	ID        int  `json:"id"`
	LessonID  int  `json:"lesson_id"`
	StudentID int  `json:"student_id"`
	Present   bool `json:"present"`
}

type Grade struct {
	ID        int     `json:"id"`
	StudentID int     `json:"student_id"`
	CourseID  int     `json:"course_id"`
	Term      string  `json:"term"`
	Score     float64 `json:"score"`
}

type Certificate struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	CourseID  int       `json:"course_id"`
	IssuedAt  time.Time `json:"issued_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	ProfessorID int    `json:"professor_id" validate:"required"`
}

func (nc *NewCourse) Validate() error {
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Name = core.CleanString(nc.Name)
	return core.TranslateValidationErrors(core.Validate.Struct(nc))
}

// UpdateCourse defines what information may be provided to modify a Course.
// Zero-valued fields are left untouched by the backend.
type UpdateCourse struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ProfessorID int    `json:"professor_id,omitempty"`
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	CourseIDs []int  `json:"course_ids"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.TranslateValidationErrors(core.Validate.Struct(ns))
}

// NewGrade records a student's score for a course term.
type NewGrade struct {
	StudentID int     `json:"student_id" validate:"required"`
	CourseID  int     `json:"course_id" validate:"required"`
	Term      string  `json:"term" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0,lte=100"`
}

func (ng *NewGrade) Validate() error {
	ng.Term = core.CleanString(ng.Term)
	return core.TranslateValidationErrors(core.Validate.Struct(ng))
}
