package school

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Lessons lists a course's lessons.
func (s *Service) Lessons(ctx context.Context, courseID int) ([]Lesson, error) {
	var lessons []Lesson
	if err := s.api.Request(ctx, http.MethodGet, coursePath(courseID)+"/lessons", nil, &lessons); err != nil {
		return nil, errors.Wrapf(err, "listing lessons of course %d", courseID)
	}
	return lessons, nil
}

// LessonAttendance lists the attendance records taken for a lesson.
func (s *Service) LessonAttendance(ctx context.Context, lessonID int) ([]Attendance, error) {
	var records []Attendance
	path := fmt.Sprintf("/v1/lessons/%d/attendance", lessonID)
	if err := s.api.Request(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, errors.Wrapf(err, "listing attendance of lesson %d", lessonID)
	}
	return records, nil
}

// RecordAttendance marks a student present or absent for a lesson.
func (s *Service) RecordAttendance(ctx context.Context, lessonID, studentID int, present bool) (Attendance, error) {
	data := Attendance{LessonID: lessonID, StudentID: studentID, Present: present}
	var rec Attendance
	if err := s.api.Request(ctx, http.MethodPost, "/v1/attendance", &data, &rec); err != nil {
		return Attendance{}, errors.Wrap(err, "recording attendance")
	}
	return rec, nil
}

// StudentGrades lists a student's grades across courses.
func (s *Service) StudentGrades(ctx context.Context, studentID int) ([]Grade, error) {
	var grades []Grade
	if err := s.api.Request(ctx, http.MethodGet, studentPath(studentID)+"/grades", nil, &grades); err != nil {
		return nil, errors.Wrapf(err, "listing grades of student %d", studentID)
	}
	return grades, nil
}

func (s *Service) CreateGrade(ctx context.Context, data NewGrade) (Grade, error) {
	if err := data.Validate(); err != nil {
		return Grade{}, err
	}
	var grade Grade
	if err := s.api.Request(ctx, http.MethodPost, "/v1/grades", &data, &grade); err != nil {
		return Grade{}, errors.Wrap(err, "creating grade")
	}
	return grade, nil
}
