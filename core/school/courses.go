package school

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

func (s *Service) Courses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := s.api.Request(ctx, http.MethodGet, "/v1/courses", nil, &courses); err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	return courses, nil
}

func (s *Service) Course(ctx context.Context, id int) (Course, error) {
	var course Course
	if err := s.api.Request(ctx, http.MethodGet, coursePath(id), nil, &course); err != nil {
		return Course{}, errors.Wrapf(err, "retrieving course %d", id)
	}
	return course, nil
}

func (s *Service) CreateCourse(ctx context.Context, data NewCourse) (Course, error) {
	if err := data.Validate(); err != nil {
		return Course{}, err
	}
	var course Course
	if err := s.api.Request(ctx, http.MethodPost, "/v1/courses", &data, &course); err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return course, nil
}

func (s *Service) UpdateCourse(ctx context.Context, id int, data UpdateCourse) (Course, error) {
	var course Course
	if err := s.api.Request(ctx, http.MethodPut, coursePath(id), &data, &course); err != nil {
		return Course{}, errors.Wrapf(err, "updating course %d", id)
	}
	return course, nil
}

func (s *Service) DeleteCourse(ctx context.Context, id int) error {
	if err := s.api.Request(ctx, http.MethodDelete, coursePath(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting course %d", id)
	}
	return nil
}

// Units lists a course's modules in display order.
func (s *Service) Units(ctx context.Context, courseID int) ([]Unit, error) {
	var units []Unit
	if err := s.api.Request(ctx, http.MethodGet, coursePath(courseID)+"/units", nil, &units); err != nil {
		return nil, errors.Wrapf(err, "listing units of course %d", courseID)
	}
	return units, nil
}

func coursePath(id int) string {
	return fmt.Sprintf("/v1/courses/%d", id)
}
