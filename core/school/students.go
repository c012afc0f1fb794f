package school

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

func (s *Service) Students(ctx context.Context) ([]Student, error) {
	var students []Student
	if err := s.api.Request(ctx, http.MethodGet, "/v1/students", nil, &students); err != nil {
		return nil, errors.Wrap(err, "listing students")
	}
	return students, nil
}

func (s *Service) Student(ctx context.Context, id int) (Student, error) {
	var student Student
	if err := s.api.Request(ctx, http.MethodGet, studentPath(id), nil, &student); err != nil {
		return Student{}, errors.Wrapf(err, "retrieving student %d", id)
	}
	return student, nil
}

func (s *Service) CreateStudent(ctx context.Context, data NewStudent) (Student, error) {
	if err := data.Validate(); err != nil {
		return Student{}, err
	}
	var student Student
	if err := s.api.Request(ctx, http.MethodPost, "/v1/students", &data, &student); err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	return student, nil
}

func (s *Service) DeleteStudent(ctx context.Context, id int) error {
	if err := s.api.Request(ctx, http.MethodDelete, studentPath(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting student %d", id)
	}
	return nil
}

// StudentCertificates lists the certificates issued to a student.
func (s *Service) StudentCertificates(ctx context.Context, id int) ([]Certificate, error) {
	var certs []Certificate
	if err := s.api.Request(ctx, http.MethodGet, studentPath(id)+"/certificates", nil, &certs); err != nil {
		return nil, errors.Wrapf(err, "listing certificates of student %d", id)
	}
	return certs, nil
}

func studentPath(id int) string {
	return fmt.Sprintf("/v1/students/%d", id)
}
