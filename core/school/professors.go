package school

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

func (s *Service) Professors(ctx context.Context) ([]Professor, error) {
	var professors []Professor
	if err := s.api.Request(ctx, http.MethodGet, "/v1/professors", nil, &professors); err != nil {
		return nil, errors.Wrap(err, "listing professors")
	}
	return professors, nil
}

func (s *Service) Professor(ctx context.Context, id int) (Professor, error) {
	var professor Professor
	path := fmt.Sprintf("/v1/professors/%d", id)
	if err := s.api.Request(ctx, http.MethodGet, path, nil, &professor); err != nil {
		return Professor{}, errors.Wrapf(err, "retrieving professor %d", id)
	}
	return professor, nil
}
