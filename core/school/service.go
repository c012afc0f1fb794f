// Package school exposes the console's resource operations (courses,
// students, professors, lessons, attendance, grades, certificates) as typed
// CRUD calls over the authenticated transport.
package school

import (
	"github.com/trezcool/academia/core/client"
)

type Service struct {
	api *client.Client
}

func NewService(api *client.Client) *Service {
	return &Service{api: api}
}
