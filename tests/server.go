// Package testutil provides a fake Academia backend for tests: it issues
// HS256 JWTs on login, serves resource fixtures, records token revocations
// and can be told to rotate the bearer token via the Authorization response
// header, mirroring the real backend's contract.
package testutil

import (
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
	logsvc "github.com/trezcool/academia/services/logger"
)

const bearerPrefix = "Bearer "

type Backend struct {
	mu  sync.Mutex
	app *echo.Echo
	srv *httptest.Server

	secret     []byte
	rotateNext string
	revoked    []string

	Professor session.Identity
	Password  string
	ExpiresIn int64
}

func NewBackend() *Backend {
	app := echo.New()
	app.Logger.SetLevel(glog.OFF)

	b := &Backend{
		app:    app,
		secret: []byte("academia.tests.backend"),
		Professor: session.Identity{
			ID:       1,
			Name:     "Ana Maleka",
			Username: "ana",
			Email:    "ana@academia.test",
			IsAdmin:  true,
			Roles:    []string{"principal"},
		},
		Password:  "Str0ngPwd!",
		ExpiresIn: 3600,
	}

	app.POST("/v1/users/login", b.login)

	authed := app.Group("/v1", b.requireToken)
	authed.POST("/users/logout", b.logout)
	authed.GET("/courses", b.courses)
	authed.GET("/courses/:id", b.course)
	authed.GET("/students", b.students)
	authed.GET("/students/:id/grades", b.grades)
	authed.GET("/professors", b.professors)

	return b
}

// App exposes the underlying echo instance so tests can register extra routes.
func (b *Backend) App() *echo.Echo { return b.app }

// Start spins up the server and returns its base URL.
func (b *Backend) Start() string {
	b.srv = httptest.NewServer(b.app)
	return b.srv.URL
}

func (b *Backend) Close() {
	if b.srv != nil {
		b.srv.Close()
	}
}

// RotateNext makes the next authenticated response carry `Authorization:
// Bearer <token>`, simulating a server-initiated token rotation.
func (b *Backend) RotateNext(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rotateNext = token
}

// Revoked returns the tokens received on the logout endpoint.
func (b *Backend) Revoked() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.revoked...)
}

// GenerateToken issues a signed JWT for the given identity.
func (b *Backend) GenerateToken(ident session.Identity, expiresIn int64) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      ident.Username,
		"username": ident.Username,
		"email":    ident.Email,
		"is_admin": ident.IsAdmin,
		"roles":    ident.Roles,
		"iat":      now.Unix(),
		"oriat":    now.Unix(),
		"exp":      now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return token
}

// Handlers

func (b *Backend) login(ctx echo.Context) error {
	var data struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.Bind(&data); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "malformed request"})
	}
	if data.Username != b.Professor.Username || data.Password != b.Password {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid credentials"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"professor": b.Professor,
		"token_data": echo.Map{
			"access_token": b.GenerateToken(b.Professor, b.ExpiresIn),
			"expires_in":   b.ExpiresIn,
		},
	})
}

func (b *Backend) logout(ctx echo.Context) error {
	token := strings.TrimPrefix(ctx.Request().Header.Get("Authorization"), bearerPrefix)
	b.mu.Lock()
	b.revoked = append(b.revoked, token)
	b.mu.Unlock()
	return ctx.NoContent(http.StatusNoContent)
}

func (b *Backend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		auth := ctx.Request().Header.Get("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "user not authenticated"})
		}
		b.mu.Lock()
		rotate := b.rotateNext
		b.rotateNext = ""
		b.mu.Unlock()
		if rotate != "" {
			ctx.Response().Header().Set("Authorization", bearerPrefix+rotate)
		}
		return next(ctx)
	}
}

// Fixtures

func (b *Backend) courses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, []echo.Map{
		{"id": 1, "code": "go101", "name": "Intro to Programming", "professor_id": 1},
		{"id": 2, "code": "ml201", "name": "Machine Learning", "professor_id": 1},
	})
}

func (b *Backend) course(ctx echo.Context) error {
	if ctx.Param("id") != "1" {
		return ctx.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"id": 1, "code": "go101", "name": "Intro to Programming", "professor_id": 1,
	})
}

func (b *Backend) students(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, []echo.Map{
		{"id": 10, "name": "Joe Kasongo", "email": "joe@academia.test"},
		{"id": 11, "name": "Mira Banza", "email": "mira@academia.test"},
	})
}

func (b *Backend) professors(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, []echo.Map{
		{"id": 1, "name": b.Professor.Name, "email": b.Professor.Email, "is_admin": true},
	})
}

func (b *Backend) grades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, []echo.Map{
		{"id": 100, "student_id": 10, "course_id": 1, "term": "2026-1", "score": 86.5},
	})
}

// NewConfig returns a test Config pointed at the given backend URL.
func NewConfig(baseURL string) *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.Server.BaseURL = baseURL
	conf.Server.Timeout = 5 * time.Second
	return conf
}

// NewLogger returns a quiet logger for tests.
func NewLogger() core.Logger {
	return logsvc.NewConsoleLogger(log.New(ioutil.Discard, "", 0))
}
