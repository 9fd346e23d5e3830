// Package httpapi exposes the service over HTTP: auth, friend graph and
// post routes, with bearer-token authentication on the protected ones.
package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/logging"
	"github.com/dmitrijs2005/snapfeed/internal/server/config"
	"github.com/dmitrijs2005/snapfeed/internal/server/services"
)

type HTTPServer struct {
	address string
	app     *fiber.App
	logger  logging.Logger
	users   *services.UserService
	friends *services.FriendService
	posts   *services.PostService
	tmpDir  string
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us *services.UserService, fs *services.FriendService, ps *services.PostService) *HTTPServer {
	s := &HTTPServer{
		address: cfg.EndpointAddrHTTP,
		logger:  l.With("module", "http_server"),
		users:   us,
		friends: fs,
		posts:   ps,
		tmpDir:  cfg.UploadTmpDir,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler: s.errorHandler,
	})
	s.registerRoutes()

	return s
}

func (s *HTTPServer) registerRoutes() {
	auth := s.app.Group("/auth")
	auth.Post("/register", s.handleRegister)
	auth.Post("/login", s.handleLogin)
	auth.Post("/verify", s.handleVerify)

	friends := s.app.Group("/friends", s.requireToken)
	friends.Post("/search", s.handleSearchUsers)
	friends.Post("/add", s.handleAddFriend)

	s.app.Get("/posts", s.handleListPosts)
	s.app.Get("/posts/:id", s.handleGetPost)
	s.app.Post("/posts", s.requireToken, s.handleCreatePost)
	s.app.Put("/posts/:id", s.requireToken, s.handleEditPost)
}

// Run starts the server and stops it gracefully when ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = s.app.Shutdown()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}

// App exposes the underlying Fiber app for tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// errorHandler maps domain sentinels to status codes. Internal detail is
// logged and never sent to the caller.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	status := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, message = fiber.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		status, message = fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		status, message = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		status, message = fiber.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		status, message = fiber.StatusConflict, "already exists"
	default:
		s.logger.Error(c.UserContext(), "unexpected error", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"message": message})
}
