package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/session"
)

const (
	sessionCookie = "transcript_session"
	sessionLocal  = "session"
)

// withSession attaches the caller's session, starting a new one when the
// cookie is missing or the session expired.
func (s *Server) withSession(c *fiber.Ctx) error {
	sess, created := s.sessions.GetOrCreate(c.Cookies(sessionCookie))
	if created {
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		s.logger.Debug(c.UserContext(), "Started session %s", sess.ID())
	}
	c.Locals(sessionLocal, sess)
	return c.Next()
}

func currentSession(c *fiber.Ctx) *session.Session {
	return c.Locals(sessionLocal).(*session.Session)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug(c.UserContext(), "%s %s -> %d (%s)", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
	return err
}

// handleError renders errors that escaped a handler.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	msg := apperror.Message(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(stateResponse{Success: false, Message: msg})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, apperror.ErrBusy):
		return fiber.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCredential), errors.Is(err, apperror.ErrMissingCredential):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperror.ErrMissingInput),
		errors.Is(err, apperror.ErrInvalidFileType),
		errors.Is(err, apperror.ErrFileRead),
		errors.Is(err, apperror.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrEmptyModelResponse), errors.Is(err, apperror.ErrUpstream):
		return fiber.StatusBadGateway
	case errors.Is(err, apperror.ErrCredentialStore):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
