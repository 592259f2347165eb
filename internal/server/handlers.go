package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/export"
	"github.com/nguyentantai21042004/transcript-flow/internal/session"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	st := currentSession(c).CheckCredential(c.UserContext())
	return reply(c, st, nil)
}

// endSession signs out: the session and its credential are dropped and the
// cookie is cleared. The next request starts a fresh session.
func (s *Server) endSession(c *fiber.Ctx) error {
	sess := currentSession(c)
	if st := sess.State(); st.IsLoading() || st.IsTranslating() {
		return reply(c, st, apperror.ErrBusy)
	}
	s.sessions.End(sess.ID())
	c.ClearCookie(sessionCookie)
	s.logger.Debug(c.UserContext(), "Ended session %s", sess.ID())
	return c.JSON(stateResponse{Success: true})
}

func (s *Server) saveCredential(c *fiber.Ctx) error {
	var req credentialRequest
	if err := s.parse(c, &req); err != nil {
		return err
	}
	st, err := currentSession(c).SaveCredential(c.UserContext(), req.APIKey)
	return reply(c, st, err)
}

func (s *Server) removeCredential(c *fiber.Ctx) error {
	st, err := currentSession(c).RemoveCredential(c.UserContext())
	return reply(c, st, err)
}

func (s *Server) setInput(c *fiber.Ctx) error {
	var req inputRequest
	if err := s.parse(c, &req); err != nil {
		return err
	}
	st, err := currentSession(c).SetInput(req.Text)
	return reply(c, st, err)
}

func (s *Server) uploadFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("missing upload field %q: %w", "file", apperror.ErrInvalidRequest)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w: %v", apperror.ErrFileRead, err)
	}
	defer f.Close()

	st, err := currentSession(c).LoadFile(f, fh.Header.Get(fiber.HeaderContentType))
	return reply(c, st, err)
}

func (s *Server) clearInput(c *fiber.Ctx) error {
	st, err := currentSession(c).Clear()
	return reply(c, st, err)
}

func (s *Server) process(c *fiber.Ctx) error {
	var req processRequest
	if len(c.Body()) > 0 {
		if err := s.parse(c, &req); err != nil {
			return err
		}
	}
	st, err := currentSession(c).Process(c.UserContext(), session.ProcessRequest{
		Text:            req.Text,
		StripTimestamps: req.StripTimestamps,
	})
	return reply(c, st, err)
}

func (s *Server) translate(c *fiber.Ctx) error {
	st, err := currentSession(c).Translate(c.UserContext())
	return reply(c, st, err)
}

func (s *Server) exportResult(c *fiber.Ctx) error {
	q := exportQuery{Kind: c.Params("kind")}
	if err := c.QueryParser(&q); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidRequest, err)
	}
	if err := s.validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidRequest, err)
	}

	kind, err := export.ParseKind(q.Kind)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		return err
	}

	artifact, err := currentSession(c).Export(kind, format)
	if err != nil {
		return err
	}

	c.Attachment(artifact.Filename)
	c.Set(fiber.HeaderContentType, artifact.ContentType)
	return c.Send(artifact.Body)
}

// parse decodes the JSON body into v and validates it.
func (s *Server) parse(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidRequest, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidRequest, err)
	}
	return nil
}

// reply answers with the state record. Failed actions still carry the new
// state so the UI can render the error in place.
func reply(c *fiber.Ctx, st session.State, err error) error {
	if err == nil {
		return c.JSON(stateResponse{Success: true, State: &st})
	}
	return c.Status(statusFor(err)).JSON(stateResponse{
		Success: false,
		Message: apperror.Message(err),
		State:   &st,
	})
}
