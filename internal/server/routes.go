package server

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api", s.withSession)
	api.Get("/session", s.getSession)
	api.Delete("/session", s.endSession)

	api.Post("/credential", s.saveCredential)
	api.Delete("/credential", s.removeCredential)

	api.Put("/input", s.setInput)
	api.Post("/input/file", s.uploadFile)
	api.Delete("/input", s.clearInput)

	api.Post("/transcript/process", s.process)
	api.Post("/transcript/translate", s.translate)
	api.Get("/transcript/export/:kind", s.exportResult)
}
