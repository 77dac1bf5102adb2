package handlers

import "github.com/go-chi/chi/v5"

// Routes монтирует маршруты календаря. Ожидается, что выше стоит middleware.Auth.
func (h *CalendarHandler) Routes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.GetCollection)      // GET /tasks
		r.Post("/", h.ReplaceCollection) // POST /tasks

		r.Route("/{date}", func(r chi.Router) {
			r.Post("/", h.AddTasks)            // POST /tasks/{date}
			r.Put("/{index}", h.SetCompletion) // PUT /tasks/{date}/{index}
			r.Delete("/{index}", h.DeleteTask) // DELETE /tasks/{date}/{index}
		})
	})

	r.Put("/days/{date}", h.SetDayType) // PUT /days/{date}

	r.Post("/categories", h.AddCategory)             // POST /categories
	r.Delete("/categories/{name}", h.RemoveCategory) // DELETE /categories/{name}

	r.Get("/stats/coverage", h.Coverage) // GET /stats/coverage?start=&end=&category=
	r.Get("/stats/summary", h.Summary)   // GET /stats/summary?date=
}

func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/signup", h.SignUp)
	r.Post("/login", h.Login)
}

// ProtectedRoutes монтируется внутри группы с middleware.Auth
func (h *AuthHandler) ProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.Me) // GET /auth/me
}
