package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/habits/internal/auth"
	"github.com/starford/habits/internal/habitservice"
	"github.com/starford/habits/internal/store"
)

// NewRouter creates a chi router with all API routes mounted. The /auth
// routes are open; everything else requires a Bearer token resolved by the
// verifier.
func NewRouter(svc *habitservice.Service, db store.Store, codec *auth.TokenCodec, verifier *auth.Verifier) chi.Router {
	h := NewHandler(svc)
	ah := NewAuthHandler(db, codec)

	r := chi.NewRouter()

	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(verifier))

		// Habits CRUD.
		r.Get("/habits", h.ListHabits)
		r.Post("/habits", h.CreateHabit)
		r.Put("/habits/{id}", h.UpdateHabit)
		r.Patch("/habits/{id}", h.PatchHabitStatus)
		r.Delete("/habits/{id}", h.DeleteHabit)

		// Moods.
		r.Post("/moods", h.CreateMood)
		r.Get("/moods", h.ListMoods)
	})

	return r
}
