package main

import (
	"net/http"

	storm "github.com/asdine/storm/v3"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dzikibot/tankdrive/onboard"
	"github.com/dzikibot/tankdrive/onboard/telemetry"
)

type targetRequest struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

func (t *targetRequest) Bind(r *http.Request) error { return nil }

type maneuverRequest struct {
	Action string `json:"action"`
	Pct    int    `json:"pct"`
}

func (m *maneuverRequest) Bind(r *http.Request) error { return nil }

type profileRequest struct {
	Name string `json:"name"`
}

func (p *profileRequest) Bind(r *http.Request) error { return nil }

// newRouter builds the LAN debug/control surface. This is the moral
// equivalent of the old serial console: no auth, not meant to face the
// internet.
func newRouter(bot onboard.Rover, db *storm.DB, bcast *telemetry.Broadcaster) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Recoverer) // make sure this is last

	r.Get("/state", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, bot.Frame())
	})

	r.Get("/params", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, bot.Params())
	})

	r.Post("/target", func(w http.ResponseWriter, req *http.Request) {
		data := &targetRequest{}
		if err := render.Bind(req, data); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		bot.SetTarget(data.Left, data.Right)
		render.NoContent(w, req)
	})

	r.Post("/maneuver", func(w http.ResponseWriter, req *http.Request) {
		data := &maneuverRequest{}
		if err := render.Bind(req, data); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := bot.Maneuver(data.Action, data.Pct); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		render.NoContent(w, req)
	})

	r.Post("/test/start", func(w http.ResponseWriter, req *http.Request) {
		bot.StartTest()
		render.NoContent(w, req)
	})

	r.Post("/test/stop", func(w http.ResponseWriter, req *http.Request) {
		bot.StopTest()
		render.NoContent(w, req)
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			profiles, err := listProfiles(db)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			render.JSON(w, req, profiles)
		})

		// save the currently active tuning under a name
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			data := &profileRequest{}
			if err := render.Bind(req, data); err != nil || data.Name == "" {
				http.Error(w, "profile name required", http.StatusBadRequest)
				return
			}
			if err := saveProfile(db, data.Name, bot.Params()); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			render.NoContent(w, req)
		})

		r.Post("/{name}/apply", func(w http.ResponseWriter, req *http.Request) {
			params, err := loadProfile(db, chi.URLParam(req, "name"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			bot.Retune(params)
			render.NoContent(w, req)
		})

		r.Delete("/{name}", func(w http.ResponseWriter, req *http.Request) {
			if err := deleteProfile(db, chi.URLParam(req, "name")); err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			render.NoContent(w, req)
		})
	})

	r.Get("/ws", bcast.Handler)

	return r
}
