package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(w, r, &req, func() error { return req.Validate() }); err != nil {
		a.fail(w, r, err)
		return
	}
	s, err := a.Services.Auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusCreated, s, "User registered successfully")
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(w, r, &req, func() error { return req.Validate() }); err != nil {
		a.fail(w, r, err)
		return
	}
	s, err := a.Services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, s, "Login successful")
}

// teams

func (a *API) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := a.Services.Teams.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, teams, "")
}

func (a *API) getTeam(w http.ResponseWriter, r *http.Request) {
	t, err := a.Services.Teams.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, t, "")
}

func (a *API) createTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	v := teamValidator{clock: a.Clock}
	if err := decode(w, r, &req, func() error { return v.create(req) }); err != nil {
		a.fail(w, r, err)
		return
	}
	t, err := a.Services.Teams.Create(r.Context(), req.Team())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusCreated, t, "Team created successfully")
}

func (a *API) updateTeam(w http.ResponseWriter, r *http.Request) {
	var p model.TeamPatch
	v := teamValidator{clock: a.Clock}
	if err := decode(w, r, &p, func() error { return v.update(p) }); err != nil {
		a.fail(w, r, err)
		return
	}
	t, err := a.Services.Teams.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, t, "Team updated successfully")
}

func (a *API) deleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := a.Services.Teams.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, nil, "Team deleted successfully")
}

// players

func (a *API) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := a.Services.Players.List(r.Context(), r.URL.Query().Get("teamId"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, players, "")
}

func (a *API) getPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := a.Services.Players.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, p, "")
}

func (a *API) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if err := decode(w, r, &req, func() error { return req.Validate() }); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.Services.Players.Create(r.Context(), req.Player())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusCreated, p, "Player created successfully")
}

func (a *API) updatePlayer(w http.ResponseWriter, r *http.Request) {
	var patch model.PlayerPatch
	if err := decode(w, r, &patch, func() error { return validatePlayerPatch(patch) }); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.Services.Players.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, p, "Player updated successfully")
}

func (a *API) deletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := a.Services.Players.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, nil, "Player deleted successfully")
}

// matches

func (a *API) listMatches(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidStatus(status) {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "status: must be a valid value"})
		return
	}
	matches, err := a.Services.Matches.List(r.Context(), status)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, matches, "")
}

func (a *API) getMatch(w http.ResponseWriter, r *http.Request) {
	m, err := a.Services.Matches.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, m, "")
}

func (a *API) getPrediction(w http.ResponseWriter, r *http.Request) {
	p, err := a.Services.Matches.Prediction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, p, "")
}

func (a *API) createMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := decode(w, r, &req, func() error { return req.Validate() }); err != nil {
		a.fail(w, r, err)
		return
	}
	m, err := req.Match()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	doc, err := a.Services.Matches.Create(r.Context(), m)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusCreated, doc, "Match created successfully")
}

func (a *API) updateMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchUpdateRequest
	if err := decode(w, r, &req, func() error { return req.Validate() }); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := req.Patch()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	doc, err := a.Services.Matches.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, doc, "Match updated successfully")
}

func (a *API) deleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := a.Services.Matches.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, nil, "Match deleted successfully")
}
