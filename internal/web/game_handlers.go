package web

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"picfolio/internal/guess"
	"picfolio/internal/logger"
	"picfolio/internal/rps"
	"picfolio/internal/session"
)

const gameOverMessage = "Game over."

func (h *WebHandler) RPSGame(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "rps_game", &PageData{Choices: rps.Choices})
		return
	}

	form := parseRPS(r)
	if err := h.validate.Struct(form); err != nil {
		s := h.sessions.Get(r)
		h.redirectWithFlash(w, r, s, session.FlashDanger, validationMessage(err), "/rps_game")
		return
	}
	choice, err := rps.ParseChoice(form.Choice)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	round, err := h.rps.Play(choice)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.metrics.RecordGame("rps", string(round.Outcome))
	h.render(w, r, "rps_result", &PageData{Choices: rps.Choices, Round: &round, Result: round.Outcome.Message()})
}

// Wordle starts a game on first visit and advances it on POST. Finished
// games stay finished until /reset.
func (h *WebHandler) Wordle(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	state := s.GameState()
	if state.Status() == guess.NotStarted {
		state = h.guess.Start()
		s.SetGameState(state)
	}
	if state.Status().Terminal() {
		h.redirectToEnd(w, r, s, guess.EndMessage(state))
		return
	}

	view := &WordleView{}
	if r.Method == http.MethodPost {
		res, err := h.guess.Guess(state, r.FormValue("guess"))
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		s.SetGameState(state)
		if res.Status.Terminal() {
			h.metrics.RecordGame("wordle", string(res.Status))
			h.redirectToEnd(w, r, s, res.Message)
			return
		}
		view.Feedback = res.Feedback
		view.Result = res.Message
	}

	view.Attempts = state.Attempts
	view.AttemptsLeft = state.AttemptsLeft()
	view.MaxAttempts = state.MaxAttempts
	h.render(w, r, "wordle", &PageData{Wordle: view})
}

// redirectToEnd carries the result to /wordle_end in a signed token so the
// summary cannot be forged through the query string.
func (h *WebHandler) redirectToEnd(w http.ResponseWriter, r *http.Request, s *session.Session, message string) {
	token, err := h.tokens.SignResult(message)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.redirect(w, r, s, "/wordle_end?result="+url.QueryEscape(token))
}

func (h *WebHandler) WordleEnd(w http.ResponseWriter, r *http.Request) {
	result := gameOverMessage
	if token := r.URL.Query().Get("result"); token != "" {
		msg, err := h.tokens.VerifyResult(token)
		if err != nil {
			logger.Debug("ignoring invalid result token", zap.Error(err))
		} else {
			result = msg
		}
	}
	h.render(w, r, "wordle_end", &PageData{Result: result})
}

func (h *WebHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	s.ClearGameState()
	h.redirect(w, r, s, "/wordle")
}
