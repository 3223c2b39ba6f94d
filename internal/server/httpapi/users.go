package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/tutorhub/internal/server/services"
)

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := a.users.Register(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "User registered successfully", res)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := a.users.Login(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Login successful", res)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u, err := a.users.GetProfile(r.Context(), session(r).UserID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Profile retrieved successfully", u)
}

func (a *API) updatePhone(w http.ResponseWriter, r *http.Request) {
	var in services.UpdatePhoneInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.users.UpdatePhone(r.Context(), session(r).UserID, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Phone number updated successfully", u)
}

func (a *API) updatePassword(w http.ResponseWriter, r *http.Request) {
	var in services.UpdatePasswordInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.users.UpdatePassword(r.Context(), session(r).UserID, in); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Password updated successfully", nil)
}
