package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (a *API) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.posts.Create(r.Context(), session(r), req.input())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Post created successfully", p)
}

// parseFilter reads subject, location, minSalary and maxSalary from the
// query string. Empty values are ignored.
func parseFilter(r *http.Request) (models.PostFilter, error) {
	q := r.URL.Query()
	f := models.PostFilter{
		Subject:  strings.TrimSpace(q.Get("subject")),
		Location: strings.TrimSpace(q.Get("location")),
	}

	ve := &common.ValidationError{}
	parse := func(key string) *float64 {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			ve.Add(key, key+" must be a number")
			return nil
		}
		return &v
	}
	f.MinSalary = parse("minSalary")
	f.MaxSalary = parse("maxSalary")

	if !ve.Empty() {
		return models.PostFilter{}, ve
	}
	return f, nil
}

func (a *API) listPosts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	list, err := a.posts.List(r.Context(), f)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Posts retrieved successfully", list)
}

func (a *API) myPosts(w http.ResponseWriter, r *http.Request) {
	list, err := a.posts.ListMine(r.Context(), session(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Posts retrieved successfully", list)
}

func (a *API) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := a.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Post retrieved successfully", p)
}

func (a *API) updatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.posts.Update(r.Context(), session(r), chi.URLParam(r, "id"), req.input())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Post updated successfully", p)
}

func (a *API) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := a.posts.Delete(r.Context(), session(r), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Post deleted successfully", nil)
}

func (a *API) expressInterest(w http.ResponseWriter, r *http.Request) {
	p, err := a.posts.ExpressInterest(r.Context(), session(r), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Interest expressed successfully", p)
}

func (a *API) listInterested(w http.ResponseWriter, r *http.Request) {
	tutors, err := a.posts.ListInterestedTutors(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Interested tutors retrieved successfully", tutors)
}

func (a *API) selectTutor(w http.ResponseWriter, r *http.Request) {
	var req selectTutorRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.posts.SelectTutor(r.Context(), session(r), chi.URLParam(r, "id"), strings.TrimSpace(req.TutorID))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Tutor selected successfully", p)
}
