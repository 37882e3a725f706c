package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkalnins/gallery/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", common.ErrorValidation))
		return
	}

	user, err := s.users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Success: true, Message: "Registered.", User: toUserPayload(user)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", common.ErrorValidation))
		return
	}

	user, token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.sessionValidity),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, response{Success: true, Message: "Logged in.", User: toUserPayload(user)})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, response{Success: true, Message: "Logged out."})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, posts, err := s.users.CurrentUser(ctx, userIDFromContext(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, User: toUserPayload(user), Posts: toPostPayloads(posts)})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: please attach an image", common.ErrorNoFile))
		return
	}
	defer file.Close()

	caption := r.FormValue("caption")
	contentType := header.Header.Get("Content-Type")

	if _, err := s.posts.Create(ctx, userIDFromContext(ctx), caption, file, contentType); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	// The created post is not echoed back; clients re-fetch /me.
	writeJSON(w, http.StatusCreated, response{Success: true, Message: "Post created."})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.posts.Delete(ctx, userIDFromContext(ctx), r.PathValue("id")); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: "Post deleted."})
}

func (s *Server) searchPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := s.posts.Search(ctx, userIDFromContext(ctx), r.URL.Query().Get("title"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Posts: toPostPayloads(posts)})
}
