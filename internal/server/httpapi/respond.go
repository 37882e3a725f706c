package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pkalnins/gallery/internal/common"
	"github.com/pkalnins/gallery/internal/server/models"
)

// response is the uniform JSON envelope: {success, message} plus optional
// user/posts payloads.
type response struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	User    *userPayload  `json:"user,omitempty"`
	Posts   []postPayload `json:"posts,omitempty"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Posts     []string  `json:"posts"`
	CreatedAt time.Time `json:"createdAt"`
}

type postPayload struct {
	ID        string       `json:"id"`
	Caption   string       `json:"caption"`
	Image     imagePayload `json:"image"`
	Owner     string       `json:"owner"`
	CreatedAt time.Time    `json:"createdAt"`
}

type imagePayload struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func toUserPayload(u *models.User) *userPayload {
	ids := u.PostIDs
	if ids == nil {
		ids = []string{}
	}
	return &userPayload{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Posts:     ids,
		CreatedAt: u.CreatedAt,
	}
}

func toPostPayloads(posts []*models.Post) []postPayload {
	result := make([]postPayload, 0, len(posts))
	for _, p := range posts {
		result = append(result, postPayload{
			ID:        p.ID,
			Caption:   p.Caption,
			Image:     imagePayload{ID: p.ImageKey, URL: p.ImageURL},
			Owner:     p.OwnerID,
			CreatedAt: p.CreatedAt,
		})
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFromError maps sentinel errors onto the HTTP failure taxonomy:
// validation 400, auth 401/403, not-found 404, everything else 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrorNoFile):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFromError(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "error", err.Error())
		msg = "internal server error"
	}

	writeJSON(w, status, response{Success: false, Message: msg})
}
