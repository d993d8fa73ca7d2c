package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-sync/middleware"
	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/services"
)

const maxLogoSize = 5 << 20 // 5MB

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// ListHandler godoc
// @Summary      List tournaments of an organizer
// @Tags         tournaments
// @Produce      json
// @Param        organizer_id  query  int  true  "Organizer ID"
// @Success      200  {object}  map[string][]models.Tournament
// @Router       /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	organizerIDStr := r.URL.Query().Get("organizer_id")
	organizerID, err := strconv.Atoi(organizerIDStr)
	if err != nil || organizerID <= 0 {
		badRequestResponse(w, r, errors.New("invalid or missing organizer_id query parameter"))
		return
	}

	tournaments, err := h.tournamentService.List(r.Context(), organizerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFullHandler godoc
// @Summary      Get a tournament with all of its records
// @Tags         tournaments
// @Produce      json
// @Param        tournamentID  path  string  true  "Tournament ID"
// @Success      200  {object}  models.TournamentFull
// @Failure      404  {object}  map[string]string
// @Router       /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetFullHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	full, err := h.tournamentService.GetFull(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, full, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateHandler godoc
// @Summary      Create a tournament with all of its records
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament  body  models.TournamentFull  true  "Tournament"
// @Success      201  {object}  models.TournamentFull
// @Failure      422  {object}  map[string]string
// @Failure      500  {object}  map[string]interface{}
// @Router       /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create tournament")
		return
	}

	var input models.TournamentFull
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	// creation always starts from a blank tournament
	input.Tournament.ID = ""

	saved, err := h.tournamentService.SaveFull(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, saved, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SaveHandler godoc
// @Summary      Save the full state of an existing tournament
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournamentID  path  string  true  "Tournament ID"
// @Param        tournament  body  models.TournamentFull  true  "Tournament"
// @Success      200  {object}  models.TournamentFull
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]interface{}
// @Router       /tournaments/{tournamentID} [put]
func (h *TournamentHandler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to update tournament")
		return
	}

	var input models.TournamentFull
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Tournament.ID != "" && input.Tournament.ID != id {
		badRequestResponse(w, r, errors.New("tournament id in body does not match the URL"))
		return
	}
	input.Tournament.ID = id

	saved, err := h.tournamentService.SaveFull(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, saved, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler godoc
// @Summary      Delete a tournament with all of its records
// @Tags         tournaments
// @Security     BearerAuth
// @Param        tournamentID  path  string  true  "Tournament ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to delete tournament")
		return
	}

	if err := h.tournamentService.Delete(r.Context(), currentUserID, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadLogoHandler godoc
// @Summary      Upload a tournament logo
// @Tags         tournaments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        tournamentID  path  string  true  "Tournament ID"
// @Param        logo  formData  file  true  "Logo image (png, jpeg, webp, svg)"
// @Success      200  {object}  map[string]models.Tournament
// @Failure      422  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/logo [post]
func (h *TournamentHandler) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to upload logo")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoSize+1024)
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		badRequestResponse(w, r, errors.New("logo must be a multipart form not larger than 5MB"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing 'logo' file in form"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	tournament, err := h.tournamentService.UploadLogo(r.Context(), currentUserID, id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
