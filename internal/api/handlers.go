package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

// TrackDTO is one venue as the dashboard consumes it. Sentinel cells are
// rendered as JSON null; the frontend never sees "N/A" or "FAILED".
type TrackDTO struct {
	TrackID  int     `json:"track_id"`
	Name     string  `json:"name"`
	City     *string `json:"city"`
	Country  string  `json:"country"`
	Category string  `json:"category"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Website           *string `json:"website"`
	MapsURL           *string `json:"maps_url"`
	OfficialWebsite   *string `json:"official_website"`
	HeroImageURL      *string `json:"hero_image_url"`
	TopReviewsSnippet *string `json:"top_reviews_snippet"`

	ReviewVelocity12M *float64 `json:"review_velocity_12m"`
	ManagementIssues  bool     `json:"management_issues"`
	StructuralIssues  bool     `json:"structural_issues"`
	OwnerActivity     bool     `json:"owner_activity"`

	BuildingSqm *float64 `json:"building_sqm"`
	B2BDensity  *float64 `json:"b2b_density"`

	TrackLengthM             *float64 `json:"track_length_m"`
	WebsiteTrackLengthM      *float64 `json:"website_track_length_m"`
	ConsolidatedTrackLengthM *float64 `json:"consolidated_track_length_m"`

	NutsID              *string  `json:"nuts_id"`
	NutsName            *string  `json:"nuts_name"`
	DisposableIncomePPS *float64 `json:"disposable_income_pps"`
	WealthDataYear      *string  `json:"wealth_data_year"`

	CatchmentAreaKm2 *float64 `json:"catchment_area_km2"`

	IsIndoor  bool `json:"is_indoor"`
	IsOutdoor bool `json:"is_outdoor"`
	IsSim     bool `json:"is_sim"`

	DataQualityScore int `json:"data_quality_score"`
}

func trackDTO(r domain.VenueRecord) TrackDTO {
	dto := TrackDTO{
		TrackID:  r.TrackID,
		Name:     r.Name,
		Country:  r.Country,
		Category: r.Category,

		City:              textPtr(r.City),
		Latitude:          numberPtr(r.Latitude),
		Longitude:         numberPtr(r.Longitude),
		Website:           textPtr(r.Website),
		MapsURL:           textPtr(r.MapsURL),
		OfficialWebsite:   textPtr(r.OfficialWebsite),
		HeroImageURL:      textPtr(r.HeroImageURL),
		TopReviewsSnippet: textPtr(r.TopReviewsSnippet),

		ReviewVelocity12M: numberPtr(r.ReviewVelocity12M),
		ManagementIssues:  r.ManagementIssues,
		StructuralIssues:  r.StructuralIssues,
		OwnerActivity:     r.OwnerActivity,

		BuildingSqm: numberPtr(r.BuildingSqm),
		B2BDensity:  numberPtr(r.B2BDensity),

		TrackLengthM:        numberPtr(r.TrackLengthM),
		WebsiteTrackLengthM: numberPtr(r.WebsiteTrackLengthM),

		NutsID:              textPtr(r.NutsID),
		NutsName:            textPtr(r.NutsName),
		DisposableIncomePPS: numberPtr(r.DisposableIncomePPS),
		WealthDataYear:      textPtr(r.WealthDataYear),

		CatchmentAreaKm2: numberPtr(r.CatchmentAreaKm2),

		IsIndoor:  r.IsIndoor,
		IsOutdoor: r.IsOutdoor,
		IsSim:     r.IsSim,

		DataQualityScore: r.DataQualityScore,
	}

	// The website-stated length is what the venue advertises; mapped
	// geometry fills in when the site says nothing.
	switch {
	case r.WebsiteTrackLengthM.Present():
		dto.ConsolidatedTrackLengthM = numberPtr(r.WebsiteTrackLengthM)
	case r.TrackLengthM.Present():
		dto.ConsolidatedTrackLengthM = numberPtr(r.TrackLengthM)
	}

	return dto
}

func textPtr(t domain.Text) *string {
	if !t.Present() {
		return nil
	}
	v := t.Value
	return &v
}

func numberPtr(n domain.Number) *float64 {
	if !n.Present() {
		return nil
	}
	v := n.Value
	return &v
}

// handleTracks serves the full dataset. A store that cannot be read is an
// empty dataset, not an error; the dashboard must render before the first
// pass has ever run.
func (s *Server) handleTracks(w http.ResponseWriter, _ *http.Request) {
	records, err := store.ReadRecords(s.storePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Error("read store failed", "error", err)
		}
		writeJSON(w, http.StatusOK, []TrackDTO{})
		return
	}

	dtos := make([]TrackDTO, len(records))
	for i, r := range records {
		dtos[i] = trackDTO(r)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleShapes(w http.ResponseWriter, _ *http.Request) {
	fc, err := s.shapes.Get()
	if err != nil {
		s.logger.Error("read shapes failed", "error", err)
		writeJSON(w, http.StatusOK, store.FeatureCollection{
			Type: "FeatureCollection", Features: []store.Feature{},
		})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		s.logger.Error("encode shapes failed", "error", err)
	}
}

func (s *Server) handleWishlistGet(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	ids, err := s.wishlist.Get(user)
	if err != nil {
		s.logger.Error("read wishlist failed", "user", user, "error", err)
		writeError(w, http.StatusInternalServerError, "wishlist unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int{"track_ids": ids})
}

func (s *Server) handleWishlistUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req struct {
		TrackID int    `json:"track_id"`
		Action  string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ids, err := s.wishlist.Update(user, req.TrackID, req.Action)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			s.logger.Error("update wishlist failed", "user", user, "error", err)
			writeError(w, http.StatusInternalServerError, "wishlist unavailable")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int{"track_ids": ids})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.sessions.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "user": req.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
