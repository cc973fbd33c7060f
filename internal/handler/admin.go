package handler

import (
	"net/http"

	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// ProfileReloader drops cached presentation profiles
type ProfileReloader interface {
	Invalidate()
}

// MsgProfilesReloaded is returned after a successful reload
const MsgProfilesReloaded = "Profiles reloaded"

// HandleReloadProfiles clears the profile cache so the next widget picks up
// edited files.
func HandleReloadProfiles(profiles ProfileReloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles.Invalidate()
		logger.FromContext(r.Context()).Info("Profile cache invalidated")
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgProfilesReloaded})
	}
}
