package organizations

import (
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// orgIDParam parses the {orgID} URL parameter. A malformed id gets a 400
// before any store or gate work happens.
func orgIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orgID"))
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid organization id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// callerID resolves the signed-in user's ObjectID. RequireSignedIn runs
// before every route here, so a miss means a malformed token subject.
func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	idHex, ok := auth.UserID(r)
	if !ok {
		apierrors.WriteJSON(w, http.StatusUnauthorized, "authentication required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		apierrors.WriteJSON(w, http.StatusUnauthorized, "authentication required")
		return primitive.NilObjectID, false
	}
	return id, true
}
