package locations

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/geo"
	"github.com/harborline/harborline/internal/server/handlers/api"
)

// LocationsHandler manages the shipping locations shown on the map. When a
// submission omits coordinates the geocoder fills them in; a failed lookup
// leaves them empty rather than failing the request.
type LocationsHandler struct {
	docs     *content.Store
	geocoder geo.Geocoder
}

func New(docs *content.Store, geocoder geo.Geocoder) *LocationsHandler {
	return &LocationsHandler{docs: docs, geocoder: geocoder}
}

func (h *LocationsHandler) List(ctx *gin.Context) {
	locations, err := h.docs.ListLocations(ctx.Request.Context())
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, locations)
}

func (h *LocationsHandler) Create(ctx *gin.Context) {
	var req UpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	loc := &content.Location{
		Name:    req.Name,
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
	}
	h.fillCoordinates(ctx, loc)

	if err := h.docs.CreateLocation(ctx.Request.Context(), loc); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusCreated, loc)
}

func (h *LocationsHandler) Update(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest,
			fmt.Errorf("invalid location id %q", ctx.Param("id")))
		return
	}

	var req UpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	loc := &content.Location{
		ID:      id,
		Name:    req.Name,
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
	}
	h.fillCoordinates(ctx, loc)

	if err := h.docs.UpdateLocation(ctx.Request.Context(), loc); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}

	updated, err := h.docs.GetLocation(ctx.Request.Context(), id)
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, updated)
}

func (h *LocationsHandler) Delete(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest,
			fmt.Errorf("invalid location id %q", ctx.Param("id")))
		return
	}

	if err := h.docs.DeleteLocation(ctx.Request.Context(), id); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, gin.H{"success": true})
}

func (h *LocationsHandler) fillCoordinates(ctx *gin.Context, loc *content.Location) {
	if loc.Lat != nil && loc.Lng != nil {
		return
	}
	if h.geocoder == nil {
		return
	}

	coords, err := h.geocoder.Geocode(ctx.Request.Context(), loc.Address)
	if err != nil {
		slog.Warn("geocode lookup failed", "address", loc.Address, "error", err)
		return
	}
	if coords != nil {
		loc.Lat = &coords.Lat
		loc.Lng = &coords.Lng
	}
}
