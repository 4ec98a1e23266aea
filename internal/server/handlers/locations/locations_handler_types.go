package locations

// UpsertRequest carries the fields of a shipping location. Lat and Lng are
// optional; when absent they are resolved from the address.
type UpsertRequest struct {
	Name    string   `json:"name" binding:"required"`
	Address string   `json:"address" binding:"required"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}
