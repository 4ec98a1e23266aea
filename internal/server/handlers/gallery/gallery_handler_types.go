package gallery

type RenameRequest struct {
	Title string `json:"title" binding:"required"`
}
