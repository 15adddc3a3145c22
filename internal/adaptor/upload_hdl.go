package adaptor

import (
	"io"
	"net/http"

	"account-service/internal/data/repository"
	"account-service/internal/dto/response"
	"account-service/pkg/clients"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

// 5 MB photo cap
const maxPhotoSize = 5 << 20

var allowedPhotoTypes = map[string]bool{
	"image/jpg":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type UploadHandler struct {
	storage clients.BlobStorage
	users   repository.UserRepository
	log     *zap.Logger
}

func NewUploadHandler(storage clients.BlobStorage, users repository.UserRepository, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		users:   users,
		log:     log,
	}
}

// UploadPhoto handles POST /me/photo (multipart field "file")
func (h *UploadHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ResponseNotFound(w, "File not found")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		utils.ResponseBadRequest(w, "Only image files are allowed", nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.Error(err), zap.Int64("user_id", userID))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	photoURL, err := h.storage.UploadPhoto(r.Context(), userID, header.Filename, contentType, data)
	if err != nil {
		h.log.Error("Failed to upload photo", zap.Error(err), zap.Int64("user_id", userID))
		utils.ResponseInternalError(w, "Failed to upload the file")
		return
	}

	if err := h.users.UpdatePhoto(r.Context(), userID, photoURL); err != nil {
		h.log.Error("Failed to store photo URL", zap.Error(err), zap.Int64("user_id", userID))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Photo uploaded successfully", &response.PhotoResponse{Photo: photoURL})
}
