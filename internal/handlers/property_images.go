package handlers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
	"realestate/internal/media"
	"realestate/internal/models"
)

const maxImageSize = 5 << 20

var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// checkImage validates one uploaded file before anything is stored.
func checkImage(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", apperr.Validation("image file extension is required")
	}
	contentType, ok := allowedImageExtensions[extension]
	if !ok {
		return "", apperr.Validation("unsupported image type: %s", extension)
	}
	if file.Size > maxImageSize {
		return "", apperr.Validation("image file too large (max 5MB)")
	}
	return contentType, nil
}

func saveImage(ctx context.Context, storage media.Storage, file *multipart.FileHeader, contentType string) (models.PropertyImage, error) {
	in, err := file.Open()
	if err != nil {
		return models.PropertyImage{}, fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer in.Close()

	publicID := media.NewPublicID(file.Filename)
	log.Printf("[UPLOAD] saveImage: filename=%s publicId=%s size=%d", file.Filename, publicID, file.Size)
	return storage.Save(ctx, publicID, contentType, in)
}

// UploadPropertyImages stores every file of the multipart "images" field and
// appends them to the listing. Nothing is stored unless every file is valid.
func UploadPropertyImages(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/properties/:id/images"

		form, err := c.MultipartForm()
		if err != nil {
			respondWithError(c, route, apperr.Validation("invalid multipart form: %v", err))
			return
		}
		files := form.File["images"]
		if len(files) == 0 {
			respondWithError(c, route, apperr.Validation("Please upload at least one image"))
			return
		}
		contentTypes := make([]string, len(files))
		for i, file := range files {
			if contentTypes[i], err = checkImage(file); err != nil {
				respondWithError(c, route, err)
				return
			}
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := d.findManageableProperty(ctx, c, "update")
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		images := make([]models.PropertyImage, 0, len(files))
		for i, file := range files {
			img, err := saveImage(ctx, d.Media, file, contentTypes[i])
			if err != nil {
				d.deleteStoredImages(ctx, images)
				respondWithError(c, route, err)
				return
			}
			images = append(images, img)
		}

		updated, err := d.Stores.Properties.AddImages(ctx, property.ID, images)
		if err != nil {
			d.deleteStoredImages(ctx, images)
			respondWithError(c, route, storeError(err, "Property", property.ID.Hex()))
			return
		}
		d.invalidate(ctx)
		respondMessage(c, http.StatusOK, "Images uploaded successfully", updated)
	}
}

// DeletePropertyImage removes one stored image from the listing and storage.
func DeletePropertyImage(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/properties/:id/images/:publicId"

		publicID := c.Param("publicId")
		if !media.ValidPublicID(publicID) {
			respondWithError(c, route, apperr.Validation("invalid image id"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := d.findManageableProperty(ctx, c, "update")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		found := false
		for _, img := range property.Images {
			if img.PublicID == publicID {
				found = true
				break
			}
		}
		if !found {
			respondWithError(c, route, apperr.NotFound("Image", publicID))
			return
		}

		updated, err := d.Stores.Properties.RemoveImage(ctx, property.ID, publicID)
		if err != nil {
			respondWithError(c, route, storeError(err, "Property", property.ID.Hex()))
			return
		}
		d.deleteStoredImages(ctx, []models.PropertyImage{{PublicID: publicID}})
		d.invalidate(ctx)
		respondMessage(c, http.StatusOK, "Image deleted successfully", updated)
	}
}
