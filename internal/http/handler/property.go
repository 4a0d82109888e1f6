package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/dto"
	"zillowlike.app/api/internal/service"
)

const maxImageBytes = 10 << 20

type PropertyHandler struct {
	properties service.PropertyService
}

func NewPropertyHandler(properties service.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req dto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := h.properties.Create(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		respondError(c, err, "failed to create property")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.properties.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err, "failed to get property")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := h.properties.Update(c.Request.Context(), currentUser(c), id, req.ToInput())
	if err != nil {
		respondError(c, err, "failed to update property")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PropertyHandler) ChangeStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	p, err := h.properties.ChangeStatus(c.Request.Context(), currentUser(c), id, req.Status)
	if err != nil {
		respondError(c, err, "failed to change status")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.properties.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed to delete property")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	filter, ok := q.ToFilter()
	if !ok {
		badRequest(c, "bounding box needs min_lat, max_lat, min_lng and max_lng")
		return
	}

	props, err := h.properties.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to search properties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": props, "limit": filter.Limit, "offset": filter.Offset})
}

func (h *PropertyHandler) ListMine(c *gin.Context) {
	var q struct {
		Page  int32 `form:"page" binding:"omitempty,gte=1"`
		Limit int32 `form:"limit" binding:"omitempty,gte=1,lte=50"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	limit, offset := dto.Paginate(q.Page, q.Limit, 20)

	props, err := h.properties.ListMine(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		respondError(c, err, "failed to list properties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": props})
}

func (h *PropertyHandler) RecordView(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.properties.RecordView(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to record view")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) UploadImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field \"file\" is required")
		return
	}
	if fh.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		badRequest(c, "unreadable upload")
		return
	}
	defer file.Close()

	img, err := h.properties.UploadImage(c.Request.Context(), currentUser(c), id, file)
	if err != nil {
		respondError(c, err, "failed to upload image")
		return
	}
	slog.InfoContext(c.Request.Context(), "property image uploaded", "property_id", id, "image_id", img.ID, "bytes", fh.Size)
	c.JSON(http.StatusCreated, img)
}

func (h *PropertyHandler) ReorderImages(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReorderImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "image_ids is required")
		return
	}
	ids, err := dto.ParseIDs(req.ImageIDs)
	if err != nil {
		badRequest(c, "invalid image id")
		return
	}

	images, err := h.properties.ReorderImages(c.Request.Context(), currentUser(c), id, ids)
	if err != nil {
		respondError(c, err, "failed to reorder images")
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *PropertyHandler) DeleteImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := idParam(c, "image_id")
	if !ok {
		return
	}
	if err := h.properties.DeleteImage(c.Request.Context(), currentUser(c), id, imageID); err != nil {
		respondError(c, err, "failed to delete image")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) GenerateDescription(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.DescriptionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	desc, err := h.properties.GenerateDescription(c.Request.Context(), currentUser(c), id, req.Highlights)
	if err != nil {
		respondError(c, err, "failed to generate description")
		return
	}
	c.JSON(http.StatusOK, desc)
}
