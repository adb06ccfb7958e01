package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"evoluflow-core/internal/modules/referentiel/dto"
	"evoluflow-core/internal/modules/referentiel/services"
)

// ResourceController expose le moteur générique sur l'API REST.
// Un seul contrôleur sert toutes les entités du catalogue : l'entité est
// résolue depuis le chemin, jamais codée en dur.
type ResourceController struct {
	service   *services.ResourceService
	exporter  *services.ExportService
	validator *validator.Validate
}

func NewResourceController(service *services.ResourceService, exporter *services.ExportService) *ResourceController {
	return &ResourceController{
		service:   service,
		exporter:  exporter,
		validator: validator.New(),
	}
}

// List - GET /api/v1/referentiel/:entity/list
func (c *ResourceController) List(ctx *gin.Context) {
	query := parseListQuery(ctx)

	result, opErr := c.service.List(ctx.Request.Context(), ctx.Param("entity"), query)
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetByReference - GET /api/v1/referentiel/:entity/by-reference/:reference
func (c *ResourceController) GetByReference(ctx *gin.Context) {
	record, opErr := c.service.GetByReference(ctx.Request.Context(), ctx.Param("entity"), ctx.Param("reference"))
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}

// Add - POST /api/v1/referentiel/:entity/add
func (c *ResourceController) Add(ctx *gin.Context) {
	var payload dto.Record
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données invalides",
			"details": map[string]interface{}{
				"code":    "INVALID_REQUEST_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}

	record, opErr := c.service.Add(ctx.Request.Context(), ctx.Param("entity"), payload, ctx.GetString("identifiant"))
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    record,
	})
}

// Update - PUT /api/v1/referentiel/:entity/update/:reference
func (c *ResourceController) Update(ctx *gin.Context) {
	var payload dto.Record
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données invalides",
			"details": map[string]interface{}{
				"code":    "INVALID_REQUEST_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}

	record, opErr := c.service.Update(ctx.Request.Context(), ctx.Param("entity"), ctx.Param("reference"), payload, ctx.GetString("identifiant"))
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}

// Delete - DELETE /api/v1/referentiel/:entity/delete/:reference
func (c *ResourceController) Delete(ctx *gin.Context) {
	if opErr := c.service.Delete(ctx.Request.Context(), ctx.Param("entity"), ctx.Param("reference")); opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference": ctx.Param("reference"),
			"deleted":   true,
		},
	})
}

// BulkDelete - POST /api/v1/referentiel/:entity/delete
func (c *ResourceController) BulkDelete(ctx *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données invalides",
			"details": map[string]interface{}{
				"code":    "INVALID_REQUEST_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}
	if err := c.validator.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Au moins une référence est requise",
			"details": map[string]interface{}{
				"code": "VALIDATION_ERROR",
			},
		})
		return
	}

	result, opErr := c.service.BulkDelete(ctx.Request.Context(), ctx.Param("entity"), req.References)
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// NextReference - GET /api/v1/referentiel/:entity/next-reference
func (c *ResourceController) NextReference(ctx *gin.Context) {
	result, opErr := c.service.NextReference(ctx.Request.Context(), ctx.Param("entity"))
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// Export - POST /api/v1/referentiel/:entity/export
func (c *ResourceController) Export(ctx *gin.Context) {
	var req dto.ExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données invalides",
			"details": map[string]interface{}{
				"code":    "INVALID_REQUEST_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}
	if err := c.validator.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Format d'export invalide",
			"details": map[string]interface{}{
				"code":            "VALIDATION_ERROR",
				"formats_valides": []string{"csv", "pdf", "excel", "word"},
			},
		})
		return
	}

	entity := ctx.Param("entity")
	records, opErr := c.service.Snapshot(ctx.Request.Context(), entity)
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	d, _ := c.service.Registry().Lookup(entity)
	file, opErr := c.exporter.Export(d, records, req)
	if opErr != nil {
		respondError(ctx, opErr)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+file.Filename)
	ctx.Data(http.StatusOK, file.ContentType, file.Content)
}

// parseListQuery extrait les paramètres d'interrogation, dont les filtres
// par champ passés en filter[champ]=valeur
func parseListQuery(ctx *gin.Context) dto.ListQuery {
	query := dto.ListQuery{
		Search:  ctx.Query("search"),
		SortBy:  ctx.Query("sort"),
		SortDir: ctx.Query("dir"),
	}
	query.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

	for key, values := range ctx.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[len("filter[") : len(key)-1]
			if query.Filters == nil {
				query.Filters = make(map[string]string)
			}
			query.Filters[field] = values[0]
		}
	}
	return query
}

// respondError traduit le résultat discriminé en réponse HTTP avec
// l'enveloppe d'erreur standard
func respondError(ctx *gin.Context, opErr *dto.OperationError) {
	status := http.StatusInternalServerError
	switch opErr.Kind {
	case dto.KindValidation:
		status = http.StatusBadRequest
	case dto.KindConflict:
		status = http.StatusConflict
	case dto.KindNotFound:
		status = http.StatusNotFound
	case dto.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	details := map[string]interface{}{
		"code": opErr.Code,
	}
	if len(opErr.Champs) > 0 {
		details["champs"] = opErr.Champs
	}
	if opErr.SuggestedReference != "" {
		details["suggested_reference"] = opErr.SuggestedReference
	}

	ctx.JSON(status, gin.H{
		"error":   opErr.Message,
		"details": details,
	})
}
