package main

import (
	"errors"
	"fmt"
	"net/http"

	"bitbucket.org/mmdatafocus/catalog_backend/middlewares"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/models/reports"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"bitbucket.org/mmdatafocus/catalog_backend/workflow"
	"github.com/gin-gonic/gin"
)

// registerExportRoutes serves the file downloads of a form. Everything else goes through /query.
func registerExportRoutes(r *gin.Engine, registry *workflow.SessionRegistry) {
	forms := r.Group("/forms", middlewares.SessionMiddleware(), middlewares.LoaderMiddleware())
	forms.GET("/:sid/export", exportHandler(registry))
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// exportHandler writes the sku matrix of the session as an xlsx workbook.
func exportHandler(registry *workflow.SessionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := registry.Get(c.Request.Context(), c.Param("sid"))
		if err != nil {
			respondError(c, err)
			return
		}
		p.Flush()
		var draft *models.ItemDraft
		p.Read(func(d *models.ItemDraft) {
			draft = d.Clone()
		})
		f, err := reports.ExportSkuMatrix(draft)
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		name := utils.Slugify(draft.Name)
		if name == "" {
			name = "item"
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-sku-matrix.xlsx", name))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
