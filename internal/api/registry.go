package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
)

// RegisterRegistryRoutes exposes the generic CRUD "urls" resource over the
// given store. Every response is wrapped in the {err, result} envelope; a
// failed call reports err=true and nothing else.
func RegisterRegistryRoutes(group *gin.RouterGroup, store registry.Store) {
	group.GET("/urls", listURLsHandler(store))
	group.GET("/urls/:id", getURLHandler(store))
	group.POST("/urls", createURLHandler(store))
	group.PUT("/urls/:id", updateURLHandler(store))
	group.DELETE("/urls/:id", deleteURLHandler(store))
}

func listURLsHandler(store registry.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := store.List(c.Request.Context(), c.Query("sort"))
		if err != nil {
			log.Printf("ERROR: registry list failed: %v", err)
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		if records == nil {
			records = []models.LinkRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"err": false, "result": records, "count": len(records)})
	}
}

func getURLHandler(store registry.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		rec, err := store.Get(c.Request.Context(), id)
		if err != nil {
			// Not-found is expressed as an empty result, not an error.
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{"err": false, "result": []models.LinkRecord{}})
				return
			}
			log.Printf("ERROR: registry get %d failed: %v", id, err)
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"err": false, "result": []models.LinkRecord{*rec}})
	}
}

func createURLHandler(store registry.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rec models.LinkRecord
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		// id and timestamps are always server-assigned.
		rec.ID = 0
		id, err := store.Create(c.Request.Context(), &rec)
		if err != nil {
			log.Printf("ERROR: registry create failed: %v", err)
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"err":    false,
			"result": gin.H{"lastInsertID": id, "affectedRows": 1},
		})
	}
}

func updateURLHandler(store registry.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		if err := store.Update(c.Request.Context(), id, fields); err != nil {
			log.Printf("ERROR: registry update %d failed: %v", id, err)
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"err":    false,
			"result": gin.H{"affectedRows": 1},
		})
	}
}

func deleteURLHandler(store registry.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		if err := store.Delete(c.Request.Context(), id); err != nil {
			log.Printf("ERROR: registry delete %d failed: %v", id, err)
			c.JSON(http.StatusOK, gin.H{"err": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"err":    false,
			"result": gin.H{"lastDeletedID": id, "affectedRows": 1},
		})
	}
}
