package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/listsync"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/registry"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/services"
)

// SetupRoutes configures all Gin routes: the registry CRUD resource under
// /api, the application API under /api/v1, and the redirect paths at the
// root.
func SetupRoutes(
	router *gin.Engine,
	store registry.Store,
	linkService *services.LinkService,
	resolver *services.Resolver,
	syncer *listsync.Synchronizer,
	baseURL string,
) {
	router.GET("/health", HealthCheckHandler)
	router.GET("/", RootHandler(baseURL))

	// The opaque CRUD backend. When registry.base_url points elsewhere this
	// stays mounted but unused by the core components.
	RegisterRegistryRoutes(router.Group("/api"), store)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/links", CreateShortLinkHandler(linkService, syncer, baseURL))
		v1.GET("/links", ListLinksHandler(syncer))
		v1.PATCH("/links/:id/status", ToggleStatusHandler(linkService, syncer))
		v1.DELETE("/links/:id", DeleteLinkHandler(linkService, syncer))
		v1.GET("/qr/:shortCode", QRCodeHandler(linkService, baseURL))
		v1.GET("/stats", StatsHandler(syncer))
	}

	// Visitor-facing resolution at the root level.
	router.GET("/:shortCode", RedirectHandler(resolver))
	router.POST("/:shortCode/unlock", UnlockHandler(resolver))
}

// HealthCheckHandler reports service liveness.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RootHandler serves the application root. Visiting the bare host (an empty
// short code) lands here.
func RootHandler(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":  "quicklink",
			"base_url": baseURL,
		})
	}
}

// CreateLinkRequest is the JSON body for link creation. Everything but the
// destination URL is optional.
type CreateLinkRequest struct {
	OriginalURL   string `json:"original_url"`
	CustomCode    string `json:"custom_code"`
	Password      string `json:"password"`
	ExpiresInDays int    `json:"expires_in_days"`
}

// CreateShortLinkHandler creates a new shortened link.
func CreateShortLinkHandler(linkService *services.LinkService, syncer *listsync.Synchronizer, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		link, err := linkService.CreateLink(c.Request.Context(), services.CreateLinkInput{
			OriginalURL:   req.OriginalURL,
			CustomCode:    req.CustomCode,
			Password:      req.Password,
			ExpiresInDays: req.ExpiresInDays,
		})
		if err != nil {
			switch {
			case apperrors.IsValidation(err):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrCodeExhausted):
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to generate a unique short code. Please try again later."})
			case apperrors.IsConflict(err):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				log.Printf("Error creating link: %v", err)
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create short link"})
			}
			return
		}

		// Keep the displayed list in step with the mutation instead of
		// waiting for the next poll.
		_ = syncer.Refresh(c.Request.Context())

		c.JSON(http.StatusCreated, gin.H{
			"id":             link.ID,
			"short_code":     link.ShortCode,
			"original_url":   link.OriginalURL,
			"full_short_url": baseURL + "/" + link.ShortCode,
		})
	}
}

// ListLinksHandler serves the synchronizer's cached view. filter selects a
// status subset (all|active|inactive|custom) and q searches original URLs
// and short codes.
func ListLinksHandler(syncer *listsync.Synchronizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := listsync.ParseFilter(c.Query("filter"))
		query := c.Query("q")

		links := syncer.Links(filter, query)
		total := len(syncer.Links(listsync.FilterAll, ""))
		c.JSON(http.StatusOK, gin.H{
			"links": links,
			"count": len(links),
			"total": total,
		})
	}
}

// ToggleStatusRequest is the JSON body for activating or pausing a link.
type ToggleStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ToggleStatusHandler flips a link between active and paused.
func ToggleStatusHandler(linkService *services.LinkService, syncer *listsync.Synchronizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
			return
		}
		var req ToggleStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		if err := linkService.ToggleStatus(c.Request.Context(), id, *req.IsActive); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
				return
			}
			log.Printf("Error toggling link %d: %v", id, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update link status"})
			return
		}

		_ = syncer.Refresh(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
	}
}

// DeleteLinkHandler removes a link permanently.
func DeleteLinkHandler(linkService *services.LinkService, syncer *listsync.Synchronizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
			return
		}

		if err := linkService.DeleteLink(c.Request.Context(), id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
				return
			}
			log.Printf("Error deleting link %d: %v", id, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete link"})
			return
		}

		_ = syncer.Refresh(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
}

// QRCodeHandler renders a PNG QR code pointing at the short URL.
func QRCodeHandler(linkService *services.LinkService, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		shortCode := c.Param("shortCode")

		if _, err := linkService.GetLinkByShortCode(c.Request.Context(), shortCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
				return
			}
			log.Printf("Error looking up %s for QR: %v", shortCode, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to render QR code"})
			return
		}

		png, err := qrcode.Encode(baseURL+"/"+shortCode, qrcode.Medium, 256)
		if err != nil {
			log.Printf("Error encoding QR for %s: %v", shortCode, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

// StatsHandler serves dashboard aggregates from the synchronizer snapshot.
func StatsHandler(syncer *listsync.Synchronizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, syncer.Stats())
	}
}

// RedirectHandler resolves a visited short code. Missing, inactive and
// expired links all answer with the same not-found body.
func RedirectHandler(resolver *services.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		shortCode := c.Param("shortCode")
		if shortCode == "" {
			c.Redirect(http.StatusFound, "/")
			return
		}

		res := resolver.Resolve(c.Request.Context(), shortCode)
		switch res.State {
		case services.StateRedirecting:
			c.Redirect(http.StatusFound, res.TargetURL)
		case services.StatePasswordRequired:
			c.JSON(http.StatusUnauthorized, gin.H{
				"state":      res.State.String(),
				"short_code": res.Record.ShortCode,
				"error":      "This link requires a password",
			})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
		}
	}
}

// UnlockRequest is the JSON body for submitting a link password.
type UnlockRequest struct {
	Password string `json:"password"`
}

// UnlockHandler checks a submitted password for a gated link. A wrong
// password is retryable; it never mutates the record.
func UnlockHandler(resolver *services.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		shortCode := c.Param("shortCode")

		var req UnlockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		res := resolver.Resolve(c.Request.Context(), shortCode)
		switch res.State {
		case services.StateRedirecting:
			// The link is not password-gated (anymore); just forward.
			c.Redirect(http.StatusFound, res.TargetURL)
		case services.StatePasswordRequired:
			unlocked, err := resolver.SubmitPassword(res.Record, req.Password)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"state": unlocked.State.String(),
					"error": "Incorrect password. Please try again.",
				})
				return
			}
			c.Redirect(http.StatusFound, unlocked.TargetURL)
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
		}
	}
}
