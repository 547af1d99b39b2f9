package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"
	"leaseguard-backend/report"
	"leaseguard-backend/repository"
	"leaseguard-backend/service"
	"leaseguard-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles lease analysis and history requests
type AnalysisHandler struct {
	authService     *service.AuthService
	analysisService *service.AnalysisService
	historyService  *service.HistoryService
	analysisRepo    *repository.AnalysisRepository
	reportArchive   storage.Storage
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(
	authService *service.AuthService,
	analysisService *service.AnalysisService,
	historyService *service.HistoryService,
	analysisRepo *repository.AnalysisRepository,
	reportArchive storage.Storage,
) *AnalysisHandler {
	return &AnalysisHandler{
		authService:     authService,
		analysisService: analysisService,
		historyService:  historyService,
		analysisRepo:    analysisRepo,
		reportArchive:   reportArchive,
	}
}

// AnalyzeLeaseRequest represents the request body for analyzing a lease
type AnalyzeLeaseRequest struct {
	LeaseText string `json:"leaseText"`
	FileName  string `json:"fileName"`
	Location  string `json:"location"`
}

// AnalyzeLease handles POST /analyze-lease
func (h *AnalysisHandler) AnalyzeLease(c *gin.Context) {
	userID, ok := authUserID(c, h.authService)
	if !ok {
		return
	}

	var req AnalyzeLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.analysisService.RunAnalysis(c.Request.Context(), service.RunAnalysisRequest{
		UserID:    userID,
		LeaseText: req.LeaseText,
		FileName:  req.FileName,
		Location:  req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrLeaseTextTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": "Internal server error during lease analysis",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message":  "Lease analyzed successfully with AI-powered verification",
			"analysis": result.Record,
		},
	})
}

// ListAnalyses handles GET /analyses
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	userID, ok := authUserID(c, h.authService)
	if !ok {
		return
	}

	summaries, err := h.historyService.ListSummaries(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"analyses": summaries},
	})
}

// GetAnalysis handles GET /analysis/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	userID, ok := authUserID(c, h.authService)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	record, err := h.historyService.GetDetail(c.Request.Context(), userID, analysisID)
	if err != nil {
		h.writeDetailError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"analysis": record},
	})
}

// DownloadReport handles GET /analysis/:id/report. A previously archived
// report is served as-is; otherwise the report is rendered, archived
// best-effort and streamed back.
func (h *AnalysisHandler) DownloadReport(c *gin.Context) {
	userID, ok := authUserID(c, h.authService)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	record, err := h.historyService.GetDetail(c.Request.Context(), userID, analysisID)
	if err != nil {
		h.writeDetailError(c, err)
		return
	}

	if pdfBytes, fileName, ok := h.archivedReport(c.Request.Context(), record.ID); ok {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
		return
	}

	generatedAt := time.Now().UTC()
	doc := report.Render(record, generatedAt)
	pdfBytes, err := doc.PDF()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REPORT_FAILED",
				"message": fmt.Sprintf("Failed to generate report: %v", err),
			},
		})
		return
	}

	fileName := report.FileName(record, generatedAt)
	h.archiveReport(c.Request.Context(), record.ID, fileName, pdfBytes)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// archivedReport serves a previously archived report when the artifact
// pointer exists and the stored copy is still readable. An unreadable copy is
// deleted so the next request re-renders cleanly.
func (h *AnalysisHandler) archivedReport(ctx context.Context, analysisID uuid.UUID) ([]byte, string, bool) {
	if h.reportArchive == nil || h.analysisRepo == nil {
		return nil, "", false
	}

	artifact, err := h.analysisRepo.ReportArtifact(ctx, analysisID)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			log.Printf("Warning: Failed to look up report artifact for analysis %s: %v", analysisID, err)
		}
		return nil, "", false
	}

	rc, err := h.reportArchive.Download(ctx, artifact.StoragePath)
	if err != nil {
		log.Printf("Warning: Archived report for analysis %s unreadable, re-rendering: %v", analysisID, err)
		if err := h.reportArchive.Delete(ctx, artifact.StoragePath); err != nil {
			log.Printf("Warning: Failed to delete stale report artifact %s: %v", artifact.StoragePath, err)
		}
		return nil, "", false
	}
	defer rc.Close()

	pdfBytes, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("Warning: Failed to read archived report for analysis %s: %v", analysisID, err)
		return nil, "", false
	}
	return pdfBytes, artifact.FileName, true
}

// archiveReport uploads the rendered PDF and records the artifact pointer.
// Both steps are best-effort; failure never blocks the download.
func (h *AnalysisHandler) archiveReport(ctx context.Context, analysisID uuid.UUID, fileName string, pdfBytes []byte) {
	if h.reportArchive == nil || h.analysisRepo == nil {
		return
	}

	storagePath, err := h.reportArchive.Upload(ctx, analysisID, fileName, bytes.NewReader(pdfBytes))
	if err != nil {
		log.Printf("Warning: Failed to archive report for analysis %s: %v", analysisID, err)
		return
	}

	artifact := &models.ReportArtifact{
		AnalysisID:  analysisID,
		StoragePath: storagePath,
		FileName:    fileName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.analysisRepo.SaveReportArtifact(ctx, artifact); err != nil {
		log.Printf("Warning: Failed to record report artifact for analysis %s: %v", analysisID, err)
	}
}

func (h *AnalysisHandler) writeDetailError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnalysisNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
	case errors.Is(err, service.ErrAnalysisForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Access denied to this analysis",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
	}
}
