package controllers

import (
	"net/http"

	"caltrack/services"

	"github.com/gin-gonic/gin"
)

type EstimateController struct {
	estimates   *services.EstimateService
	recognition *services.RecognitionService
}

func NewEstimateController(est *services.EstimateService, rec *services.RecognitionService) *EstimateController {
	return &EstimateController{estimates: est, recognition: rec}
}

type estimateInput struct {
	Text string `json:"text" binding:"required"`
}

// Estimate runs the text-to-calories pipeline: extract candidates, then price
// each through the USDA/model cascade. External failures never fail the
// request; worst case the food list comes back empty.
func (e *EstimateController) Estimate(c *gin.Context) {
	var input estimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	candidates := e.estimates.ExtractFoods(ctx, input.Text)
	foods := e.estimates.ResolveAll(ctx, candidates)
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

type photoInput struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// EstimateFromPhoto feeds Rekognition labels into the same resolver cascade.
func (e *EstimateController) EstimateFromPhoto(c *gin.Context) {
	if e.recognition == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo recognition not configured"})
		return
	}

	var input photoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	ctx := c.Request.Context()
	labels, err := e.recognition.RecognizeLabels(ctx, input.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	candidates := make([]services.FoodCandidate, 0, len(labels))
	for _, label := range labels {
		candidates = append(candidates, services.FoodCandidate{Food: label})
	}
	foods := e.estimates.ResolveAll(ctx, candidates)
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}
