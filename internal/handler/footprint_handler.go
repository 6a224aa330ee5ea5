package handler

import (
	"errors"
	"net/http"

	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/service"
	"github.com/gin-gonic/gin"
)

type transportationPayload struct {
	Vehicle   string     `json:"vehicle"`
	Fuel      string     `json:"fuel"`
	Distance  flexNumber `json:"distance"`
	Flights   flexNumber `json:"flights"`
	Emissions flexNumber `json:"emissions"`
}

type electricityPayload struct {
	Units     flexNumber `json:"units"`
	LPG       flexNumber `json:"lpg"`
	ACHours   flexNumber `json:"acHours"`
	Emissions flexNumber `json:"emissions"`
}

type foodPayload struct {
	Diet      string     `json:"diet"`
	Dairy     flexNumber `json:"dairy"`
	Snacks    flexNumber `json:"snacks"`
	Waste     flexNumber `json:"waste"`
	Emissions flexNumber `json:"emissions"`
}

type lifestylePayload struct {
	Clothes   flexNumber `json:"clothes"`
	Gadgets   flexNumber `json:"gadgets"`
	Plastic   flexNumber `json:"plastic"`
	Recycle   flexNumber `json:"recycle"`
	Water     flexNumber `json:"water"`
	Emissions flexNumber `json:"emissions"`
}

var submitMessages = map[footprint.Category]string{
	footprint.Transportation: "Transportation footprint saved",
	footprint.Electricity:    "Electricity footprint stored!",
	footprint.Food:           "Food footprint saved!",
	footprint.Lifestyle:      "Lifestyle footprint saved!",
}

// SubmitFootprint 根据路径中的类别解析载荷并保存记录
func (a *API) SubmitFootprint(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	category, err := footprint.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, http.StatusNotFound, "未知类别")
		return
	}

	entry, ok := a.bindEntry(c, category)
	if !ok {
		return
	}

	result, err := a.footprints.Submit(c.Request.Context(), userID, entry)
	if err != nil {
		if errors.Is(err, service.ErrPartialSubmission) {
			a.log.Error("partial submission", "user_id", userID, "record_id", result.RecordID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "footprint saved but streak update failed",
				"recordId": result.RecordID,
				"total":    result.Total,
			})
			return
		}
		handleFootprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  submitMessages[category],
		"total":    result.Total,
		"recordId": result.RecordID,
		"streak":   result.Streak,
	})
}

func (a *API) bindEntry(c *gin.Context, category footprint.Category) (footprint.Entry, bool) {
	const invalidPayload = "请求参数错误"

	var (
		details   footprint.Details
		emissions flexNumber
	)

	switch category {
	case footprint.Transportation:
		var payload transportationPayload
		if !bindJSON(c, &payload, invalidPayload) {
			return footprint.Entry{}, false
		}
		details = footprint.TransportationDetails{
			Vehicle:    a.sanitizer.Sanitize(payload.Vehicle),
			Fuel:       a.sanitizer.Sanitize(payload.Fuel),
			DistanceKm: payload.Distance.Float(),
			Flights:    payload.Flights.Float(),
		}
		emissions = payload.Emissions
	case footprint.Electricity:
		var payload electricityPayload
		if !bindJSON(c, &payload, invalidPayload) {
			return footprint.Entry{}, false
		}
		details = footprint.ElectricityDetails{
			UnitsUsed:     payload.Units.Float(),
			LPGCylinders:  payload.LPG.Float(),
			ACHoursPerDay: payload.ACHours.Float(),
		}
		emissions = payload.Emissions
	case footprint.Food:
		var payload foodPayload
		if !bindJSON(c, &payload, invalidPayload) {
			return footprint.Entry{}, false
		}
		details = footprint.FoodDetails{
			DietType:     a.sanitizer.Sanitize(payload.Diet),
			DairyCups:    payload.Dairy.Float(),
			SnacksPerDay: payload.Snacks.Float(),
			WasteKg:      payload.Waste.Float(),
		}
		emissions = payload.Emissions
	case footprint.Lifestyle:
		var payload lifestylePayload
		if !bindJSON(c, &payload, invalidPayload) {
			return footprint.Entry{}, false
		}
		details = footprint.LifestyleDetails{
			ClothesBought: payload.Clothes.Float(),
			GadgetsBought: payload.Gadgets.Float(),
			PlasticWaste:  payload.Plastic.Float(),
			RecyclingKg:   payload.Recycle.Float(),
			WaterUsage:    payload.Water.Float(),
		}
		emissions = payload.Emissions
	}

	if !emissions.set {
		respondError(c, http.StatusBadRequest, "emissions is required")
		return footprint.Entry{}, false
	}

	return footprint.Entry{Category: category, Details: details, Emissions: emissions.Float()}, true
}

// GetSummary 返回今日、近 7 天与本月的排放总量
func (a *API) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	summary, err := a.footprints.Summary(c.Request.Context(), userID, a.footprints.Now())
	if err != nil {
		handleFootprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"today": footprint.Round1(summary.Today),
		"week":  footprint.Round1(summary.Week),
		"month": footprint.Round1(summary.Month),
	})
}

// GetWeeklyChart 返回周一到周日的日排放
func (a *API) GetWeeklyChart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	chart, err := a.footprints.WeeklyChart(c.Request.Context(), userID, a.footprints.Now())
	if err != nil {
		handleFootprintError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// GetCategoryBreakdown 返回本月分类排放
func (a *API) GetCategoryBreakdown(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	breakdown, err := a.footprints.CategoryBreakdown(c.Request.Context(), userID, a.footprints.Now())
	if err != nil {
		handleFootprintError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// GetInsights 返回近期洞察
func (a *API) GetInsights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	insights, err := a.footprints.Insights(c.Request.Context(), userID, a.footprints.Now())
	if err != nil {
		handleFootprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weeklyTransport":    insights.WeeklyTransport,
		"electricityChange":  footprint.Round1(insights.ElectricityChangePct),
		"foodEmissions":      insights.FoodEmissions,
		"lifestyleRecycling": insights.LifestyleRecycling,
	})
}

// GetTips 返回基于最近记录的建议
func (a *API) GetTips(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	tips, err := a.footprints.Tips(c.Request.Context(), userID)
	if err != nil {
		handleFootprintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

// GetRewards 返回连续天数与徽章
func (a *API) GetRewards(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	rewards, err := a.footprints.Rewards(c.Request.Context(), userID)
	if err != nil {
		handleFootprintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"streak": rewards.Streak,
		"badge":  rewards.Badge.Label,
		"tier":   rewards.Badge.Tier,
	})
}

func handleFootprintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, footprint.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, footprint.ErrNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, footprint.ErrConcurrency):
		respondError(c, http.StatusConflict, "请稍后重试")
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
