package main

import (
	"log"
	"net/http"
	"pms/src/booking"
	"pms/src/config"
	"pms/src/db"
	"pms/src/models"
	"pms/src/types"
	"pms/src/utils"
	"time"

	"github.com/gin-gonic/gin"
)

func propertyTypeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/property-types", func(ctx *gin.Context) {
			db := db.GetDb()
			var propertyTypes []models.PropertyType
			if err := db.
				Model(&models.PropertyType{}).
				Preload("Units").
				Find(&propertyTypes).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": propertyTypes, "count": len(propertyTypes)})
		}).
		GET("/property-types/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			propertyType, err := utils.GetPropertyType(params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": propertyType})
		}).
		POST("/property-types", func(ctx *gin.Context) {
			var body types.CreatePropertyTypeRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, err := utils.CreatePropertyType(&body)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		POST("/property-types/:id/units", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.AddUnitsRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ids, err := utils.AddUnits(params.ID, body.Numbers)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"ids": ids, "count": len(ids)})
		}).
		GET("/property-types/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkIn, err := time.Parse(config.TIME_PARSE_FORMAT, query.CheckIn)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkOut, err := time.Parse(config.TIME_PARSE_FORMAT, query.CheckOut)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !checkOut.After(checkIn) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": booking.ErrInvalidInterval.Error()})
				return
			}
			store := booking.NewStore()
			units, err := store.FetchUnits(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			free := booking.FilterFree(units, booking.Interval{Start: checkIn, End: checkOut})
			resp := types.APIResponseAvailability{
				PropertyTypeID: params.ID,
				FreeCount:      len(free),
				Units:          make([]types.APIResponseUnit, 0, len(free)),
			}
			for _, u := range free {
				resp.Units = append(resp.Units, types.APIResponseUnit{ID: u.ID, Number: u.Number})
			}
			ctx.JSON(http.StatusOK, gin.H{"data": resp})
		})
	return g
}
