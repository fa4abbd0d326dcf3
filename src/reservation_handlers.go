package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"pms/src/booking"
	"pms/src/config"
	"pms/src/db"
	"pms/src/lib"
	awslib "pms/src/lib/aws"
	"pms/src/models"
	"pms/src/types"
	"pms/src/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeqown/go-qrcode"
)

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkIn, err := time.Parse(config.TIME_PARSE_FORMAT, body.CheckIn)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkOut, err := time.Parse(config.TIME_PARSE_FORMAT, body.CheckOut)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			req := booking.Request{
				PropertyTypeID: body.PropertyTypeID,
				CheckIn:        checkIn,
				CheckOut:       checkOut,
				UnitCount:      body.UnitCount,
				Adults:         body.Adults,
				Children:       body.Children,
				UserID:         userId,
			}
			if body.PaymentToken != "" {
				req.PaymentToken = &body.PaymentToken
			}

			o := booking.NewOrchestrator(booking.NewStore(), booking.RandomStrategy{})
			outcome, err := o.Reserve(ctx.Request.Context(), req)
			if err != nil {
				var insufficient *booking.InsufficientError
				var stale *booking.StaleError
				switch {
				case errors.Is(err, booking.ErrInvalidInterval):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.As(err, &insufficient):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "free": insufficient.Free})
				case errors.As(err, &stale), errors.Is(err, booking.ErrPersistenceConflict):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				case errors.Is(err, context.DeadlineExceeded):
					ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				}
				return
			}

			reservation := outcome.Reservation
			var paymentURL string
			if reservation.PaymentToken == nil {
				url, err := lib.CreateReservationPaymentLink(reservation.Ref.String(), reservation.Total, "usd")
				if err != nil {
					log.Printf("Error creating payment link for [%s]: %s\n", reservation.Ref.String(), err.Error())
				} else {
					paymentURL = url
				}
			}
			go func(userId uint) {
				db := db.GetDb()
				var user models.User
				if err := db.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
					log.Printf("Could not load user [%d] for notification: %s\n", userId, err.Error())
					return
				}
				utils.SendReservationConfirmedEmail(user.Email, reservation.Ref, reservation.Total, reservation.CheckIn, reservation.CheckOut)
			}(userId)

			units := make([]types.APIResponseUnit, 0, len(outcome.Units))
			for _, u := range outcome.Units {
				units = append(units, types.APIResponseUnit{ID: u.ID, Number: u.Number})
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"data":        reservation,
				"units":       units,
				"quote":       outcome.Quote,
				"payment_url": paymentURL,
			})
		}).
		POST("/reservations/quote", func(ctx *gin.Context) {
			var body types.QuoteRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkIn, err := time.Parse(config.TIME_PARSE_FORMAT, body.CheckIn)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkOut, err := time.Parse(config.TIME_PARSE_FORMAT, body.CheckOut)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			cacheKey := fmt.Sprintf("quote:%d:%s:%s:%d:%d", body.PropertyTypeID, body.CheckIn, body.CheckOut, body.UnitCount, body.Adults+body.Children)
			rd := lib.GetRedisClient()
			cached, err := rd.Get(context.Background(), cacheKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Printf("Error reading from cache: %s\n", err.Error())
			}
			if cached != "" {
				var quote booking.Quote
				if err := json.Unmarshal([]byte(cached), &quote); err == nil {
					ctx.JSON(http.StatusOK, gin.H{"data": quote, "advisory": true})
					return
				}
			}

			o := booking.NewOrchestrator(booking.NewStore(), booking.RandomStrategy{})
			quote, err := o.AdvisoryQuote(ctx.Request.Context(), booking.Request{
				PropertyTypeID: body.PropertyTypeID,
				CheckIn:        checkIn,
				CheckOut:       checkOut,
				UnitCount:      body.UnitCount,
				Adults:         body.Adults,
				Children:       body.Children,
			})
			if err != nil {
				if errors.Is(err, booking.ErrInvalidInterval) {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if raw, err := json.Marshal(quote); err == nil {
				rd.SetEx(context.Background(), cacheKey, string(raw), 10*time.Minute)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": quote, "advisory": true})
		}).
		GET("/reservations", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var reservations []models.Reservation
			if err := db.
				Model(&models.Reservation{}).
				Where(&models.Reservation{UserID: userId}).
				Preload("PropertyType").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservations, "count": len(reservations)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var reservation models.Reservation
			if err := db.
				Model(&models.Reservation{}).
				Where(&models.Reservation{ID: params.ID}).
				Preload("PropertyType").
				Preload("Stays").
				Preload("Stays.Unit").
				First(&reservation).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PUT("/reservations/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := utils.CancelReservation(params.ID); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/reservations/code/verify", func(ctx *gin.Context) {
			var body struct {
				Code string `json:"code" binding:"required"`
			}
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			keyEnv := os.Getenv("API_QRC_SECRET")
			key, err := hex.DecodeString(keyEnv)
			if err != nil {
				log.Printf("Could not read key from string: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			dec, err := utils.DecryptMessage(key, body.Code)
			if err != nil {
				log.Printf("Error decrypting code: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
				return
			}
			var payload struct {
				ReservationID  uint   `json:"reservationId"`
				ReservationRef string `json:"reservationRef"`
			}
			if err := json.Unmarshal([]byte(*dec), &payload); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
				return
			}
			db := db.GetDb()
			var reservation models.Reservation
			if err := db.
				Model(&models.Reservation{}).
				Where("id = ? AND ref = ?", payload.ReservationID, payload.ReservationRef).
				Preload("Stays").
				First(&reservation).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			valid := reservation.Status == types.RESERVATION_CONFIRMED && time.Now().Before(reservation.CheckOut)
			ctx.JSON(http.StatusOK, gin.H{"data": reservation, "valid": valid})
		}).
		POST("/reservations/:id/code", func(ctx *gin.Context) {
			var query struct {
				ShareLink bool `form:"share_link"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filename := fmt.Sprintf("rescode_%d", params.ID)
			log.Printf("Download confirmation code for %s\n", filename)
			var filepath string
			var signedURL string
			rd := lib.GetRedisClient()
			content, err := rd.Get(context.Background(), filename).Result()
			if err != nil {
				if errors.Is(redis.Nil, err) {
					log.Printf("No value for key: %s\n", filename)
				} else {
					log.Printf("Error reading from cache: %s\n", err.Error())
					ctx.Status(http.StatusBadRequest)
					return
				}
			}
			wd, err := os.Getwd()
			if err != nil {
				log.Printf("Could not read working directory: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			if content != "" {
				if query.ShareLink {
					ctx.JSON(http.StatusOK, gin.H{"url": content})
					return
				}
				filepath = path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
				if err := awslib.S3DownloadAsset(filename); err != nil {
					log.Printf("Error downloading asset [%s] from S3 bucket: %s\n", filename, err.Error())
					ctx.Status(http.StatusBadRequest)
					return
				}
				ctx.FileAttachment(filepath, "confirmation.jpeg")
				return
			}

			db := db.GetDb()
			var reservation models.Reservation
			if err := db.
				Model(&models.Reservation{}).
				Where(&models.Reservation{ID: params.ID, Status: types.RESERVATION_CONFIRMED}).
				First(&reservation).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if time.Now().After(reservation.CheckOut) {
				err := errors.New("reservation is no longer active")
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			rawData := map[string]any{
				"reservationId":  reservation.ID,
				"reservationRef": reservation.Ref.String(),
			}
			rawBytes, _ := json.Marshal(rawData)
			rawText := string(rawBytes)

			keyEnv := os.Getenv("API_QRC_SECRET")
			key, err := hex.DecodeString(keyEnv)
			if err != nil {
				log.Printf("Could not read key from string: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			encryptedMessage, err := utils.EncryptMessage(key, rawText)
			if err != nil {
				log.Printf("Error encrypting message: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			qrc, err := qrcode.New(encryptedMessage)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			filepath = path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
			if err = qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if remoteCodeAssets(config.API_ENV) {
				url, err := awslib.S3UploadAsset(filename, filepath)
				if err != nil {
					log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
					ctx.Status(http.StatusInternalServerError)
					return
				}
				signedURL = *url
				rd.SetEx(context.Background(), filename, signedURL, 2*time.Hour)
				if query.ShareLink {
					ctx.JSON(http.StatusOK, gin.H{"url": signedURL})
					return
				}
			} else if query.ShareLink {
				ctx.JSON(http.StatusOK, gin.H{"url": fmt.Sprintf("%s/share/%s", apiPrefix, filename)})
				return
			}
			ctx.FileAttachment(filepath, "confirmation.jpeg")
		})
	return g
}

// remoteCodeAssets reports whether confirmation-code images live in S3 behind
// presigned URLs. Local runs keep them on disk and hand out the share route.
func remoteCodeAssets(apiEnv string) bool {
	return apiEnv != "local"
}
