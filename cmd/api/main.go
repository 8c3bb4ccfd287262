package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"practicum/internal/agency"
	"practicum/internal/attendance"
	"practicum/internal/auth"
	"practicum/internal/cloudinary"
	"practicum/internal/config"
	"practicum/internal/httpmiddleware"
	"practicum/internal/queue"
	"practicum/internal/store"
)

var (
	clockIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practicum_clock_ins_total",
		Help: "Successful clock-ins by session.",
	}, []string{"session"})
	clockOuts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practicum_clock_outs_total",
		Help: "Successful clock-outs by session.",
	}, []string{"session"})
	clockFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practicum_clock_failures_total",
		Help: "Rejected clock actions by operation.",
	}, []string{"op"})
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

// clockRequest is the body shared by clock-in and clock-out. Date and time
// are never accepted from the client; the server clock decides both.
type clockRequest struct {
	StudentID   string `json:"student_id" binding:"required"`
	PracticumID string `json:"practicum_id" binding:"required"`
	Session     string `json:"session"` // clock-out hint only

	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Address      string   `json:"address"`
	LocationType string   `json:"location_type"`
	DeviceType   string   `json:"device_type"`
	DeviceUnit   string   `json:"device_unit"`
	MacAddress   string   `json:"mac_address"`
	PhotoURL     string   `json:"photo_url"`
}

func (r *clockRequest) meta() attendance.ClockMeta {
	return attendance.ClockMeta{
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Address:      r.Address,
		LocationType: r.LocationType,
		DeviceType:   r.DeviceType,
		DeviceUnit:   r.DeviceUnit,
		MacAddress:   r.MacAddress,
		PhotoURL:     r.PhotoURL,
	}
}

type agencyRequest struct {
	Name           string `json:"name" binding:"required"`
	Address        string `json:"address"`
	ContactEmail   string `json:"contact_email"`
	OpeningTime    string `json:"opening_time"`
	ClosingTime    string `json:"closing_time"`
	LunchStartTime string `json:"lunch_start_time"`
	LunchEndTime   string `json:"lunch_end_time"`
	OperatingDays  string `json:"operating_days"`
}

func (r *agencyRequest) apply(a *agency.Agency) {
	a.Name = r.Name
	a.Address = r.Address
	a.ContactEmail = r.ContactEmail
	a.OpeningTime = r.OpeningTime
	a.ClosingTime = r.ClosingTime
	a.LunchStartTime = r.LunchStartTime
	a.LunchEndTime = r.LunchEndTime
	a.OperatingDays = r.OperatingDays
}

// statusForError maps the attendance error taxonomy onto HTTP codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, attendance.ErrNoRecord), errors.Is(err, agency.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrSessionOpen),
		errors.Is(err, attendance.ErrDayComplete),
		errors.Is(err, attendance.ErrNoOpenSession),
		errors.Is(err, attendance.ErrSessionClosed),
		errors.Is(err, agency.ErrNameTaken):
		return http.StatusConflict
	case errors.Is(err, attendance.ErrOvertimeCap),
		errors.Is(err, attendance.ErrNotOperatingDay):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if db == nil {
		return err
	}
	if err != nil {
		log.Printf("warning: db not reachable: %v", err)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "practicum:attendance")
	}

	attRepo := attendance.NewRepository(db.Client)
	att := attendance.NewService(attRepo, cfg.Timezone, cfg.IdempotencyWindow)
	agencies := agency.NewRepository(db.Client)
	tokens := auth.NewTokenStore(db.Client)

	// Cloudinary client (nil when not configured)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Healthy(c.Request.Context())
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/students/register", func(c *gin.Context) {
		var req struct {
			StudentID string `json:"student_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		pair, err := auth.Issue(req.StudentID, "student", cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}

		_ = tokens.SaveRefreshToken(c.Request.Context(), req.StudentID, pair.RefreshToken, pair.RefreshExp)

		c.JSON(http.StatusCreated, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"expires_at":    pair.AccessExp.Unix(),
		})
	})

	authGroup := r.Group("/v1", auth.StudentAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	// Uploads a base64 image or multipart file to Cloudinary and returns
	// the public URL the client passes back as photo_url on clock actions.
	authGroup.POST("/upload", func(c *gin.Context) {
		if cdnClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
			return
		}

		contentType := c.ContentType()
		var result *cloudinary.UploadResult
		var err error

		switch {
		case strings.Contains(contentType, "multipart/form-data"):
			file, header, ferr := c.Request.FormFile("file")
			if ferr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
				return
			}
			defer file.Close()
			data, ferr := io.ReadAll(file)
			if ferr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
				return
			}
			result, err = cdnClient.UploadBytes(data, header.Filename)

		default:
			var body struct {
				Data string `json:"data" binding:"required"`
			}
			if berr := c.ShouldBindJSON(&body); berr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
				return
			}
			result, err = cdnClient.UploadBase64(body.Data)
		}

		if err != nil {
			log.Printf("cloudinary upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"url":       result.SecureURL,
			"public_id": result.PublicID,
			"width":     result.Width,
			"height":    result.Height,
			"bytes":     result.Bytes,
		})
	})

	// loadAgency resolves the practicum's host agency for a clock action.
	loadAgency := func(c *gin.Context, practicumID string) (*agency.Agency, bool) {
		host, err := agencies.GetForPracticum(c.Request.Context(), practicumID)
		if err != nil {
			if errors.Is(err, agency.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "practicum not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "agency lookup failed"})
			}
			return nil, false
		}
		if host.DeletedAt != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "agency is archived"})
			return nil, false
		}
		return host, true
	}

	requireOwnStudent := func(c *gin.Context, studentID string) bool {
		claimsAny, _ := c.Get("claims")
		claims, _ := claimsAny.(auth.Claims)
		if claims.Subject != "" && claims.Subject != studentID {
			c.JSON(http.StatusForbidden, gin.H{"error": "student mismatch"})
			return false
		}
		return true
	}

	authGroup.POST("/attendance/clock-in", func(c *gin.Context) {
		var req clockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !requireOwnStudent(c, req.StudentID) {
			return
		}
		host, ok := loadAgency(c, req.PracticumID)
		if !ok {
			return
		}

		rec, sess, err := att.ClockIn(c.Request.Context(), req.StudentID, req.PracticumID, host.ScheduleConfig(), req.meta())
		if err != nil {
			clockFailures.WithLabelValues("clock_in").Inc()
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		clockIns.WithLabelValues(string(sess)).Inc()

		if err := q.Publish(c.Request.Context(), queue.Event{
			Action: "clock_in", RecordID: rec.ID, Session: string(sess), At: time.Now(),
		}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{"session": sess, "record": rec})
	})

	authGroup.POST("/attendance/clock-out", func(c *gin.Context) {
		var req clockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !requireOwnStudent(c, req.StudentID) {
			return
		}
		host, ok := loadAgency(c, req.PracticumID)
		if !ok {
			return
		}

		rec, sess, err := att.ClockOut(c.Request.Context(), req.StudentID, req.PracticumID, host.ScheduleConfig(), attendance.Session(req.Session), req.meta())
		if err != nil {
			clockFailures.WithLabelValues("clock_out").Inc()
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		clockOuts.WithLabelValues(string(sess)).Inc()

		if err := q.Publish(c.Request.Context(), queue.Event{
			Action: "clock_out", RecordID: rec.ID, Session: string(sess), At: time.Now(),
		}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{"session": sess, "record": rec})
	})

	authGroup.GET("/attendance/records", func(c *gin.Context) {
		limit, offset := 50, 0
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				limit = parsed
			}
		}
		if v := c.Query("offset"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				offset = parsed
			}
		}
		records, err := attRepo.ListRecords(c.Request.Context(),
			c.Query("student_id"), c.Query("practicum_id"),
			c.Query("from"), c.Query("to"), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
	})

	authGroup.POST("/agencies", func(c *gin.Context) {
		var req agencyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var a agency.Agency
		req.apply(&a)
		if err := agencies.Create(c.Request.Context(), &a); err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, a)
	})

	authGroup.GET("/agencies", func(c *gin.Context) {
		includeArchived := c.Query("include_archived") == "true"
		list, err := agencies.List(c.Request.Context(), includeArchived)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"agencies": list})
	})

	authGroup.GET("/agencies/:id", func(c *gin.Context) {
		a, err := agencies.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	})

	authGroup.PUT("/agencies/:id", func(c *gin.Context) {
		var req agencyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a := agency.Agency{ID: c.Param("id")}
		req.apply(&a)
		if err := agencies.Update(c.Request.Context(), &a); err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	})

	authGroup.DELETE("/agencies/:id", func(c *gin.Context) {
		if err := agencies.Archive(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "archived"})
	})

	authGroup.POST("/agencies/:id/restore", func(c *gin.Context) {
		if err := agencies.Restore(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "restored"})
	})

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
