package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := LoadConfig()
	ctx := context.Background()

	// 1) DB
	db, err := OpenDB(cfg)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	st := NewStore(db)
	if err := EnsureSuperAdmin(ctx, st, cfg.SuperAdminUser, cfg.SuperAdminPassword); err != nil {
		log.Fatalf("super admin: %v", err)
	}

	// 2) Seed (if empty)
	if isEmpty, _ := IsQuestionTableEmpty(db); isEmpty {
		if _, err := os.Stat(cfg.SeedDir); err == nil {
			if err := SeedFromDir(ctx, st, cfg.SeedDir); err != nil {
				log.Fatalf("seed: %v", err)
			}
		} else {
			log.Printf("No seed dir at %s; running with empty question bank", cfg.SeedDir)
		}
	}

	// 3) Sessions
	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	portal := NewPortal(cfg, st, sessions, NewConsumeOnCheckPolicy(st))

	sweeper, err := StartSweeper(portal, cfg.SweepSchedule)
	if err != nil {
		log.Fatalf("sweeper: %v", err)
	}
	defer sweeper.Stop()

	// 4) Router
	r := SetupRouter(cfg, st, portal, NewTokenIssuer(cfg.JWTSecret))

	log.Printf("Listening on :%s (db=%s, sessions=%s, SecureCookies=%v)", cfg.Port, cfg.DBDriver, cfg.SessionStore, cfg.SecureCookies)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func newSessionStore(ctx context.Context, cfg *Config) (SessionStore, error) {
	if cfg.SessionStore != "redis" {
		return NewMemorySessionStore(), nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return NewRedisSessionStore(rdb), nil
}

func SetupRouter(cfg *Config, st *Store, p *Portal, tokens *TokenIssuer) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", accessCodeHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	api := r.Group("/api/v1")
	api.POST("/login", StudentLogin(p, cfg.SecureCookies))

	// Student (access code)
	student := api.Group("", RequireStudent(p))
	{
		student.GET("/me", GetMe(p))
		student.GET("/retakes/:subject", MyRetakes(p))

		student.POST("/tests", StartTest(p))
		student.GET("/tests/current", CurrentTest(p))
		student.POST("/tests/current/next", NextQuestion(p))
		student.POST("/tests/current/previous", PreviousQuestion(p))
		student.POST("/tests/current/jump", JumpToQuestion(p))
		student.POST("/tests/current/answer", AnswerQuestion(p))
		student.POST("/tests/current/mark", ToggleMark(p))
		student.POST("/tests/current/submit", SubmitTest(p))
	}

	// Admin (bearer token)
	api.POST("/admin/login", AdminLogin(st, tokens))
	admin := api.Group("/admin", AdminAuth(tokens))
	{
		admin.PUT("/password", ChangeOwnPassword(st))

		admins := admin.Group("/admins", RequirePermission(PermAdmins))
		admins.GET("", ListAdmins(st))
		admins.POST("", CreateAdmin(st))
		admins.PUT("/:username/password", ResetAdminPassword(st))

		students := admin.Group("/students", RequirePermission(PermStudents))
		students.GET("", ListStudents(st))
		students.POST("", CreateStudent(st))
		students.DELETE("", ClearStudents(p))
		students.POST("/bulk", BulkCreateStudents(st))
		students.POST("/import", ImportStudents(st))
		students.PUT("/:id", UpdateStudent(st))
		students.DELETE("/:id", DeleteStudent(p))
		students.POST("/:code/reset", ResetStudent(p))

		questions := admin.Group("/questions", RequirePermission(PermQuestions))
		questions.POST("/:class/:subject", UploadQuestions(st))
		questions.GET("/count", CountQuestions(st))
		questions.GET("/preview", PreviewQuestions(st))
		questions.DELETE("", DeleteQuestions(st))

		settings := admin.Group("/settings", RequirePermission(PermSettings))
		settings.GET("/duration", GetDuration(st, cfg.DefaultDuration))
		settings.PUT("/duration", SetDuration(st))

		retakes := admin.Group("/retakes", RequirePermission(PermRetakes))
		retakes.GET("/:code/:subject", GetRetake(st))
		retakes.PUT("/:code/:subject", SetRetake(st))

		results := admin.Group("", RequirePermission(PermResults))
		results.GET("/submissions", ListSubmissions(st))
		results.DELETE("/submissions", ClearSubmissions(st))
		results.GET("/stats", Stats(st, cfg.PassMark))
	}

	return r
}
