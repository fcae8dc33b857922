package router

import (
	"time"

	"github.com/nicofdz/JS-Master-sub000/internal/config"
	"github.com/nicofdz/JS-Master-sub000/internal/handler"
	"github.com/nicofdz/JS-Master-sub000/internal/middleware"
	"github.com/nicofdz/JS-Master-sub000/internal/repository"
	"github.com/nicofdz/JS-Master-sub000/internal/service"
	"github.com/nicofdz/JS-Master-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	taskSvc := service.NewTaskService(taskRepo, assignmentRepo, historyRepo)
	distributionSvc := service.NewDistributionService(taskRepo, assignmentRepo, historyRepo)
	historySvc := service.NewHistoryService(taskRepo, historyRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	assignmentSvc := service.NewAssignmentService(taskRepo, assignmentRepo, workerRepo, historyRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	workersH := handler.NewWorkersHandler(workerRepo)
	tasksH := handler.NewTasksHandler(taskSvc, assignmentSvc, distributionSvc, historySvc)
	assignmentsH := handler.NewAssignmentsHandler(assignmentSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: capataz, supervisor, admin — declared per-endpoint
		v1.GET("/workers", middleware.RequireRole("capataz", "supervisor", "admin"), workersH.Listar)
		v1.POST("/workers", middleware.RequireRole("admin"), workersH.Crear)

		v1.POST("/tasks", middleware.RequireRole("supervisor", "admin"), tasksH.Crear)
		v1.GET("/tasks/:id", middleware.RequireRole("capataz", "supervisor", "admin"), tasksH.Obtener)
		v1.GET("/tasks/:id/history", middleware.RequireRole("capataz", "supervisor", "admin"), tasksH.Historial)

		tareas := v1.Group("/tasks", middleware.RequireRole("supervisor", "admin"))
		{
			tareas.PATCH("/:id/status", tasksH.CambiarEstado)
			tareas.PATCH("/:id/budget", tasksH.CambiarPresupuesto)
			tareas.PATCH("/:id/assignments/status", tasksH.EstadoMasivo)
			tareas.POST("/:id/assignments", tasksH.Asignar)
			tareas.PUT("/:id/distribution", tasksH.DistribuirPorcentajes)
			tareas.PUT("/:id/distribution/amounts", tasksH.DistribuirMontos)
			tareas.POST("/:id/distribution/rebalance", tasksH.PreviaRebalance)
		}

		// Status changes are the capataz's day-to-day action; everything else
		// on an assignment needs supervisor.
		v1.PATCH("/assignments/:id/status", middleware.RequireRole("capataz", "supervisor", "admin"), assignmentsH.CambiarEstado)
		asigs := v1.Group("/assignments", middleware.RequireRole("supervisor", "admin"))
		{
			asigs.DELETE("/:id", assignmentsH.Remover)
			asigs.PATCH("/:id/reactivate", assignmentsH.Reactivar)
			asigs.PATCH("/:id/paid", assignmentsH.MarcarPago)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
