package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sentinel/internal/ai"
	"sentinel/internal/config"
	"sentinel/internal/handler"
	"sentinel/internal/knowledge"
	"sentinel/internal/pipeline"
	"sentinel/internal/pkg/cache"
	"sentinel/internal/pkg/mongodb"
	"sentinel/internal/pkg/ratelimit"
	"sentinel/internal/repository"
	"sentinel/internal/router"
	"sentinel/internal/server/middleware"
	"sentinel/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New 创建服务器实例，完成全部依赖装配
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	services := map[string]string{
		"database":   "disabled",
		"rate_limit": "memory",
	}

	// 初始化 MongoDB (可选，缺失时无持久化降级运行)
	var mongoClient *mongodb.Client
	var store *repository.Store
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without persistence")
		} else {
			mongoClient = client
			services["database"] = "connected"
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
			store = repository.NewStore(mongoClient.Database())
		}
	}

	// 初始化 Redis (可选，限流计数器后端)
	var redisCache *cache.RedisCache
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute)
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, using in-memory rate limiting")
		} else {
			redisCache = rc
			limiter = ratelimit.NewRedisLimiter(rc.Client(), cfg.RateLimit.RequestsPerMinute)
			services["rate_limit"] = "redis"
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 模型网关
	gateway, err := ai.NewClient(context.Background(), &cfg.AI)
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("initialized model gateway")

	// 知识库
	kb, err := knowledge.New(cfg.Knowledge.Path)
	if err != nil {
		return nil, err
	}

	// 应答缓存 + 路由器
	responseCache := cache.NewResponseCache(cfg.Router.CacheCapacity)
	rt := router.New(responseCache, kb, cfg.Router.ConfidenceThreshold, cfg.Router.CacheTTL)

	// 生成流水线
	var pipeStore pipeline.ConversationStore
	var svcStore service.Store
	if store != nil {
		pipeStore = store
		svcStore = store
	}
	pipe := pipeline.New(gateway, pipeStore, pipeline.NewFeatureRegistry(), pipeline.Config{
		ContextWindow:  cfg.Pipeline.ContextWindow,
		MaxInputLength: cfg.Pipeline.MaxInputLength,
		Timeout:        cfg.Pipeline.Timeout,
	})
	// 生成成功后回写应答缓存
	pipe.OnSuccess(func(req pipeline.Request, answer string) {
		rt.CacheResult(req.Input, req.Mode, answer, "generation")
	})

	chatSvc := service.NewChatService(rt, pipe, svcStore, cfg.Pipeline.ChunkSize)

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	srv.setupRoutes(chatSvc, store, gateway, limiter, services)

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(
	chatSvc *service.ChatService,
	store *repository.Store,
	gateway *ai.Client,
	limiter ratelimit.Limiter,
	services map[string]string,
) {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())
	s.engine.Use(middleware.SecurityHeaders())

	// 健康检查
	healthHandler := handler.NewHealthHandler(gateway, services)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/status", healthHandler.Status)

		// Chat 接口，限流在路由之前生效
		chatHdl := handler.NewChatHandler(chatSvc)
		v1.POST("/stream", middleware.RateLimit(limiter), chatHdl.Stream)

		// Session 接口
		if store != nil {
			sessionHdl := handler.NewSessionHandler(store)
			v1.POST("/sessions", sessionHdl.Create)
			v1.GET("/sessions/:id/history", sessionHdl.History)
		} else {
			log.Warn().Msg("MongoDB not configured, session endpoints disabled")
		}

		// Config 接口
		configHdl := handler.NewConfigHandler(s.cfg, gateway)
		v1.GET("/config", configHdl.Get)
		v1.POST("/config", configHdl.Update)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
