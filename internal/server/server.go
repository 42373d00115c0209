package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/config"
	"github.com/kenijima/chainmark/internal/contract"
	"github.com/kenijima/chainmark/internal/crypto"
	"github.com/kenijima/chainmark/internal/handler"
	"github.com/kenijima/chainmark/internal/ipfs"
	"github.com/kenijima/chainmark/internal/middleware"
	"github.com/kenijima/chainmark/internal/repository"
	"github.com/kenijima/chainmark/internal/service"
	"github.com/kenijima/chainmark/internal/token"
	"github.com/kenijima/chainmark/internal/watermark"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	keys   *crypto.KeyManager
	log    *logrus.Logger
	zlog   *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, keys *crypto.KeyManager, log *logrus.Logger, zlog *zap.Logger) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"POST", "GET", "OPTIONS", "DELETE"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		keys:   keys,
		log:    log,
		zlog:   zlog,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.zlog)
	imageRepo := repository.NewImageRepository(s.db, s.zlog)

	tokens := token.NewManager(s.cfg.Auth.JWTSecret)
	executor := watermark.NewExecutor(s.cfg.Watermark.Command, s.cfg.Watermark.Args, s.zlog)
	store := ipfs.NewClient(s.cfg.IPFS.URL, s.zlog)

	authService := service.NewAuthService(userRepo, tokens, s.keys, s.zlog)
	imageService := service.NewImageService(userRepo, imageRepo, executor, store, s.zlog)
	chainService := service.NewChainService(s.ledgerDialer(), s.zlog)

	authHandler := handler.NewAuthHandler(authService, s.log)
	imageHandler := handler.NewImageHandler(imageService, s.log)
	chainHandler := handler.NewChainHandler(chainService, s.log)

	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello, world!")
	})

	s.router.POST("/register", authHandler.Register)
	s.router.POST("/login", authHandler.Login)

	authRequired := s.router.Group("/")
	authRequired.Use(middleware.AuthMiddleware(tokens, s.zlog))
	{
		authRequired.GET("/protected", func(c *gin.Context) {
			username := c.MustGet(middleware.UsernameKey).(string)
			c.JSON(http.StatusOK, gin.H{"message": "Welcome to protected area", "username": username})
		})
		authRequired.POST("/upload_image", imageHandler.Upload)
		authRequired.GET("/get_image", imageHandler.Get)
		authRequired.POST("/upload_imageInfo", chainHandler.UploadImageInfo)
		authRequired.GET("/get_imageInfo", chainHandler.GetImageInfo)
	}
}

// ledgerDialer opens a ledger client per request from the static chain
// configuration.
func (s *Server) ledgerDialer() service.LedgerDialer {
	return func(ctx context.Context) (service.Ledger, error) {
		client, err := contract.NewClient(ctx,
			s.cfg.Chain.RPCURL,
			s.cfg.Chain.PrivateKey,
			s.cfg.Chain.Account,
			s.cfg.Chain.Contract,
			s.zlog)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
