package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"binder/internal/auth"
	"binder/internal/config"
	"binder/internal/domain/services"
	"binder/internal/handler"
	"binder/internal/middleware"
	"binder/internal/repository/postgres"
	"binder/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Layout engine tunables
	engineCfg := config.DefaultEngineConfig()
	if cfg.EngineConfigPath != "" {
		var err error
		engineCfg, err = config.LoadEngineConfig(cfg.EngineConfigPath)
		if err != nil {
			log.Fatalf("Failed to load engine config: %v", err)
		}
		logger.Info("engine config loaded", "path", cfg.EngineConfigPath)
	}

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	collectionRepo := postgres.NewCollectionRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	documentRepo := postgres.NewDocumentRepository(repoConfig)
	orderRepo := postgres.NewOrderRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// In-memory sidebar measurements reported by clients
	measurements := service.NewMeasurementStore()
	views := service.NewViewBuilder(folderRepo, documentRepo, orderRepo, measurements, engineCfg)

	// Context-drop event fan-out for SSE subscribers
	notifier := service.NewEventNotifier(logger)

	// Organizer client. A typed nil pointer stored in an interface is not
	// nil, so only assign when configured.
	var organizer services.OrganizerClient
	if cfg.OrganizerURL != "" {
		organizer = service.NewOrganizerHTTPClient(cfg.OrganizerURL, cfg.OrganizerAPIKey, logger)
		logger.Info("organizer client configured", "url", cfg.OrganizerURL)
	} else {
		logger.Warn("ORGANIZER_URL not set, reorganization suggestions disabled")
	}

	// Create services
	workspaceService := service.NewWorkspaceService(collectionRepo, folderRepo, documentRepo, orderRepo, txManager, notifier, logger)
	dragSvc := service.NewDragService(views, workspaceService, engineCfg, logger)
	reorganizeSvc := service.NewReorganizeService(collectionRepo, folderRepo, documentRepo, workspaceService, organizer, nil, engineCfg, logger)
	dropSvc := service.NewDropService(views, workspaceService, documentRepo, reorganizeSvc, organizer, engineCfg, logger)

	// Create handlers
	collectionHandler := handler.NewCollectionHandler(workspaceService, logger)
	measurementHandler := handler.NewMeasurementHandler(measurements, logger)
	folderHandler := handler.NewFolderHandler(workspaceService, logger)
	documentHandler := handler.NewDocumentHandler(workspaceService, logger)
	dragHandler := handler.NewDragHandler(dragSvc, workspaceService, logger)
	dropHandler := handler.NewDropHandler(dropSvc, logger)
	reorganizeHandler := handler.NewReorganizeHandler(reorganizeSvc, logger)
	eventsHandler := handler.NewEventsHandler(notifier, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Collection routes
	mux.HandleFunc("GET /api/collections", collectionHandler.ListCollections)
	mux.HandleFunc("POST /api/collections", collectionHandler.CreateCollection)
	mux.HandleFunc("DELETE /api/collections/{id}", collectionHandler.DeleteCollection)
	mux.HandleFunc("GET /api/collections/{id}/tree", collectionHandler.GetTree)

	// Client-reported layout measurements
	mux.HandleFunc("PUT /api/collections/{id}/measurements", measurementHandler.PutMeasurements)
	mux.HandleFunc("DELETE /api/collections/{id}/measurements", measurementHandler.DeleteMeasurements)

	// Folder routes
	mux.HandleFunc("POST /api/collections/{id}/folders", folderHandler.CreateFolder)
	mux.HandleFunc("DELETE /api/collections/{id}/folders/{folderID}", folderHandler.DeleteFolder)
	mux.HandleFunc("PUT /api/collections/{id}/folders/{folderID}/expanded", folderHandler.SetExpanded)
	mux.HandleFunc("PUT /api/collections/{id}/folders/{folderID}/documents", folderHandler.ReorderDocuments)

	// Document routes
	mux.HandleFunc("POST /api/collections/{id}/documents", documentHandler.CreateDocument)
	mux.HandleFunc("DELETE /api/collections/{id}/documents/{documentID}", documentHandler.DeleteDocument)
	mux.HandleFunc("PUT /api/collections/{id}/documents/{documentID}/move", documentHandler.MoveDocument)
	mux.HandleFunc("PUT /api/collections/{id}/order", documentHandler.UpdateOrder)
	mux.HandleFunc("POST /api/collections/{id}/group", documentHandler.GroupDocuments)

	// Drag session routes
	mux.HandleFunc("POST /api/collections/{id}/drag", dragHandler.StartDrag)
	mux.HandleFunc("PUT /api/collections/{id}/drag", dragHandler.MoveDrag)
	mux.HandleFunc("POST /api/collections/{id}/drag/drop", dragHandler.DropDrag)
	mux.HandleFunc("DELETE /api/collections/{id}/drag", dragHandler.CancelDrag)

	// External file drop routes
	mux.HandleFunc("POST /api/collections/{id}/drop/resolve", dropHandler.ResolveTarget)
	mux.HandleFunc("POST /api/collections/{id}/drop", dropHandler.ExecuteDrop)

	// Reorganization routes
	mux.HandleFunc("POST /api/collections/{id}/reorganize", reorganizeHandler.Reorganize)
	mux.HandleFunc("POST /api/collections/{id}/reorganize/apply", reorganizeHandler.ApplyOperations)
	mux.HandleFunc("POST /api/collections/{id}/documents/{documentID}/auto-organize", reorganizeHandler.AutoOrganize)
	mux.HandleFunc("POST /api/collections/{id}/documents/{documentID}/suggest-drop", reorganizeHandler.SuggestDrop)

	// SSE stream of add-to-context events
	mux.HandleFunc("GET /api/collections/{id}/events", eventsHandler.Stream)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier, logger)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// Health check sits outside auth so load balancers can poll it
	// without a token.
	root := http.NewServeMux()
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root.Handle("/", httpHandler)
	httpHandler = root

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
