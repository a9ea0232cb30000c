package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/camden-git/gallerysysbackend/config"
	"github.com/camden-git/gallerysysbackend/database"
	"github.com/camden-git/gallerysysbackend/handlers"
	"github.com/camden-git/gallerysysbackend/permissions"
	"github.com/camden-git/gallerysysbackend/realtime"
	"github.com/camden-git/gallerysysbackend/repository"
	"github.com/camden-git/gallerysysbackend/services"
	"github.com/camden-git/gallerysysbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to access underlying database handle: %v", err)
	}
	defer sqlDB.Close()

	albumRepo := repository.NewAlbumRepository(db)
	mediaRepo := repository.NewMediaObjectRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	roleRepo := repository.NewGormRoleRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	tree := services.NewAlbumTree(albumRepo, galleryRepo)
	guard := services.NewValidationGuard(roleRepo, userRepo, tree)
	roleCache := services.NewRoleCache()
	roleStore := services.NewRoleStore(roleRepo, albumRepo, userRepo, tree, guard)
	roleStore.Register(services.NewCacheInvalidationObserver(roleCache, roleRepo))
	roleStore.Register(realtime.NewRoleEventPublisher(hub))
	resolver := services.NewPermissionResolver(userRepo, roleCache, tree)
	cascade := services.NewCascadeSynchronizer(albumRepo, mediaRepo)
	ownership := services.NewOwnershipManager(roleStore, albumRepo)

	refresher := workers.NewRoleRefresher(roleStore, cfg.RefreshQueueSize, cfg.NumRefreshWorkers)
	defer refresher.Stop()

	authHandler := handlers.NewAuthHandler(userRepo, roleCache, cfg)
	albumHandler := handlers.NewAlbumHandler(albumRepo, mediaRepo, tree, cascade, ownership, resolver, refresher, hub)
	galleryHandler := handlers.NewGalleryHandler(galleryRepo, albumRepo, tree, refresher)
	adminRoleHandler := handlers.NewAdminRoleHandler(roleStore, roleRepo, sqlDB)
	adminUserHandler := handlers.NewAdminUserHandler(userRepo)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authed := func(h http.HandlerFunc) http.Handler {
		return handlers.AuthMiddleware(userRepo, cfg.JWTSecret, h)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return handlers.AuthMiddleware(userRepo, cfg.JWTSecret,
			handlers.RequirePermission(permissions.RequireAnyAdminister, h))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Method(http.MethodPost, "/auth/logout", authed(authHandler.Logout))
		r.Method(http.MethodGet, "/auth/me", authed(authHandler.CurrentUser))

		r.Get("/permissions", handlers.ListPermissions)
		r.Method(http.MethodGet, "/events", adminOnly(hub.ServeWS))

		r.Route("/galleries", func(r chi.Router) {
			r.Method(http.MethodPost, "/", adminOnly(galleryHandler.CreateGallery))
			r.Method(http.MethodGet, "/", authed(galleryHandler.ListGalleries))
			r.Route("/{galleryID}", func(r chi.Router) {
				r.Method(http.MethodGet, "/", authed(galleryHandler.GetGallery))
				r.Method(http.MethodGet, "/albums", authed(galleryHandler.GetGalleryAlbums))
				r.Method(http.MethodGet, "/highest_permitted", authed(albumHandler.HighestPermittedAlbum))
			})
		})

		r.Route("/albums", func(r chi.Router) {
			r.Method(http.MethodPost, "/", adminOnly(albumHandler.CreateAlbum))
			r.Method(http.MethodGet, "/accessible", authed(albumHandler.AccessibleAlbums))
			r.Route("/{albumID}", func(r chi.Router) {
				r.Method(http.MethodGet, "/", authed(albumHandler.GetAlbum))
				r.Method(http.MethodGet, "/children", authed(albumHandler.GetAlbumChildren))
				r.Method(http.MethodGet, "/media", authed(albumHandler.GetAlbumMedia))
				r.Method(http.MethodPut, "/privacy", adminOnly(albumHandler.SetPrivacy))
				r.Method(http.MethodPut, "/owner", adminOnly(albumHandler.SetOwner))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/roles", func(r chi.Router) {
				r.Method(http.MethodGet, "/", adminOnly(adminRoleHandler.ListRoles))
				r.Method(http.MethodPost, "/", adminOnly(adminRoleHandler.CreateRole))
				r.Method(http.MethodGet, "/stats", adminOnly(adminRoleHandler.RoleStats))
				r.Route("/{roleName}", func(r chi.Router) {
					r.Method(http.MethodGet, "/", adminOnly(adminRoleHandler.GetRole))
					r.Method(http.MethodPut, "/", adminOnly(adminRoleHandler.UpdateRole))
					r.Method(http.MethodDelete, "/", adminOnly(adminRoleHandler.DeleteRole))
					r.Method(http.MethodGet, "/users", adminOnly(adminRoleHandler.GetRoleUsers))
					r.Method(http.MethodPost, "/users", adminOnly(adminRoleHandler.AddUserToRole))
					r.Method(http.MethodDelete, "/users/{username}", adminOnly(adminRoleHandler.RemoveUserFromRole))
				})
			})
			r.Route("/users", func(r chi.Router) {
				r.Method(http.MethodGet, "/", adminOnly(adminUserHandler.ListUsers))
				r.Method(http.MethodPost, "/", adminOnly(adminUserHandler.CreateUser))
				r.Method(http.MethodGet, "/{userID}/roles", adminOnly(adminUserHandler.GetUserRoles))
			})
		})
	})

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
