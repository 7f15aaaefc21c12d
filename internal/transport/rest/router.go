package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/ptnguyen/fundflow/internal/auth"
	"github.com/ptnguyen/fundflow/internal/cache"
	"github.com/ptnguyen/fundflow/internal/campaign"
	"github.com/ptnguyen/fundflow/internal/donation"
	"github.com/ptnguyen/fundflow/internal/transport/middleware"
	"github.com/ptnguyen/fundflow/internal/transport/swagger"
	"github.com/ptnguyen/fundflow/internal/upload"
	"github.com/ptnguyen/fundflow/internal/user"
	"github.com/ptnguyen/fundflow/internal/withdrawal"
	"github.com/ptnguyen/fundflow/internal/ws"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	cacheClient *cache.Cache,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	campaignHandler *campaign.Handler,
	donationHandler *donation.Handler,
	webhookHandler *donation.WebhookHandler,
	withdrawalHandler *withdrawal.Handler,
	uploadHandler *upload.Handler,
	hub *ws.Hub,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db, cacheClient)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Gateway webhook; the HMAC signature is the authenticity check,
		// so no auth middleware here.
		if webhookHandler != nil {
			r.Post("/transaction/webhooks", webhookHandler.HandleWebhook)
		}

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
				if userHandler != nil {
					sr.Post("/register", userHandler.Register)
				}
			})
		}

		if campaignHandler != nil {
			r.Route("/campaign", func(cr chi.Router) {
				// Public campaign routes
				cr.Get("/all", campaignHandler.ListAll)
				cr.Get("/detail/{id}", campaignHandler.GetDetail)
				cr.Get("/qr/{id}", campaignHandler.QRCode)

				if authHandler != nil {
					cr.Group(func(pr chi.Router) {
						pr.Use(authHandler.AuthMiddleware)
						pr.Post("/", campaignHandler.CreateCampaign)
						pr.Get("/current", campaignHandler.ListCurrent)
					})

					// Moderation routes
					cr.Group(func(ar chi.Router) {
						ar.Use(authHandler.AuthMiddleware)
						ar.Use(authHandler.RequireAdmin)
						ar.Get("/pending", campaignHandler.ListPending)
						ar.Get("/depended", campaignHandler.ListDepended)
						ar.Patch("/choose/{id}", campaignHandler.Choose)
						ar.Patch("/approve/{id}", campaignHandler.Approve)
					})
				}
			})
		}

		r.Route("/transaction", func(tr chi.Router) {
			if donationHandler != nil {
				// Donors may be guests, so auth is optional here.
				tr.Group(func(dr chi.Router) {
					if authHandler != nil {
						dr.Use(authHandler.OptionalAuth)
					}
					dr.Post("/donation", donationHandler.CreateDonation)
				})
				tr.Get("/donation", donationHandler.ListDonations)
				if authHandler != nil {
					tr.Group(func(dr chi.Router) {
						dr.Use(authHandler.AuthMiddleware)
						dr.Get("/donation/me", donationHandler.ListMine)
					})
				}
			}

			if withdrawalHandler != nil && authHandler != nil {
				tr.Group(func(wr chi.Router) {
					wr.Use(authHandler.AuthMiddleware)

					wr.Route("/withdrawals", func(er chi.Router) {
						er.Post("/", withdrawalHandler.CreateWithdrawal)
						er.Get("/", withdrawalHandler.ListWithdrawals)
						er.Get("/{id}", withdrawalHandler.GetWithdrawal)
						er.Delete("/{id}", withdrawalHandler.DeleteWithdrawal)

						er.Group(func(mr chi.Router) {
							mr.Use(authHandler.RequireAdmin)
							mr.Patch("/approve/{id}", withdrawalHandler.ApproveWithdrawal)
						})
					})

					wr.Route("/proofs", func(er chi.Router) {
						er.Post("/", withdrawalHandler.CreateProof)
						er.Get("/", withdrawalHandler.ListProofs)
						er.Get("/{id}", withdrawalHandler.GetProof)
						er.Delete("/{id}", withdrawalHandler.DeleteProof)
					})

					wr.Route("/proof-images", func(er chi.Router) {
						er.Post("/", withdrawalHandler.AddProofImage)
						er.Get("/", withdrawalHandler.ListProofImages)
						er.Delete("/{id}", withdrawalHandler.DeleteProofImage)
					})
				})
			}
		})

		if authHandler != nil && userHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Get("/users/me", userHandler.Profile)
			})
		}

		if uploadHandler != nil && authHandler != nil {
			r.Group(func(ur chi.Router) {
				ur.Use(authHandler.AuthMiddleware)
				ur.Post("/upload/single", uploadHandler.UploadSingle)
				ur.Post("/upload/multi", uploadHandler.UploadMulti)
			})
		}

		// Live donation feed
		if hub != nil {
			r.Get("/ws", hub.ServeWS)
		}
	})
}
