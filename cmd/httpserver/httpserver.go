// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/accountrepo"
	"github.com/go-bill/billcore/internal/ledgerdelivery"
	"github.com/go-bill/billcore/internal/ledgerservice"
	"github.com/go-bill/billcore/internal/middleware"
	"github.com/go-bill/billcore/internal/sequencedelivery"
	"github.com/go-bill/billcore/internal/sequencerepo"
	"github.com/go-bill/billcore/internal/sequenceservice"
	"github.com/go-bill/billcore/internal/transactionrepo"
	"github.com/go-bill/billcore/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	sequenceRepo := sequencerepo.NewRepoPGS(conn)

	ledgerService := ledgerservice.New(accountRepo, transactionRepo, config.ApplyTimeout)
	sequenceService := sequenceservice.New(sequenceRepo, config.InvoicePrefix, config.OrderPrefix)

	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	sequenceHandler := sequencedelivery.NewHandler(sequenceService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	authRoutes := engine.Group("/").Use(middleware.Actor())

	authRoutes.POST("/postings", ledgerHandler.CreatePosting)
	authRoutes.POST("/invoices/refunds", ledgerHandler.RefundInvoice)
	authRoutes.GET("/customers/:id/transactions", ledgerHandler.ListTransactions)

	authRoutes.POST("/sequences/:kind/next", sequenceHandler.Next)
	authRoutes.GET("/sequences/:kind", sequenceHandler.Peek)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("transactiontype", ledgerdelivery.ValidTransactionType); err != nil {
			return nil, errors.New("cannot register transactiontype validator")
		}

		if err := v.RegisterValidation("sequencekind", sequencedelivery.ValidSequenceKind); err != nil {
			return nil, errors.New("cannot register sequencekind validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
