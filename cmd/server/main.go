package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hmcts/et-case-api/internal/applications"
	"github.com/hmcts/et-case-api/internal/audit"
	"github.com/hmcts/et-case-api/internal/caserole"
	"github.com/hmcts/et-case-api/internal/cases"
	"github.com/hmcts/et-case-api/internal/cases/transactor"
	"github.com/hmcts/et-case-api/internal/ccd"
	"github.com/hmcts/et-case-api/internal/docstore"
	"github.com/hmcts/et-case-api/internal/idam"
	"github.com/hmcts/et-case-api/internal/notifications"
	"github.com/hmcts/et-case-api/internal/notify"
	"github.com/hmcts/et-case-api/internal/pdf"
	"github.com/hmcts/et-case-api/internal/platform/config"
	"github.com/hmcts/et-case-api/internal/platform/httpserver"
	"github.com/hmcts/et-case-api/internal/platform/logger"
	"github.com/hmcts/et-case-api/internal/platform/metrics"
	"github.com/hmcts/et-case-api/internal/serviceauth"
	httptransport "github.com/hmcts/et-case-api/internal/transport/http"
)

// main wires the collaborator clients into the services and keeps the server
// lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	templates, err := notifications.LoadTemplates(cfg.NotificationsFile)
	if err != nil {
		log.Error("loading notification templates", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	caseStore := ccd.NewClient(cfg.CaseStoreURL, httpClient)
	identity := idam.NewClient(cfg.IdamURL, httpClient)
	s2s := serviceauth.NewGenerator(cfg.ServiceAuthURL, cfg.MicroserviceName, httpClient)
	documents := docstore.NewClient(cfg.DocStoreURL, s2s, httpClient)
	emailGateway := notify.NewClient(cfg.NotifyURL, cfg.NotifyAPIKey, httpClient,
		notify.WithBreakerOpenedHook(m.BreakerOpened.Inc))

	auditStore := audit.NewMemoryStore()
	auditInbox := make(chan audit.Event, 256)
	auditPublisher := audit.NewPublisher(auditInbox, log)
	auditWorker := audit.NewWorker(auditStore, auditInbox)

	notifier := notifications.NewService(emailGateway, templates, cfg.CitizenPortalLink, m, log)
	renderer := pdf.NewRenderer()
	tx := transactor.New(caseStore, identity, s2s, auditPublisher, m, log)

	caseService := cases.NewService(caseStore, tx, s2s, documents, renderer, notifier, m, log)
	appService := applications.NewService(tx, documents, renderer, notifier, m, log)
	roleService := caserole.NewService(caseStore, identity, s2s, cfg.SystemUserName, cfg.SystemUserPassword, log)

	handler := httptransport.NewHandler(caseService, appService, roleService, log)
	srv := httpserver.New(cfg.Addr, handler.Router())

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go func() {
		if err := auditWorker.Run(workerCtx); err != nil && err != context.Canceled {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	log.Info("starting et-case-api", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	stopWorker()
}
