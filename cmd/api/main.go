package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	erpauth "pet-inpatient-care/internal/adapters/auth/erp"
	notifykafka "pet-inpatient-care/internal/adapters/notify/kafka"
	patientsapi "pet-inpatient-care/internal/adapters/patients"
	"pet-inpatient-care/internal/adapters/roles/erpstaff"
	"pet-inpatient-care/internal/observability/metrics"
	"pet-inpatient-care/internal/platform/httpclient"
	"pet-inpatient-care/internal/platform/logger"
	"pet-inpatient-care/internal/ports/auth"
	"pet-inpatient-care/internal/ports/notify"
	"pet-inpatient-care/internal/ports/patients"
	"pet-inpatient-care/internal/ports/roles"
	"pet-inpatient-care/internal/router"
)

func main() {
	log := logger.NewFromEnv()
	defer func() { _ = log.Sync() }()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	m := metrics.New()

	// Notifier: Kafka si hay brokers configurados, descarte si no.
	var notifier notify.Notifier = notify.Noop{}
	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		cfg := notifykafka.DefaultConfig()
		cfg.Brokers = strings.Split(brokers, ",")
		if topic := strings.TrimSpace(os.Getenv("KAFKA_TOPIC")); topic != "" {
			cfg.Topic = topic
		}
		kn, err := notifykafka.NewNotifier(cfg, log)
		if err != nil {
			log.Warn("kafka indisponível, eventos serão descartados", zap.Error(err))
		} else {
			defer kn.Close()
			notifier = kn
		}
	}

	// Cadastro central de pacientes (sincronización de óbito).
	var registry patients.Registry = patients.Noop{}
	if baseURL := strings.TrimSpace(os.Getenv("PATIENT_REGISTRY_URL")); baseURL != "" {
		reg, err := patientsapi.NewHTTPRegistry(patientsapi.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("PATIENT_REGISTRY_API_KEY"),
			Timeout: httpclient.DefaultTimeout,
		})
		if err != nil {
			log.Warn("cadastro de pacientes indisponível", zap.Error(err))
		} else {
			registry = reg
		}
	}

	// Auth y roles contra el ERP central; sin envs queda en modo dev
	// (X-Debug-User-ID y sin corte por rol).
	var verifier auth.AuthVerifier
	if baseURL := strings.TrimSpace(os.Getenv("ERP_AUTH_URL")); baseURL != "" {
		verifier = erpauth.NewVerifier(erpauth.NewClient(erpauth.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("ERP_AUTH_API_KEY"),
		}))
	}
	var authorizer roles.Authorizer
	if baseURL := strings.TrimSpace(os.Getenv("ERP_STAFF_URL")); baseURL != "" {
		authorizer = erpstaff.NewAuthorizer(erpstaff.NewClient(erpstaff.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("ERP_STAFF_API_KEY"),
		}))
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Roles:        authorizer,
		Notifier:     notifier,
		Patients:     registry,
		Logger:       log,
		Metrics:      m,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
