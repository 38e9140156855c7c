package config

import "os"

// Config captures server level configuration and the addresses of the
// external collaborators. FromEnv keeps main lean.
type Config struct {
	Addr string

	CaseStoreURL     string
	IdamURL          string
	ServiceAuthURL   string
	DocStoreURL      string
	NotifyURL        string
	NotifyAPIKey     string
	MicroserviceName string
	MicroserviceKey  string

	NotificationsFile string
	CitizenPortalLink string

	// System user credentials for the elevated case search used by the
	// role-assignment lookup.
	SystemUserName     string
	SystemUserPassword string
}

// FromEnv builds a Config from environment variables with development
// defaults for local wiring.
func FromEnv() Config {
	return Config{
		Addr:              envOr("ET_CASE_API_ADDR", ":4550"),
		CaseStoreURL:      envOr("CCD_DATA_STORE_URL", "http://localhost:4452"),
		IdamURL:           envOr("IDAM_API_URL", "http://localhost:5000"),
		ServiceAuthURL:    envOr("SERVICE_AUTH_PROVIDER_URL", "http://localhost:4502"),
		DocStoreURL:       envOr("CASE_DOCUMENT_AM_URL", "http://localhost:4455"),
		NotifyURL:         envOr("GOV_NOTIFY_URL", "https://api.notifications.service.gov.uk"),
		NotifyAPIKey:      os.Getenv("GOV_NOTIFY_API_KEY"),
		MicroserviceName:  envOr("MICRO_SERVICE", "et_sya_api"),
		MicroserviceKey:   os.Getenv("ET_SYA_S2S_SECRET"),
		NotificationsFile: envOr("NOTIFICATIONS_CONFIG", "config/notifications.yaml"),
		CitizenPortalLink: envOr("CITIZEN_PORTAL_LINK", "https://localhost:3001/citizen-hub/"),

		SystemUserName:     os.Getenv("ET_SYSTEM_USER_NAME"),
		SystemUserPassword: os.Getenv("ET_SYSTEM_USER_PASSWORD"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
