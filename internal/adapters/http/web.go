package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"gymtrack/internal/adapters/http/middleware"
	"gymtrack/internal/adapters/storage/record"
	"gymtrack/internal/application/orchestrators"
)

// Deps holds everything the HTTP layer needs: the record store plus the
// orchestrator dependency bundles, so a mutation can re-evaluate the
// reminder and the plan milestones in the same request.
type Deps struct {
	Records      *record.Store
	ReminderDeps orchestrators.ArmReminderDeps
	AlertsDeps   orchestrators.PlanAlertsDeps
}

// loadCSRFKey reads the CSRF secret from GYMTRACK_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("GYMTRACK_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("GYMTRACK_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("GYMTRACK_ENV") == "production" {
		log.Fatal("GYMTRACK_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set GYMTRACK_CSRF_KEY for production.")
	return key
}

// Global deps instance (set by NewMux)
var deps *Deps

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, d *Deps) http.Handler {
	deps = d

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()

	// Apply middleware: SecurityHeaders -> CSRF -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
	)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/api/records", handleRecords)
	mux.HandleFunc("/api/attendance", handleAttendance)
	mux.HandleFunc("/api/plan", handlePlan)
	mux.HandleFunc("/api/metrics", handleMetrics)
	mux.HandleFunc("/api/trend", handleTrend)
	mux.HandleFunc("/api/calendar", handleCalendar)
	mux.HandleFunc("/api/dashboard", handleDashboard)
}
