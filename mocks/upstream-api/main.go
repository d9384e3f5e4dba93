package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort      = "8082"
	defaultLatencyMs = "300"
)

type LookupResponse struct {
	CorporationNumber string `json:"corporationNumber,omitempty"`
	Valid             bool   `json:"valid"`
	Message           string `json:"message,omitempty"`
}

type ProfileRequest struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Phone             string `json:"phone"`
	CorporationNumber string `json:"corporationNumber"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

var (
	apiKey    = os.Getenv("API_KEY")
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
)

// knownCorporations are the numbers the registry recognizes.
var knownCorporations = map[string]bool{
	"123456789": true,
	"826417395": true,
	"158739264": true,
	"591863427": true,
	"312574689": true,
}

// Magic values let tests steer the mock.
const (
	unknownCorporation = "000000000"
	outageCorporation  = "500000000"
	takenPhone         = "+10000000000"
)

func main() {
	port := getEnv("PORT", defaultPort)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /corporation-number/{number}", withAuth(handleLookup))
	mux.HandleFunc("POST /profile-details", withAuth(handleProfile))

	log.Printf("Mock onboarding upstream starting on port %s", port)
	log.Printf("Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "upstream-api",
	})
}

func withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(latencyMs) * time.Millisecond)
		log.Printf("Incoming request: %s %s", r.Method, r.URL.Path)

		if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Invalid API key"})
			return
		}
		next(w, r)
	}
}

func handleLookup(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	switch {
	case number == outageCorporation:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "Registry unavailable"})
	case number == unknownCorporation:
		writeJSON(w, http.StatusNotFound, LookupResponse{Valid: false, Message: "Corporation number not found"})
	case knownCorporations[number]:
		writeJSON(w, http.StatusOK, LookupResponse{CorporationNumber: number, Valid: true})
	default:
		writeJSON(w, http.StatusNotFound, LookupResponse{Valid: false, Message: "Invalid corporation number"})
	}
}

func handleProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	switch {
	case req.Phone == takenPhone:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Phone number already exists"})
	case !knownCorporations[req.CorporationNumber]:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid corporation number"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Profile submitted"})
		log.Printf("Profile accepted for %s %s", req.FirstName, req.LastName)
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
