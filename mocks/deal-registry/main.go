// Command deal-registry is a stand-in for the deal registry used in local
// runs and end-to-end tests. It serves a fixed set of deals and records
// accept/reject notifications.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"
)

type dealPayload struct {
	ID              string  `json:"id"`
	DealStatus      string  `json:"dealStatus"`
	ModifiedAt      string  `json:"modifiedAt,omitempty"`
	DealType        *string `json:"dealType,omitempty"`
	FamilyCapital   *bool   `json:"familyCapital,omitempty"`
	DownPayment     *string `json:"downPayment,omitempty"`
	MinorsOnTitle   *bool   `json:"minorsOnTitle,omitempty"`
	Mortgage        *bool   `json:"mortgage,omitempty"`
	SharedOwnership *bool   `json:"sharedOwnership,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

func ptr[T any](v T) *T { return &v }

// seed deals. D-LOCKED refuses every notification.
func seed() map[string]dealPayload {
	return map[string]dealPayload{
		"D-READY": {
			ID: "D-READY", DealStatus: "REGISTRATION_CONFIRMATION", ModifiedAt: "2026-03-01T10:00:00Z",
			DealType: ptr("SALE"), FamilyCapital: ptr(false), DownPayment: ptr("150000.00"),
			MinorsOnTitle: ptr(false), Mortgage: ptr(true), SharedOwnership: ptr(false),
		},
		"D-EARLY": {
			ID: "D-EARLY", DealStatus: "SIGNING", ModifiedAt: "2026-03-02T09:30:00Z",
			DealType: ptr("SALE"), Mortgage: ptr(true),
		},
		"D-PARTIAL": {
			ID: "D-PARTIAL", DealStatus: "FUNDS_RELEASE", ModifiedAt: "2026-03-03T12:00:00Z",
			DealType: ptr("ASSIGNMENT"),
		},
		"D-LOCKED": {
			ID: "D-LOCKED", DealStatus: "REGISTRATION", ModifiedAt: "2026-03-04T08:15:00Z",
			DealType: ptr("EQUITY_PARTICIPATION"), FamilyCapital: ptr(true), DownPayment: ptr("0"),
			MinorsOnTitle: ptr(true), Mortgage: ptr(false), SharedOwnership: ptr(true),
		},
	}
}

type registry struct {
	log   *slog.Logger
	deals map[string]dealPayload

	mu            sync.Mutex
	notifications map[string][]string
}

func (reg *registry) getDeal(w http.ResponseWriter, r *http.Request) {
	d, ok := reg.deals[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorPayload{Code: "NOT_FOUND", Details: "no such deal"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deal": d})
}

func (reg *registry) notify(decision string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := reg.deals[id]; !ok {
			writeJSON(w, http.StatusNotFound, errorPayload{Code: "NOT_FOUND", Details: "no such deal"})
			return
		}
		if id == "D-LOCKED" {
			writeJSON(w, http.StatusConflict, errorPayload{Code: "DEAL_LOCKED", Details: "deal is locked by another process"})
			return
		}
		reg.mu.Lock()
		reg.notifications[id] = append(reg.notifications[id], decision)
		reg.mu.Unlock()
		reg.log.Info("deal notified", "deal_id", id, "decision", decision, "request_id", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]string{})
	}
}

func (reg *registry) listNotifications(w http.ResponseWriter, r *http.Request) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string][]string{"decisions": reg.notifications[r.PathValue("id")]})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	reg := &registry{log: log, deals: seed(), notifications: map[string][]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/deals/{id}", reg.getDeal)
	mux.HandleFunc("POST /v1/deals/{id}/accept", reg.notify("ACCEPT"))
	mux.HandleFunc("POST /v1/deals/{id}/reject", reg.notify("REJECT"))
	mux.HandleFunc("GET /_test/deals/{id}/notifications", reg.listNotifications)

	addr := ":8090"
	if v := os.Getenv("DEAL_REGISTRY_ADDR"); v != "" {
		addr = v
	}
	log.Info("deal registry listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("deal registry stopped", "error", err)
		os.Exit(1)
	}
}
