package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const ContentTypeJSON = "application/json"

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

// WriteJSON marshals the payload and writes it with the given status code.
// A marshalling failure is turned into a plain 500.
func WriteJSON(w http.ResponseWriter, payload any, statusCode int) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal response payload: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentTypeJSON, payloadJson, statusCode)
}

func WriteJSONStatus(w http.ResponseWriter, status string, statusCode int) {
	WriteJSON(w, map[string]string{"status": status}, statusCode)
}
