// file: internals/features/notifier/notifier.go
package notifier

import (
	"log"

	"github.com/google/uuid"
)

// Notifier: pengiriman notifikasi fire-and-forget — gagal kirim tidak boleh
// menggagalkan flow bisnis pemanggil.
type Notifier interface {
	Notify(event string, recipient uuid.UUID, data map[string]any)
}

// LogNotifier: implementasi default — cukup ke log aplikasi. Integrasi push /
// email tinggal implement interface yang sama.
type LogNotifier struct{}

func (LogNotifier) Notify(event string, recipient uuid.UUID, data map[string]any) {
	log.Printf("[INFO] 🔔 notify %s → %s: %v", event, recipient, data)
}
