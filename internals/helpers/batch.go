// file: internals/helpers/batch.go
package helper

/* =========================
   Batch result (cron/scheduler)
========================= */

// BatchDetail: hasil per-entity di dalam satu batch. Kegagalan satu entity
// tidak menggagalkan batch — dicatat di sini lalu lanjut.
type BatchDetail struct {
	Key    string `json:"key"`
	Status string `json:"status"` // created | skipped | ok | failed
	Reason string `json:"reason,omitempty"`
}

type BatchResult struct {
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Details   []BatchDetail `json:"details"`
}

func (b *BatchResult) Add(key, status, reason string) {
	b.Processed++
	if status == "failed" {
		b.Failed++
	} else {
		b.Succeeded++
	}
	b.Details = append(b.Details, BatchDetail{Key: key, Status: status, Reason: reason})
}
