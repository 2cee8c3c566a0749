package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/blancosphere/streamvault/internal/models"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/pkg/logctx"
	"github.com/blancosphere/streamvault/pkg/tool"
)

// KV entries are diagnostics only and expire after 30 days.
const entryTTL = 30 * 24 * time.Hour

type Service struct {
	store kv.Store
	db    *gorm.DB
	log   *zap.SugaredLogger
}

func New(store kv.Store, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{store: store, db: db, log: log}
}

// Log writes a diagnostic event entry. Failures are logged and swallowed;
// no workflow aborts because an event could not be recorded.
func (s *Service) Log(ctx context.Context, eventType string, data map[string]any) {
	now := time.Now().UTC()
	id := tool.GenerateUUIDV7()

	payload := map[string]any{
		"timestamp":  now.Format(time.RFC3339),
		"event_type": eventType,
	}
	for k, v := range data {
		payload[k] = v
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to marshal %s event: %v", eventType, err)
		return
	}

	key := fmt.Sprintf("log:%s:%s:%s", eventType, now.Format(time.RFC3339), id)
	if err := s.store.Put(ctx, key, string(raw), entryTTL); err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to log %s event: %v", eventType, err)
	}

	record := &models.EventLogRecord{
		ID:        id,
		EventType: eventType,
		EventTime: now,
		Data:      datatypes.JSON(raw),
	}
	if cid, ok := data["customer_id"].(string); ok && cid != "" {
		record.CustomerID = &cid
	}
	if tid, ok := ctx.Value("traceID").(string); ok {
		record.TraceID = tid
	}
	s.save(ctx, record)
}

// save asynchronously mirrors an entry to Postgres. Best effort; a nil db
// disables the mirror.
func (s *Service) save(ctx context.Context, record *models.EventLogRecord) {
	if s.db == nil {
		return
	}
	go func() {
		if record == nil {
			return
		}
		if err := s.db.Save(record).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save event log record: %v", err)
		}
	}()
}
