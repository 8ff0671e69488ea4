package backup

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/liftlog-app/backend/internal/notifications/history"
	"github.com/liftlog-app/backend/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel/codes"
)

// number of delivery events in one backup file
const eventsFileChunkSize = 350

type eventsSource interface {
	ListSince(ctx context.Context, since time.Time) ([]*history.DeliveryEvent, error)
}

var _ eventsSource = (*history.Service)(nil)

// Service exports the delivery log to a remote sink, incrementally:
// only events newer than the newest backup file present in the sink
// get uploaded, chunked into fixed-size JSON files.
type Service struct {
	events eventsSource
	sink   Sink

	// checksum of the most recently uploaded chunk, to skip re-uploads
	// of identical content
	lastChecksum string
}

type Result struct {
	Events   int
	Uploaded int
	Duration time.Duration
}

func NewService(events eventsSource, sink Sink) *Service {
	return &Service{
		events: events,
		sink:   sink,
	}
}

// Run performs one incremental backup. The baseTime goes into the
// backup file names.
func (s *Service) Run(ctx context.Context, baseTime time.Time) (_ Result, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.run")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	startedAt := time.Now()

	newestBackupAt, err := s.sink.NewestBackupTime(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("get newest backup time: %w", err)
	}

	if newestBackupAt.IsZero() {
		log.Debugln("no previous backups found, creating initial backup")
	} else {
		log.Debugf("newest backup found at %v", newestBackupAt)
	}

	eventsToBackup, err := s.events.ListSince(ctx, newestBackupAt)
	if err != nil {
		return Result{}, fmt.Errorf("get delivery events to backup: %w", err)
	}

	if len(eventsToBackup) == 0 {
		log.Debugln("no new delivery events to backup, done")
		return Result{Duration: time.Since(startedAt)}, nil
	}

	log.Debugf("backing up %d delivery events since %v", len(eventsToBackup), newestBackupAt)

	baseFileName := fmt.Sprintf("delivery-events-%d-%d-%d", baseTime.Day(), baseTime.Month(), baseTime.Year())
	uploaded, err := s.backupEvents(ctx, eventsToBackup, baseFileName)
	if err != nil {
		return Result{}, fmt.Errorf("backup delivery events: %w", err)
	}

	return Result{
		Events:   len(eventsToBackup),
		Uploaded: uploaded,
		Duration: time.Since(startedAt),
	}, nil
}

func (s *Service) backupEvents(ctx context.Context, events []*history.DeliveryEvent, baseFileName string) (int, error) {
	chunks := len(events) / eventsFileChunkSize
	if len(events)%eventsFileChunkSize > 0 {
		chunks++
	}

	fromIndex, toIndex := 0, eventsFileChunkSize
	if len(events) < eventsFileChunkSize {
		toIndex = len(events)
	}

	uploaded := 0
	for i := 1; i <= chunks; i++ {
		nextFileName := fmt.Sprintf("%s_%d.json", baseFileName, i)
		nextEvents := events[fromIndex:toIndex]

		nextEventsJson, err := json.Marshal(nextEvents)
		if err != nil {
			return uploaded, fmt.Errorf("%s: failed to marshal delivery events: %w", nextFileName, err)
		}

		checksum := chunkChecksum(nextEventsJson)
		if checksum == s.lastChecksum {
			log.Debugf("%s: chunk checksum matches previous upload, skipping", nextFileName)
		} else {
			log.Debugf("%s: uploading backup file with %d delivery events [from %d to %d] ...", nextFileName, len(nextEvents), fromIndex, toIndex)
			if err := s.sink.Upload(ctx, nextFileName, nextEventsJson); err != nil {
				return uploaded, fmt.Errorf("%s: failed to upload: %w", nextFileName, err)
			}
			s.lastChecksum = checksum
			uploaded++
		}

		fromIndex = toIndex
		toIndex += eventsFileChunkSize
		if toIndex >= len(events) {
			toIndex = len(events)
		}
	}

	return uploaded, nil
}

func chunkChecksum(data []byte) string {
	h := blake3.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
