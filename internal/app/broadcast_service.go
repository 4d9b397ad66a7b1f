package app

import (
	"context"
	"fmt"

	"university_line_bot/internal/domain/messaging"
	"university_line_bot/internal/domain/student"

	"github.com/sirupsen/logrus"
)

// ErrUnknownFaculty is returned when a broadcast targets a faculty outside
// the configured set.
var ErrUnknownFaculty = fmt.Errorf("unknown faculty")

// BroadcastService sends faculty-scoped announcements: it resolves the
// faculty's audience tag and issues a single narrowcast. Any failure aborts
// the broadcast; there is no retry and no partial-delivery tracking.
type BroadcastService struct {
	tags        messaging.TagDirectory
	broadcaster messaging.Broadcaster
	logger      *logrus.Entry
}

func NewBroadcastService(
	td messaging.TagDirectory,
	b messaging.Broadcaster,
	logger *logrus.Entry,
) *BroadcastService {
	return &BroadcastService{
		tags:        td,
		broadcaster: b,
		logger:      logger,
	}
}

// BroadcastToFaculty sends message to every user tagged with the faculty.
func (s *BroadcastService) BroadcastToFaculty(ctx context.Context, faculty, message string) error {
	logCtx := s.logger.WithField("faculty", faculty)

	if !student.IsValidFaculty(faculty) {
		logCtx.Warn("Broadcast requested for unknown faculty")
		return ErrUnknownFaculty
	}

	tagID, err := s.tags.ResolveOrCreateTag(ctx, faculty)
	if err != nil {
		logCtx.WithError(err).Error("Failed to resolve faculty tag for broadcast")
		return fmt.Errorf("failed to resolve tag for faculty %q: %w", faculty, err)
	}

	if err := s.broadcaster.NarrowcastText(ctx, tagID, message); err != nil {
		logCtx.WithError(err).Error("Failed to send narrowcast")
		return fmt.Errorf("failed to send narrowcast to faculty %q: %w", faculty, err)
	}

	logCtx.WithField("tag_id", tagID).Info("Broadcast sent")
	return nil
}
