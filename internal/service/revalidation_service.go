package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const revalidatePublishTimeout = 2 * time.Second

// Revalidator signals downstream caches that a student's data changed. Calls
// are fire-and-forget: they never block the mutation path and failures are
// logged, not returned.
type Revalidator interface {
	ScheduleChanged(studentID uint)
	AssignmentChanged(studentID uint)
}

// RevalidationEvent is the payload published on every invalidation.
type RevalidationEvent struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	StudentID uint      `json:"student_id"`
	SentAt    time.Time `json:"sent_at"`
}

type revalidationService struct {
	redis       *redis.Client
	channel     string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewRevalidationService builds the cache invalidation sink. Both transports
// are optional; a nil client simply skips that leg.
func NewRevalidationService(redisClient *redis.Client, channel string, natsConn *nats.Conn, logger zerolog.Logger) Revalidator {
	subject := ""
	if channel != "" {
		subject = strings.ReplaceAll(channel, ":", ".")
	}

	return &revalidationService{
		redis:       redisClient,
		channel:     channel,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "revalidation_service").Logger(),
		now:         time.Now,
	}
}

func (s *revalidationService) ScheduleChanged(studentID uint) {
	s.publish("schedule", studentID)
}

func (s *revalidationService) AssignmentChanged(studentID uint) {
	s.publish("assignment", studentID)
}

func (s *revalidationService) publish(entity string, studentID uint) {
	event := RevalidationEvent{
		ID:        uuid.NewString(),
		Entity:    entity,
		StudentID: studentID,
		SentAt:    s.now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), revalidatePublishTimeout)
		defer cancel()

		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to encode revalidation event")
			return
		}

		if s.redis != nil && s.channel != "" {
			if err := s.redis.Publish(ctx, s.channel, payload).Err(); err != nil {
				s.logger.Warn().Err(err).Str("channel", s.channel).Msg("failed to publish revalidation to redis")
			}

			if err := s.redis.Del(ctx, dashboardCacheKey(studentID)).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to drop cached dashboard")
			}
		}

		if s.nats != nil && s.natsSubject != "" {
			if err := s.nats.Publish(s.natsSubject, payload); err != nil {
				s.logger.Warn().Err(err).Str("subject", s.natsSubject).Msg("failed to publish revalidation to nats")
			}
		}
	}()
}
