package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

const (
	EventCourseSaved     = "course.saved"
	EventCoursePublished = "course.published"
)

// CourseEvent is the wire shape published on the course channel. Other
// services (notifications, search indexing) subscribe to it.
type CourseEvent struct {
	Event    string    `json:"event"`
	CourseID uuid.UUID `json:"course_id"`
	Created  bool      `json:"created,omitempty"`
	At       time.Time `json:"at"`
}

type CourseEventBus interface {
	CourseSaved(ctx context.Context, courseID uuid.UUID, created bool)
	CoursePublished(ctx context.Context, courseID uuid.UUID)
	StartForwarder(ctx context.Context, onEvent func(e CourseEvent)) error
	Close() error
}

type courseEventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewCourseEventBus(log *logger.Logger) (CourseEventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_COURSE_CHANNEL"))
	if ch == "" {
		ch = "course-events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &courseEventBus{
		log:     log.With("service", "RedisCourseEventBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

// CourseSaved and CoursePublished are fire-and-forget: a dropped event is
// logged and never fails the save or publish that triggered it.
func (b *courseEventBus) CourseSaved(ctx context.Context, courseID uuid.UUID, created bool) {
	b.publish(ctx, CourseEvent{Event: EventCourseSaved, CourseID: courseID, Created: created, At: time.Now().UTC()})
}

func (b *courseEventBus) CoursePublished(ctx context.Context, courseID uuid.UUID) {
	b.publish(ctx, CourseEvent{Event: EventCoursePublished, CourseID: courseID, At: time.Now().UTC()})
}

func (b *courseEventBus) publish(ctx context.Context, e CourseEvent) {
	if b == nil || b.rdb == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		b.log.Warn("marshal course event failed", "event", e.Event, "error", err)
		return
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		b.log.Warn("publish course event failed", "event", e.Event, "course_id", e.CourseID, "error", err)
	}
}

func (b *courseEventBus) StartForwarder(ctx context.Context, onEvent func(e CourseEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis course event bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var e CourseEvent
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					b.log.Warn("bad course event payload", "error", err)
					continue
				}
				onEvent(e)
			}
		}
	}()

	return nil
}

func (b *courseEventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
