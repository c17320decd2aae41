package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"

	"gym-occupancy-backend/internal/model"
	"gym-occupancy-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Event is an occupancy drop from Previous to Current percent.
type Event struct {
	Previous  int
	Current   int
	Occupancy int
	Capacity  int
}

// Message is the JSON payload delivered to the browser.
type Message struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Percent int    `json:"percent"`
}

// WorkerPool manages a pool of workers for sending occupancy alerts.
type WorkerPool struct {
	size     int
	jobs     chan Event
	subs     store.SubscriptionStore
	webpush  *webpush.Options
	sender   NotificationSender
	facility string

	mu       sync.Mutex
	previous *int
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, subs store.SubscriptionStore, webpushOptions *webpush.Options, facility string) *WorkerPool {
	return &WorkerPool{
		size:     size,
		jobs:     make(chan Event, size),
		subs:     subs,
		webpush:  webpushOptions,
		sender:   &WebPushSender{},
		facility: facility,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case ev := <-wp.jobs:
			log.Printf("Worker %d processing occupancy drop %d%% -> %d%%", id, ev.Previous, ev.Current)
			wp.sendNotificationsForDrop(ctx, ev)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an event. It reports false and drops the event when every
// worker is busy and the queue is full.
func (wp *WorkerPool) Dispatch(ev Event) bool {
	select {
	case wp.jobs <- ev:
		return true
	default:
		log.Printf("Notification queue full; dropping occupancy drop %d%% -> %d%%", ev.Previous, ev.Current)
		return false
	}
}

// Observe compares a fresh status with the last one seen and dispatches an
// event when the occupancy percentage went down. Statuses without a percentage
// are ignored.
func (wp *WorkerPool) Observe(ctx context.Context, status *model.OccupancyStatus) {
	if status == nil || status.Percent == nil {
		return
	}
	current := *status.Percent

	wp.mu.Lock()
	previous := wp.previous
	wp.previous = &current
	wp.mu.Unlock()

	if previous == nil || current >= *previous {
		return
	}

	ev := Event{Previous: *previous, Current: current, Occupancy: status.Occupancy}
	if status.Capacity != nil {
		ev.Capacity = *status.Capacity
	}
	wp.Dispatch(ev)
}

func (wp *WorkerPool) sendNotificationsForDrop(ctx context.Context, ev Event) {
	subscriptions, err := wp.subs.SubscriptionsCrossed(ctx, ev.Previous, ev.Current)
	if err != nil {
		log.Printf("Error fetching subscriptions for drop to %d%%: %v", ev.Current, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for drop to %d%%", len(subscriptions), ev.Current)

	payload, err := json.Marshal(wp.message(ev))
	if err != nil {
		log.Printf("Error encoding notification: %v", err)
		return
	}
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) message(ev Event) Message {
	body := fmt.Sprintf("Now %d%% full.", ev.Current)
	if ev.Capacity > 0 {
		body = fmt.Sprintf("Now %d%% full (%d/%d).", ev.Current, ev.Occupancy, ev.Capacity)
	}
	return Message{
		Title:   fmt.Sprintf("The %s is quieter", wp.facility),
		Body:    body,
		Percent: ev.Current,
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
