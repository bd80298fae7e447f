package mq

import (
	"encoding/json"
	"log"

	"mozakra/globals"
	"mozakra/models"
	"mozakra/rdx"
)

const sessionChannel = "session-events"

// Emit publishes a session change to Redis so every server instance can
// push it to its own websocket subscribers. Failures are logged and
// swallowed: the write to Mongo already happened and must not be rolled
// back because the fan-out hiccuped.
func Emit(action string, session *models.Session) {
	data, err := json.Marshal(models.SessionEvent{Action: action, Session: session})
	if err != nil {
		log.Printf("[Emit] Failed to marshal session event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(globals.Ctx, sessionChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish session event: %v", err)
	}
}

// StartEventWorker subscribes to the session event channel and hands every
// payload to sink (the websocket hub). Runs until the subscription dies.
func StartEventWorker(sink func(data []byte)) {
	sub := rdx.Conn.Subscribe(globals.Ctx, sessionChannel)
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for session events...")

	for msg := range ch {
		sink([]byte(msg.Payload))
	}
}
