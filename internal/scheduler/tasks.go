// Package scheduler runs background jobs for quote offers over asynq.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskOfferExpirySweep = "quoteoffers.expiry.sweep"

type OfferExpirySweepPayload struct {
	SweepAt time.Time `json:"sweepAt"`
}

func NewOfferExpirySweepTask(payload OfferExpirySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferExpirySweep, data), nil
}

func ParseOfferExpirySweepPayload(task *asynq.Task) (OfferExpirySweepPayload, error) {
	var payload OfferExpirySweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OfferExpirySweepPayload{}, err
	}
	return payload, nil
}
