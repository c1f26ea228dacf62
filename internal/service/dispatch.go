package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/channel"
	"bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/model"
)

// dispatchJob is one channel send to one destination
type dispatchJob struct {
	kind        model.ChannelType
	ch          channel.Channel
	destination string
	// missing is reported when destination is empty
	missing string
}

// dispatchAll runs every job concurrently and returns the results in job
// order. A failing job never affects its siblings. Sends run to completion
// even when the caller's context is cancelled.
func dispatchAll(ctx context.Context, jobs []dispatchJob, msg channel.Message, m *metrics.Metrics) []model.DispatchResult {
	results := make([]model.DispatchResult, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job dispatchJob) {
			defer wg.Done()
			results[i] = dispatchOne(ctx, job, msg)
			if m != nil {
				m.ObserveDispatch(string(job.kind), results[i].Success)
			}
		}(i, job)
	}
	wg.Wait()

	return results
}

func dispatchOne(ctx context.Context, job dispatchJob, msg channel.Message) (result model.DispatchResult) {
	ctx = context.WithoutCancel(ctx)
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("channel", job.kind).Errorf("Channel panicked: %v", r)
			result = model.DispatchResult{Type: job.kind, Message: fmt.Sprintf("kanal %s gagal: %v", job.kind, r)}
		}
	}()

	if job.ch == nil {
		return model.DispatchResult{Type: job.kind, Message: fmt.Sprintf("kanal %s tidak dikonfigurasi", job.kind)}
	}
	if job.destination == "" {
		return model.DispatchResult{Type: job.kind, Message: job.missing}
	}

	result = job.ch.Send(ctx, job.destination, msg)
	result.Type = job.kind
	logrus.WithFields(logrus.Fields{
		"channel":      job.kind,
		"destination":  job.destination,
		"complaint_id": msg.Metadata.ComplaintID,
		"success":      result.Success,
	}).Info("Dispatch attempt finished")
	return result
}

func anySuccess(results []model.DispatchResult) bool {
	for _, r := range results {
		if r.Success {
			return true
		}
	}
	return false
}
