package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stage_frames_total",
		Help: "Frames rendered and patched into the live tree",
	})

	framesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stage_frames_failed_total",
		Help: "Frames aborted by a layout, diff or patch error",
	})

	patchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stage_patches_total",
		Help: "Patches applied, by kind",
	}, []string{"kind"})

	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stage_frame_duration_seconds",
		Help:    "Time spent building, diffing and patching one frame",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
)
