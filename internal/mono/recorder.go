package mono

import (
	"tao/internal/mir"
	"tao/internal/source"
)

// Recorder observes global references while a program is lowered.
type Recorder interface {
	RecordUse(def mir.DefID, site source.Span, caller mir.DefID)
}

// InstantiationMapRecorder implements Recorder on top of an InstantiationMap.
type InstantiationMapRecorder struct {
	Map *InstantiationMap
}

var _ Recorder = (*InstantiationMapRecorder)(nil)

// NewInstantiationMapRecorder creates a new recorder bound to the provided map.
func NewInstantiationMapRecorder(m *InstantiationMap) *InstantiationMapRecorder {
	return &InstantiationMapRecorder{Map: m}
}

// RecordUse implements Recorder.
func (r *InstantiationMapRecorder) RecordUse(def mir.DefID, site source.Span, caller mir.DefID) {
	if r == nil || r.Map == nil {
		return
	}
	r.Map.Record(def, site, caller)
}
