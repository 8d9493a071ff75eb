package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

func TestCollectingReporter(t *testing.T) {
	rep := NewCollectingReporter()
	rep.Report(Event{Kind: KindMalformedRecord, Source: "bigg", EntityID: "?"})
	rep.Report(Event{Kind: KindAttributeConflict, EntityID: "glc_D", Field: "formula"})
	rep.Report(Event{Kind: KindMalformedRecord, Source: "kegg"})

	assert.Equal(t, 2, rep.Count(KindMalformedRecord))
	assert.Equal(t, 1, rep.Count(KindAttributeConflict))
	assert.Equal(t, 0, rep.Count(KindSuffixMiss))
	assert.Len(t, rep.Events(), 3)
}

func TestEvent_String(t *testing.T) {
	ev := Event{
		Kind: KindAttributeConflict, Source: "metanetx",
		EntityID: "glc_D", Field: "formula",
		Kept: "C6H12O6", Discarded: "C6H12O6X",
	}
	assert.Equal(t,
		`attribute_conflict glc_D.formula: kept "C6H12O6", discarded "C6H12O6X" (source metanetx)`,
		ev.String())
}

func TestLogReporter(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	rep := NewLogReporter(logging.NewLoggerFromCore(core))

	rep.Report(Event{Kind: KindUnresolvedStoichiometry, Source: "metanetx", EntityID: "MNXR1", Detail: "coefficient=(2n)"})

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "unresolved_stoichiometry", entries[0].ContextMap()["kind"])
}

func TestTeeReporter(t *testing.T) {
	a := NewCollectingReporter()
	b := NewCollectingReporter()
	tee := TeeReporter{a, b}
	tee.Report(Event{Kind: KindSuffixMiss})
	assert.Equal(t, 1, a.Count(KindSuffixMiss))
	assert.Equal(t, 1, b.Count(KindSuffixMiss))
}
