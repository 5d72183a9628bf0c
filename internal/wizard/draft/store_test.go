// internal/wizard/draft/store_test.go
package draft

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-wizard/internal/common/logger"
	"recruiting-wizard/internal/wizard/form"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, 0, logger.NewTestLogger(t)), mr
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	app := store.Load(context.Background(), "s1")

	assert.Equal(t, form.StepIntro, app.CurrentStep)
	assert.Len(t, app.Step2.Outcomes, len(form.OutcomeKeys))
	assert.Len(t, app.Step3.Competencies, len(form.CompetencyDefinitions))
	assert.NotNil(t, app.Step4.Files)
	assert.Empty(t, app.Step4.Files)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	app := form.NewApplication()
	app.Step0.Accepted = true
	app.Step1.Accepted = true
	app.Step1.MissionReflection = "reflexão"
	app.Step2.Outcomes[form.OutcomePlaybook] = form.Outcome{Accepted: true, Comment: "ok"}
	app.Step3.Competencies[0].Rating = "4"
	app.Step4.PersonalInfo.FullName = "João Silva"
	app.CurrentStep = form.StepOutcomes

	require.NoError(t, store.Save(ctx, "s1", app))

	loaded := store.Load(ctx, "s1")
	assert.True(t, loaded.Step0.Accepted)
	assert.Equal(t, "reflexão", loaded.Step1.MissionReflection)
	assert.Equal(t, form.Outcome{Accepted: true, Comment: "ok"}, loaded.Step2.Outcomes[form.OutcomePlaybook])
	assert.Equal(t, "4", loaded.Step3.Competencies[0].Rating)
	assert.Equal(t, "João Silva", loaded.Step4.PersonalInfo.FullName)
	assert.Equal(t, form.StepOutcomes, loaded.CurrentStep)
}

func TestAttachmentsNeverSurviveReload(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	app := form.NewApplication()
	app.Step4.Files = []form.Attachment{
		{Name: "cv.pdf", ContentType: "application/pdf", Size: 1024, Data: []byte("pdf")},
	}
	app.Step4.Photo = &form.Attachment{Name: "me.jpg", ContentType: "image/jpeg", Size: 10, Data: []byte("jpg")}

	require.NoError(t, store.Save(ctx, "s1", app))

	loaded := store.Load(ctx, "s1")
	assert.Empty(t, loaded.Step4.Files)
	assert.Nil(t, loaded.Step4.Photo)
}

func TestLoadCorruptedFallsBackToDefaults(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set(storageKey+":s1", "{not json")

	app := store.Load(ctx, "s1")
	assert.Equal(t, form.StepIntro, app.CurrentStep)

	// The corrupted key is discarded so the next load skips the schema check.
	_, err := mr.Get(storageKey + ":s1")
	assert.Error(t, err)
}

func TestLoadWrongShapeFallsBackToDefaults(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	// Valid JSON, wrong shape: currentStep is a string.
	mr.Set(storageKey+":s1", `{"step0":{},"step1":{},"step2":{},"step3":{},"step4":{},"currentStep":"2"}`)

	app := store.Load(ctx, "s1")
	assert.Equal(t, form.StepIntro, app.CurrentStep)
}

func TestLoadClampsOutOfRangeStep(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set(storageKey+":s1", `{"step0":{},"step1":{},"step2":{},"step3":{},"step4":{},"currentStep":99}`)

	app := store.Load(ctx, "s1")
	assert.Equal(t, form.StepSuccess, app.CurrentStep)
}

func TestLoadRepairsShortCompetencyList(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set(storageKey+":s1", `{"step0":{},"step1":{},"step2":{},
		"step3":{"competencies":[{"name":"comp31","rating":"5","example":"ex"}]},
		"step4":{},"currentStep":0}`)

	app := store.Load(ctx, "s1")
	require.Len(t, app.Step3.Competencies, len(form.CompetencyDefinitions))
	assert.Equal(t, "5", app.Step3.Competencies[0].Rating)
	assert.Equal(t, "comp32", app.Step3.Competencies[1].Name)
	assert.Empty(t, app.Step3.Competencies[1].Rating)
}

func TestClear(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", form.NewApplication()))
	require.NoError(t, store.Clear(ctx, "s1"))

	_, err := mr.Get(storageKey + ":s1")
	assert.Error(t, err)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear(ctx, "s1"))
}
