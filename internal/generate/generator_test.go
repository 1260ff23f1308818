package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"springnorm/internal/specs"
)

type fakeProvider struct {
	response  string
	err       error
	gotSystem string
	gotUser   string
}

func (f *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	return f.response, f.err
}

// blockingProvider waits for cancellation, like a hung HTTP call.
type blockingProvider struct{}

func (blockingProvider) Complete(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

var testSpec = SpringSpecification{
	PartName:     "Demo Spring",
	PartNumber:   "DS-1",
	FreeLengthMM: 58,
	CoilCount:    5,
	WireDiaMM:    2,
	OuterDiaMM:   10,
	SafetyLimitN: 300,
	Unit:         "mm",
	ForceUnit:    "N",
	TestMode:     "Height Mode",
}

func TestGenerateParsesHybridResponse(t *testing.T) {
	fake := &fakeProvider{
		response: "```json\nHere you go.\n" +
			"---SEQUENCE_DATA_START---\n" +
			`[{"Row":"R00","CMD":"ZF","Description":"Zero Force"}]` + "\n" +
			"---SEQUENCE_DATA_END---\n```",
	}
	g := NewGenerator(fake, testSpec)

	block, speeds, err := g.Generate(context.Background(), "Generate a compression test")
	require.NoError(t, err)
	require.Len(t, block.Rows, 1)
	assert.Equal(t, "ZF", block.Rows[0].CMD)
	assert.Equal(t, "Here you go.", block.ChatText)

	// The provider saw the spec block, the user request, and the advisory
	// speeds.
	assert.Contains(t, fake.gotUser, "Part Name: Demo Spring")
	assert.Contains(t, fake.gotUser, "Generate a compression test")
	assert.Contains(t, fake.gotUser, "Recommended machine settings")
	assert.Contains(t, fake.gotSystem, "---SEQUENCE_DATA_START---")

	assert.GreaterOrEqual(t, speeds.ThresholdSpeed, 5)
	assert.LessOrEqual(t, speeds.MovementSpeed, 100)
}

func TestGenerateProviderError(t *testing.T) {
	fake := &fakeProvider{err: errors.New("boom")}
	g := NewGenerator(fake, testSpec)

	block, speeds, err := g.Generate(context.Background(), "anything")
	assert.Error(t, err)
	assert.Nil(t, block)
	// Speeds are computed locally and survive a provider failure.
	assert.NotZero(t, speeds.ThresholdSpeed)
}

func TestGenerateAsyncCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := NewGenerator(blockingProvider{}, testSpec)
	ctx, cancel := context.WithCancel(context.Background())

	ch := g.GenerateAsync(ctx, "slow request")
	cancel()

	res := <-ch
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestPromptTextResolvesAllFields(t *testing.T) {
	spec, _ := specs.Resolve(specs.Bag{"prompt": testSpec.PromptText()})
	assert.Equal(t, specs.ResolvedSpec{
		PartName:    "Demo Spring",
		PartNumber:  "DS-1",
		FreeLength:  "58",
		TestMode:    "Height",
		SafetyLimit: "300",
	}, spec)
}

func TestBagResolvesAllFields(t *testing.T) {
	spec, _ := specs.Resolve(testSpec.Bag())
	assert.Equal(t, "Demo Spring", spec.PartName)
	assert.Equal(t, "DS-1", spec.PartNumber)
	assert.Equal(t, "58", spec.FreeLength)
	assert.Equal(t, "Height", spec.TestMode)
	assert.Equal(t, "300", spec.SafetyLimit)
}

func TestPromptTextSetPoints(t *testing.T) {
	s := testSpec
	s.SetPoints = []SetPoint{
		{PositionMM: 40, LoadN: 23.6, TolerancePercent: 10, Enabled: true},
		{PositionMM: 30, LoadN: 40, TolerancePercent: 10, Enabled: false},
	}
	text := s.PromptText()
	assert.Contains(t, text, "Set Point-1 Position: 40 mm")
	assert.False(t, strings.Contains(text, "Set Point-2"), "disabled set points are omitted")
}
