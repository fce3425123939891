package ranking

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanity/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
}

var sampleCandidates = []string{
	"-AB-80000000",
	"800-LOVE-000",
	"8005551-BE-4",
	"8005551-BEG-",
	"8005-FLOWER-",
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		names     []string
		phonetics []string
		limit     int
		want      Result
		wantErr   error
	}{
		{
			name:      "keeps known candidates in order",
			names:     []string{"800-LOVE-000", "-AB-80000000"},
			phonetics: []string{"eight zero zero love zero zero zero", "ab eight zero"},
			want: Result{Status: StatusSelected, Selected: []Selection{
				{Candidate: "800-LOVE-000", Phonetic: "eight zero zero love zero zero zero"},
				{Candidate: "-AB-80000000", Phonetic: "ab eight zero"},
			}},
		},
		{
			name:      "drops hallucinated and repeated candidates",
			names:     []string{"800-HATE-000", "800-LOVE-000", "800-LOVE-000"},
			phonetics: []string{"x", "love", "love again"},
			want: Result{Status: StatusSelected, Selected: []Selection{
				{Candidate: "800-LOVE-000", Phonetic: "love"},
			}},
		},
		{
			name:      "caps at limit",
			names:     sampleCandidates,
			phonetics: []string{"a", "b", "c", "d", "e"},
			limit:     2,
			want: Result{Status: StatusSelected, Selected: []Selection{
				{Candidate: "-AB-80000000", Phonetic: "a"},
				{Candidate: "800-LOVE-000", Phonetic: "b"},
			}},
		},
		{
			name:      "nothing usable is no selection",
			names:     []string{"555-NOPE-000"},
			phonetics: []string{"nope"},
			want:      NoSelection(),
		},
		{
			name:      "empty answer is no selection",
			names:     []string{},
			phonetics: []string{},
			want:      NoSelection(),
		},
		{
			name:      "length mismatch is malformed",
			names:     []string{"800-LOVE-000"},
			phonetics: nil,
			wantErr:   ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(sampleCandidates, tt.names, tt.phonetics, tt.limit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_NeverMoreThanMaxSelections(t *testing.T) {
	names := []string{"a-BC-1", "a-BD-1", "a-BE-1", "a-BF-1", "a-BG-1", "a-BH-1", "a-BI-1"}
	phonetics := make([]string, len(names))
	got, err := Validate(names, names, phonetics, 50)
	require.NoError(t, err)
	assert.Len(t, got.Selected, MaxSelections)
}

func TestPhonetic(t *testing.T) {
	assert.Equal(t, "eight zero zero love zero zero zero", Phonetic("800-LOVE-000"))
	assert.Equal(t, "ab eight zero zero", Phonetic("-AB-800"))
	assert.Equal(t, "eight zero zero five love zero zero", Phonetic("800-5-LOVE-00"))
	assert.Equal(t, "nodash", Phonetic("nodash"))
}

func TestShortlist(t *testing.T) {
	got := Shortlist(sampleCandidates, 3)
	assert.Equal(t, []string{"8005-FLOWER-", "800-LOVE-000", "8005551-BEG-"}, got)
	assert.Empty(t, Shortlist(nil, 3))
}

func TestHeuristicOracle(t *testing.T) {
	res, err := NewHeuristicOracle().Rank(context.Background(), sampleCandidates)
	require.NoError(t, err)
	assert.Equal(t, StatusSelected, res.Status)
	assert.Equal(t, []string{"8005-FLOWER-", "800-LOVE-000", "8005551-BEG-", "-AB-80000000", "8005551-BE-4"}, res.Candidates())
	assert.Equal(t, "eight zero zero five flower", res.Selected[0].Phonetic)
}

type mockOracle struct {
	rankFunc func(ctx context.Context, candidates []string) (Result, error)
}

func (m *mockOracle) Rank(ctx context.Context, candidates []string) (Result, error) {
	return m.rankFunc(ctx, candidates)
}

func (m *mockOracle) Name() string {
	return "mock"
}

func TestRanker(t *testing.T) {
	t.Run("returns validated selection", func(t *testing.T) {
		oracle := &mockOracle{rankFunc: func(context.Context, []string) (Result, error) {
			return Result{Status: StatusSelected, Selected: []Selection{
				{Candidate: "800-LOVE-000", Phonetic: "love"},
				{Candidate: "not-A-candidate", Phonetic: "nope"},
			}}, nil
		}}
		res := NewRanker(oracle, time.Second, MaxSelections, testLogger()).Rank(context.Background(), sampleCandidates)
		assert.Equal(t, []string{"800-LOVE-000"}, res.Candidates())
	})

	t.Run("oracle error is unavailable", func(t *testing.T) {
		oracle := &mockOracle{rankFunc: func(context.Context, []string) (Result, error) {
			return Result{}, errors.New("boom")
		}}
		res := NewRanker(oracle, time.Second, MaxSelections, testLogger()).Rank(context.Background(), sampleCandidates)
		assert.Equal(t, StatusUnavailable, res.Status)
		assert.False(t, res.HasSelection())
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		oracle := &mockOracle{rankFunc: func(ctx context.Context, _ []string) (Result, error) {
			<-ctx.Done()
			return Result{}, ctx.Err()
		}}
		res := NewRanker(oracle, 10*time.Millisecond, MaxSelections, testLogger()).Rank(context.Background(), sampleCandidates)
		assert.Equal(t, StatusUnavailable, res.Status)
	})

	t.Run("no candidates skips the oracle", func(t *testing.T) {
		oracle := &mockOracle{rankFunc: func(context.Context, []string) (Result, error) {
			t.Fatal("oracle must not be called")
			return Result{}, nil
		}}
		res := NewRanker(oracle, time.Second, MaxSelections, testLogger()).Rank(context.Background(), nil)
		assert.Equal(t, NoSelection(), res)
	})

	t.Run("nil oracle is no selection", func(t *testing.T) {
		res := NewRanker(nil, time.Second, MaxSelections, testLogger()).Rank(context.Background(), sampleCandidates)
		assert.Equal(t, NoSelection(), res)
	})
}

type mockConverse struct {
	input    *bedrockruntime.ConverseInput
	reply    string
	err      error
	noOutput bool
}

func (m *mockConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	if m.noOutput {
		return &bedrockruntime.ConverseOutput{}, nil
	}
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.reply}},
		}},
	}, nil
}

func newTestBedrock(t *testing.T, client ConverseAPI, cfg BedrockConfig) *BedrockOracle {
	t.Helper()
	o, err := NewBedrockOracle(context.Background(), cfg, WithConverseClient(client))
	require.NoError(t, err)
	return o
}

func TestBedrockOracle(t *testing.T) {
	t.Run("parses fenced JSON", func(t *testing.T) {
		client := &mockConverse{reply: "Here you go:\n```json\n" +
			`{"numbers": ["800-LOVE-000", "800-HATE-000"], "phonetics": ["eight zero zero love zero zero zero", "hate"]}` +
			"\n```"}
		o := newTestBedrock(t, client, BedrockConfig{})

		res, err := o.Rank(context.Background(), sampleCandidates)
		require.NoError(t, err)
		assert.Equal(t, []Selection{{Candidate: "800-LOVE-000", Phonetic: "eight zero zero love zero zero zero"}}, res.Selected)
		assert.Equal(t, DefaultBedrockModelID, *client.input.ModelId)
		assert.Equal(t, "bedrock:"+DefaultBedrockModelID, o.Name())
	})

	t.Run("explicit empty answer", func(t *testing.T) {
		client := &mockConverse{reply: `{"numbers": [], "phonetics": []}`}
		res, err := newTestBedrock(t, client, BedrockConfig{}).Rank(context.Background(), sampleCandidates)
		require.NoError(t, err)
		assert.Equal(t, NoSelection(), res)
	})

	malformed := []struct {
		name  string
		reply string
	}{
		{name: "not JSON", reply: "I like 800-LOVE-000 best."},
		{name: "missing phonetics", reply: `{"numbers": ["800-LOVE-000"]}`},
		{name: "length mismatch", reply: `{"numbers": ["800-LOVE-000"], "phonetics": []}`},
		{name: "wrong types", reply: `{"numbers": "800-LOVE-000", "phonetics": "love"}`},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockConverse{reply: tt.reply}
			_, err := newTestBedrock(t, client, BedrockConfig{}).Rank(context.Background(), sampleCandidates)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}

	t.Run("no message output", func(t *testing.T) {
		client := &mockConverse{noOutput: true}
		_, err := newTestBedrock(t, client, BedrockConfig{}).Rank(context.Background(), sampleCandidates)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("client error", func(t *testing.T) {
		client := &mockConverse{err: errors.New("throttled")}
		_, err := newTestBedrock(t, client, BedrockConfig{}).Rank(context.Background(), sampleCandidates)
		assert.ErrorIs(t, err, ErrOracleUnavailable)
	})

	t.Run("large lists are shortlisted", func(t *testing.T) {
		client := &mockConverse{reply: `{"numbers": ["8005551-BE-4"], "phonetics": ["be"]}`}
		o := newTestBedrock(t, client, BedrockConfig{ModelID: "test-model", PromptCandidates: 2})

		res, err := o.Rank(context.Background(), sampleCandidates)
		require.NoError(t, err)
		assert.Equal(t, NoSelection(), res, "candidate outside the shortlist must be dropped")

		text := client.input.Messages[0].Content[0].(*types.ContentBlockMemberText).Value
		assert.Contains(t, text, "8005-FLOWER-, 800-LOVE-000")
		assert.NotContains(t, text, "8005551-BE-4")
	})

	t.Run("all candidates are sent when uncapped", func(t *testing.T) {
		client := &mockConverse{reply: `{"numbers": ["8005551-BE-4"], "phonetics": ["eight zero zero five five five one be four"]}`}
		o := newTestBedrock(t, client, BedrockConfig{ModelID: "test-model", PromptCandidates: AllCandidates})

		res, err := o.Rank(context.Background(), sampleCandidates)
		require.NoError(t, err)
		assert.Equal(t, []string{"8005551-BE-4"}, res.Candidates())

		text := client.input.Messages[0].Content[0].(*types.ContentBlockMemberText).Value
		for _, c := range sampleCandidates {
			assert.Contains(t, text, c)
		}
	})
}
