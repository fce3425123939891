package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	DefaultBedrockModelID    = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	DefaultMaxTokens         = 512
	DefaultPromptCandidates  = 200
	systemPrompt             = "You rank vanity phone numbers. Answer with a single JSON object and nothing else."
	rankingPromptInstruction = "Given a list of vanity phone numbers, rank them based on their desirability. " +
		"Consider factors such as length, memorability, and relevance to common words or phrases. " +
		"Return the top %d vanity numbers, sorted by desirability, exactly as they appear in the list. " +
		"For each one also return how it should be read aloud by a text-to-speech voice, spelling digits one by one.\n\n" +
		"Respond with JSON of the form {\"numbers\": [\"...\"], \"phonetics\": [\"...\"]} where phonetics[i] is the reading of numbers[i]. " +
		"If none of the numbers are worth suggesting, respond with {\"numbers\": [], \"phonetics\": []}.\n\n" +
		"Vanity Numbers: %s\n"
)

// ConverseAPI is the subset of the Bedrock runtime client the oracle uses.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// AllCandidates as BedrockConfig.PromptCandidates sends the full candidate
// list to the model.
const AllCandidates = -1

type BedrockConfig struct {
	ModelID          string
	Region           string
	MaxTokens        int32
	PromptCandidates int
}

// BedrockOracle asks a Bedrock-hosted model to pick the best candidates.
type BedrockOracle struct {
	client           ConverseAPI
	modelID          string
	maxTokens        int32
	promptCandidates int
}

type BedrockOption func(*BedrockOracle)

// WithConverseClient sets a pre-configured client, e.g. a mock.
func WithConverseClient(client ConverseAPI) BedrockOption {
	return func(o *BedrockOracle) {
		o.client = client
	}
}

func NewBedrockOracle(ctx context.Context, cfg BedrockConfig, opts ...BedrockOption) (*BedrockOracle, error) {
	o := &BedrockOracle{
		modelID:          cfg.ModelID,
		maxTokens:        cfg.MaxTokens,
		promptCandidates: cfg.PromptCandidates,
	}
	if o.modelID == "" {
		o.modelID = DefaultBedrockModelID
	}
	if o.maxTokens <= 0 {
		o.maxTokens = DefaultMaxTokens
	}
	if o.promptCandidates == 0 {
		o.promptCandidates = DefaultPromptCandidates
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		var awsOptions []func(*config.LoadOptions) error
		if cfg.Region != "" {
			awsOptions = append(awsOptions, config.WithRegion(cfg.Region))
		}
		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		o.client = bedrockruntime.NewFromConfig(awsConfig)
	}
	return o, nil
}

func (o *BedrockOracle) Name() string {
	return "bedrock:" + o.modelID
}

type bedrockAnswer struct {
	Numbers   []string `json:"numbers"`
	Phonetics []string `json:"phonetics"`
}

func (o *BedrockOracle) Rank(ctx context.Context, candidates []string) (Result, error) {
	if len(candidates) == 0 {
		return NoSelection(), nil
	}

	shortlist := candidates
	if o.promptCandidates > 0 && len(shortlist) > o.promptCandidates {
		shortlist = Shortlist(candidates, o.promptCandidates)
	}
	prompt := fmt.Sprintf(rankingPromptInstruction, MaxSelections, strings.Join(shortlist, ", "))

	out, err := o.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(o.modelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []types.Message{{
			Role: types.ConversationRoleUser,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: prompt},
			},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(o.maxTokens),
			Temperature: aws.Float32(0),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	text, err := responseText(out)
	if err != nil {
		return Result{}, err
	}

	answer, err := parseAnswer(text)
	if err != nil {
		return Result{}, err
	}
	return Validate(shortlist, answer.Numbers, answer.Phonetics, MaxSelections)
}

func responseText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", fmt.Errorf("%w: empty output", ErrMalformedResponse)
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("%w: output is not a message", ErrMalformedResponse)
	}

	var b strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(t.Value)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text content", ErrMalformedResponse)
	}
	return b.String(), nil
}

// parseAnswer extracts the JSON object from the model's reply, tolerating
// surrounding prose or code fences.
func parseAnswer(text string) (bedrockAnswer, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return bedrockAnswer{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformedResponse)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return bedrockAnswer{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	numbers, ok := raw["numbers"]
	if !ok {
		return bedrockAnswer{}, fmt.Errorf("%w: missing numbers", ErrMalformedResponse)
	}
	phonetics, ok := raw["phonetics"]
	if !ok {
		return bedrockAnswer{}, fmt.Errorf("%w: missing phonetics", ErrMalformedResponse)
	}

	var answer bedrockAnswer
	if err := json.Unmarshal(numbers, &answer.Numbers); err != nil {
		return bedrockAnswer{}, fmt.Errorf("%w: numbers: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(phonetics, &answer.Phonetics); err != nil {
		return bedrockAnswer{}, fmt.Errorf("%w: phonetics: %v", ErrMalformedResponse, err)
	}
	return answer, nil
}
